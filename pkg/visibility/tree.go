package visibility

import "github.com/matzehuels/entigraph/pkg/graph"

// TypeGroup is one type-level checkbox with its node-level children.
type TypeGroup struct {
	Type    graph.EntityType `json:"type"`
	Checked bool             `json:"checked"`
	Count   int              `json:"count"`
	Nodes   []NodeCheck      `json:"nodes"`
}

// NodeCheck is one node-level checkbox.
type NodeCheck struct {
	ID      string `json:"id"`
	Checked bool   `json:"checked"`
}

// Tree returns the checkbox hierarchy: present types in display order, each
// with its nodes in model order.
func (s *State) Tree() []TypeGroup {
	types := s.model.Types()
	out := make([]TypeGroup, 0, len(types))
	for _, t := range types {
		g := TypeGroup{Type: t, Checked: s.types[t]}
		for _, i := range s.model.NodesOfType(t) {
			g.Nodes = append(g.Nodes, NodeCheck{ID: s.model.NodeAt(i).ID, Checked: s.nodes[i]})
		}
		g.Count = len(g.Nodes)
		out = append(out, g)
	}
	return out
}
