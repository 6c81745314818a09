// Package visibility tracks which nodes of an entity graph are checked.
//
// State holds one flag per node plus one aggregate flag per entity type, and
// keeps the two levels consistent:
//
//   - SetType forces every node of the type to the new value.
//   - SetNode updates one node, then the type flag becomes true when any node
//     of that type is still checked ("any visible", not "all visible").
//   - ShowAll, HideAll and ShowOnlyConnected rewrite every flag in one step.
//
// State is not safe for concurrent use; the engine serializes access.
package visibility

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/graph"
)

// State is the checkbox state for one loaded graph.
type State struct {
	model *graph.Model
	nodes []bool
	types map[graph.EntityType]bool
}

// New returns a State with every node and type checked.
func New(m *graph.Model) *State {
	s := &State{
		model: m,
		nodes: make([]bool, m.Len()),
		types: make(map[graph.EntityType]bool),
	}
	for _, t := range m.Types() {
		s.types[t] = true
	}
	s.setAll(true)
	return s
}

// Model returns the graph the state belongs to.
func (s *State) Model() *graph.Model { return s.model }

// SetType checks or unchecks every node of type t.
func (s *State) SetType(t graph.EntityType, checked bool) error {
	if _, ok := s.types[t]; !ok {
		return errors.New(errors.ErrCodeInvalidEvent, "no nodes of type %s", t)
	}
	for _, i := range s.model.NodesOfType(t) {
		s.nodes[i] = checked
	}
	s.types[t] = checked
	return nil
}

// SetNode checks or unchecks one node and recomputes its type's flag.
func (s *State) SetNode(id string, checked bool) error {
	i := s.model.Index(id)
	if i < 0 {
		return errors.New(errors.ErrCodeUnknownNode, "unknown node %q", id)
	}
	s.nodes[i] = checked
	s.recomputeType(s.model.NodeAt(i).Type)
	return nil
}

// ShowAll checks every node and type.
func (s *State) ShowAll() { s.setAll(true) }

// HideAll unchecks every node and type.
func (s *State) HideAll() { s.setAll(false) }

func (s *State) setAll(checked bool) {
	for i := range s.nodes {
		s.nodes[i] = checked
	}
	for t := range s.types {
		s.types[t] = checked
	}
}

// ShowOnlyConnected checks exactly the nodes that have an adjacency entry or
// appear in another node's adjacency list, and unchecks the rest.
func (s *State) ShowOnlyConnected() {
	connected := ConnectedSet(s.model)
	for i := range s.nodes {
		s.nodes[i] = connected.Contains(s.model.NodeAt(i).ID)
	}
	for t := range s.types {
		s.recomputeType(t)
	}
}

// ConnectedSet returns the ids of nodes with degree >= 1 together with every
// id listed as a neighbor.
func ConnectedSet(m *graph.Model) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, n := range m.Nodes() {
		neighbors := m.Neighbors(n.ID)
		if len(neighbors) == 0 {
			continue
		}
		set.Add(n.ID)
		set.Append(neighbors...)
	}
	return set
}

func (s *State) recomputeType(t graph.EntityType) {
	checked := false
	for _, i := range s.model.NodesOfType(t) {
		if s.nodes[i] {
			checked = true
			break
		}
	}
	s.types[t] = checked
}

// =============================================================================
// Queries
// =============================================================================

// IsVisible reports whether node id is checked. Unknown ids are not visible.
func (s *State) IsVisible(id string) bool {
	i := s.model.Index(id)
	return i >= 0 && s.nodes[i]
}

// VisibleAt reports whether the node at model index i is checked.
func (s *State) VisibleAt(i int) bool { return s.nodes[i] }

// TypeChecked returns the aggregate flag for t.
func (s *State) TypeChecked(t graph.EntityType) bool { return s.types[t] }

// VisibleNodes returns the checked node ids in model order.
func (s *State) VisibleNodes() []string {
	var out []string
	for i, v := range s.nodes {
		if v {
			out = append(out, s.model.NodeAt(i).ID)
		}
	}
	return out
}

// VisibleCount returns the number of checked nodes.
func (s *State) VisibleCount() int {
	n := 0
	for _, v := range s.nodes {
		if v {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	c := &State{
		model: s.model,
		nodes: make([]bool, len(s.nodes)),
		types: make(map[graph.EntityType]bool, len(s.types)),
	}
	copy(c.nodes, s.nodes)
	for t, v := range s.types {
		c.types[t] = v
	}
	return c
}

// Equal reports whether s and o hold the same flags for the same graph.
func (s *State) Equal(o *State) bool {
	if s.model != o.model || len(s.nodes) != len(o.nodes) || len(s.types) != len(o.types) {
		return false
	}
	for i := range s.nodes {
		if s.nodes[i] != o.nodes[i] {
			return false
		}
	}
	for t, v := range s.types {
		if o.types[t] != v {
			return false
		}
	}
	return true
}
