// Package highlight holds the focal-node overlay.
//
// A State is either inactive or focused on one node. Toggle is a strict
// two-state switch: toggling while focused always clears, whichever node was
// clicked. The full/dimmed partition is derived on demand from the graph's
// adjacency and is never cached, so a cleared highlight leaves nothing
// behind.
package highlight

import "github.com/matzehuels/entigraph/pkg/graph"

// State is the highlight overlay. The zero value is inactive.
type State struct {
	focal  string
	active bool
}

// Focus returns an active state centered on node.
func Focus(node string) State { return State{focal: node, active: true} }

// Clear returns the inactive state.
func Clear() State { return State{} }

// Toggle focuses node when s is inactive and clears it otherwise.
func (s State) Toggle(node string) State {
	if s.active {
		return Clear()
	}
	return Focus(node)
}

// Active reports whether a focal node is set.
func (s State) Active() bool { return s.active }

// Focal returns the focal node id and whether the state is active.
func (s State) Focal() (string, bool) { return s.focal, s.active }

// EdgeFocus returns the node an edge click focuses: the endpoint listed first
// in the input.
func EdgeFocus(e graph.Edge) string { return e.Source }

// IsFull reports whether node id is drawn at full opacity: the focal node and
// its neighbors when active, every node when inactive.
func (s State) IsFull(m *graph.Model, id string) bool {
	if !s.active || id == s.focal {
		return true
	}
	for _, nb := range m.Neighbors(s.focal) {
		if nb == id {
			return true
		}
	}
	return false
}

// Partition returns one flag per model node: true for full, false for
// dimmed.
func (s State) Partition(m *graph.Model) []bool {
	out := make([]bool, m.Len())
	if !s.active {
		for i := range out {
			out[i] = true
		}
		return out
	}
	if i := m.Index(s.focal); i >= 0 {
		out[i] = true
		for _, j := range m.NeighborIndexes(i) {
			out[j] = true
		}
	}
	return out
}
