package graph

import (
	"encoding/json"
	"slices"
	"strings"
)

// =============================================================================
// Response - Extraction Service Wire Format
// =============================================================================

// Response is the body returned by the extraction service.
type Response struct {
	Entities map[string][]string `json:"entities"`
	Graph    *Raw                `json:"graph"`
}

// Raw is the graph section of a [Response] before normalization.
//
// Edges and positions are kept as raw JSON because their shape varies
// between producers; [Load] normalizes them exactly once.
type Raw struct {
	Nodes     []string                   `json:"nodes"`
	Edges     []json.RawMessage          `json:"edges,omitempty"`
	Positions map[string]json.RawMessage `json:"positions,omitempty"`
	NodeTypes map[string]string          `json:"nodeTypes,omitempty"`
	Adjacency map[string][]string        `json:"adjacency,omitempty"`
}

// IsEmpty reports whether the response has no graph nodes.
func (r *Response) IsEmpty() bool {
	return r == nil || r.Graph == nil || len(r.Graph.Nodes) == 0
}

// =============================================================================
// Entity Groups
// =============================================================================

// EntityGroup is one entity type with its extracted surface strings.
type EntityGroup struct {
	Type     string   `json:"type"`
	Entities []string `json:"entities"`
}

// EntityGroups returns the non-empty entity lists ordered by [EntityTypes],
// with labels outside the enum following alphabetically.
func (r *Response) EntityGroups() []EntityGroup {
	if r == nil {
		return nil
	}
	labels := make([]string, 0, len(r.Entities))
	for label, list := range r.Entities {
		if len(list) > 0 {
			labels = append(labels, label)
		}
	}
	slices.SortFunc(labels, func(a, b string) int {
		ta, _ := ParseEntityType(a)
		tb, _ := ParseEntityType(b)
		ra, rb := rankLabel(a, ta), rankLabel(b, tb)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})

	groups := make([]EntityGroup, len(labels))
	for i, label := range labels {
		groups[i] = EntityGroup{Type: label, Entities: slices.Clone(r.Entities[label])}
	}
	return groups
}

// rankLabel places enum labels first; UNKNOWN and unrecognized labels share
// the last rank.
func rankLabel(label string, t EntityType) int {
	if t == Unknown {
		return len(EntityTypes)
	}
	return t.Rank()
}
