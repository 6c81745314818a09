package graph

import (
	"slices"
	"strings"
)

// =============================================================================
// Entity Types
// =============================================================================

// EntityType classifies an extracted entity.
type EntityType string

// Entity types recognized by the engine.
const (
	Person  EntityType = "PERSON"
	Org     EntityType = "ORG"
	GPE     EntityType = "GPE"
	Product EntityType = "PRODUCT"
	Unknown EntityType = "UNKNOWN"
)

// EntityTypes lists every entity type in display order.
var EntityTypes = []EntityType{Person, Org, GPE, Product, Unknown}

// ParseEntityType maps a type label to an [EntityType], ignoring case and
// surrounding whitespace. Labels outside the enum resolve to [Unknown] with
// ok=false.
func ParseEntityType(s string) (EntityType, bool) {
	t := EntityType(strings.ToUpper(strings.TrimSpace(s)))
	if slices.Contains(EntityTypes, t) {
		return t, true
	}
	return Unknown, false
}

// Rank returns the display position of t within [EntityTypes].
func (t EntityType) Rank() int {
	if i := slices.Index(EntityTypes, t); i >= 0 {
		return i
	}
	return len(EntityTypes)
}

// =============================================================================
// Node and Edge
// =============================================================================

// Point is a precomputed layout position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is an extracted entity. The identifier doubles as the display label.
type Node struct {
	ID         string     `json:"id"`
	Type       EntityType `json:"type"`
	Position   Point      `json:"position"`
	Positioned bool       `json:"positioned"`
}

// Edge is an unordered relationship between two nodes.
//
// Source is the endpoint listed first in the input (pair element 0, the
// "source" field, or key "0"). It only matters when an edge click has to
// pick a focal node; equality ignores the order.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Equal reports whether e and o connect the same two nodes.
func (e Edge) Equal(o Edge) bool {
	return (e.Source == o.Source && e.Target == o.Target) ||
		(e.Source == o.Target && e.Target == o.Source)
}

// Has reports whether id is one of the edge's endpoints.
func (e Edge) Has(id string) bool {
	return e.Source == id || e.Target == id
}

// key returns an order-independent identity for duplicate detection.
func (e Edge) key() string {
	a, b := e.Source, e.Target
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}
