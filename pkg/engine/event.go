package engine

import (
	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/graph"
	"github.com/matzehuels/entigraph/pkg/highlight"
	"github.com/matzehuels/entigraph/pkg/render"
)

// Kind names an input event.
type Kind string

// Event kinds.
const (
	KindTypeToggle    Kind = "type_toggle"
	KindNodeToggle    Kind = "node_toggle"
	KindShowAll       Kind = "show_all"
	KindHideAll       Kind = "hide_all"
	KindConnectedOnly Kind = "connected_only"
	KindResetView     Kind = "reset_view"
	KindClick         Kind = "click"
	KindDoubleClick   Kind = "double_click"
)

// Kinds lists every accepted event kind.
var Kinds = []Kind{
	KindTypeToggle, KindNodeToggle,
	KindShowAll, KindHideAll, KindConnectedOnly, KindResetView,
	KindClick, KindDoubleClick,
}

// Trace names the clickable layer of a frame.
type Trace string

// Click targets.
const (
	TraceNode Trace = "node"
	TraceEdge Trace = "edge"
)

// Event is one user action on the surface.
//
// A click names its target either directly by Node or by Trace and Index,
// where Index points into the current frame's Points (node trace) or
// EdgeHoverPoints (edge trace).
type Event struct {
	Kind    Kind   `json:"kind" validate:"required"`
	Type    string `json:"type,omitempty"`
	Node    string `json:"node,omitempty"`
	Checked bool   `json:"checked,omitempty"`
	Trace   Trace  `json:"trace,omitempty"`
	Index   *int   `json:"index,omitempty"`
}

// TypeToggle returns a type checkbox event.
func TypeToggle(t graph.EntityType, checked bool) Event {
	return Event{Kind: KindTypeToggle, Type: string(t), Checked: checked}
}

// NodeToggle returns a node checkbox event.
func NodeToggle(id string, checked bool) Event {
	return Event{Kind: KindNodeToggle, Node: id, Checked: checked}
}

// ClickNode returns a click on the node with the given id.
func ClickNode(id string) Event { return Event{Kind: KindClick, Node: id} }

// ClickAt returns a click on the index-th element of trace.
func ClickAt(trace Trace, index int) Event {
	return Event{Kind: KindClick, Trace: trace, Index: &index}
}

// Button returns a bulk visibility or double-click event.
func Button(kind Kind) Event { return Event{Kind: kind} }

// changesVisibility reports whether k mutates the visibility state.
func (k Kind) changesVisibility() bool {
	switch k {
	case KindTypeToggle, KindNodeToggle, KindShowAll, KindHideAll, KindConnectedOnly, KindResetView:
		return true
	}
	return false
}

// clickTarget resolves the node a click event focuses.
func clickTarget(m *graph.Model, f render.Frame, ev Event) (string, error) {
	if ev.Node != "" {
		if !m.Has(ev.Node) {
			return "", errors.New(errors.ErrCodeUnknownNode, "unknown node %q", ev.Node)
		}
		return ev.Node, nil
	}
	if ev.Index == nil {
		return "", errors.New(errors.ErrCodeInvalidEvent, "click needs a node or an index")
	}
	i := *ev.Index

	switch ev.Trace {
	case TraceNode, "":
		if i < 0 || i >= len(f.Points) {
			return "", errors.New(errors.ErrCodeInvalidEvent, "node index %d out of range", i)
		}
		return f.Points[i].ID, nil
	case TraceEdge:
		if i < 0 || i >= len(f.EdgeHoverPoints) {
			return "", errors.New(errors.ErrCodeInvalidEvent, "edge index %d out of range", i)
		}
		hp := f.EdgeHoverPoints[i]
		return highlight.EdgeFocus(graph.Edge{Source: hp.Source, Target: hp.Target}), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidEvent, "unknown trace %q", ev.Trace)
	}
}
