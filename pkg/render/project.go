package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/entigraph/pkg/graph"
	"github.com/matzehuels/entigraph/pkg/highlight"
	"github.com/matzehuels/entigraph/pkg/visibility"
)

// maxHoverNeighbors is the number of neighbors listed in a node's hover text.
const maxHoverNeighbors = 3

// Project computes the frame for the given graph, visibility and highlight.
//
// Project reads its inputs and never modifies them. Points follow model node
// order (unpositioned nodes are skipped) and edges follow model edge order,
// so identical inputs give identical frames.
func Project(m *graph.Model, vis *visibility.State, hl highlight.State) Frame {
	if m == nil || vis == nil {
		return EmptyFrame()
	}

	full := hl.Partition(m)
	f := Frame{
		Points:          make([]Point, 0, m.Len()),
		EdgeLines:       []Segment{},
		EdgeHoverPoints: []EdgeHover{},
		Legend:          Legend(),
		Caption:         Caption,
	}
	if focal, ok := hl.Focal(); ok {
		f.Focal = focal
	}

	for i, n := range m.Nodes() {
		if !n.Positioned {
			continue
		}
		p := Point{
			ID:    n.ID,
			Type:  n.Type,
			X:     n.Position.X,
			Y:     n.Position.Y,
			Hover: NodeHover(m, n),
		}
		switch {
		case !vis.VisibleAt(i):
			p.Color = Transparent
		case !full[i]:
			p.Color = BaseColor(n.Type).Dim()
			p.Text = n.ID
			p.Visible = true
			p.Dimmed = true
		default:
			p.Color = BaseColor(n.Type)
			p.Text = n.ID
			p.Visible = true
		}
		f.Points = append(f.Points, p)
	}

	for _, e := range m.Edges() {
		a, _ := m.Node(e.Source)
		b, _ := m.Node(e.Target)
		if !a.Positioned || !b.Positioned || !vis.IsVisible(a.ID) || !vis.IsVisible(b.ID) {
			continue
		}
		f.EdgeLines = append(f.EdgeLines, Segment{
			Source: e.Source, Target: e.Target,
			X0: a.Position.X, Y0: a.Position.Y,
			X1: b.Position.X, Y1: b.Position.Y,
		})
		f.EdgeHoverPoints = append(f.EdgeHoverPoints, EdgeHover{
			Source: e.Source,
			Target: e.Target,
			X:      (a.Position.X + b.Position.X) / 2,
			Y:      (a.Position.Y + b.Position.Y) / 2,
			Hover:  EdgeHoverText(e),
		})
	}
	return f
}

// NodeHover formats the hover text of n: its id, type and up to three
// neighbors with an overflow count.
func NodeHover(m *graph.Model, n graph.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b><br>Type: <i>%s</i><br>", html.EscapeString(n.ID), n.Type)

	neighbors := m.Neighbors(n.ID)
	if len(neighbors) == 0 {
		b.WriteString("No connections")
		return b.String()
	}
	shown := neighbors
	if len(shown) > maxHoverNeighbors {
		shown = shown[:maxHoverNeighbors]
	}
	escaped := make([]string, len(shown))
	for i, id := range shown {
		escaped[i] = html.EscapeString(id)
	}
	b.WriteString("Connections: ")
	b.WriteString(strings.Join(escaped, ", "))
	if extra := len(neighbors) - len(shown); extra > 0 {
		fmt.Fprintf(&b, " and %d more...", extra)
	}
	return b.String()
}

// EdgeHoverText formats the hover text of an edge midpoint.
func EdgeHoverText(e graph.Edge) string {
	return fmt.Sprintf("<b>%s ←→ %s</b><br>Relationship: <i>related</i>",
		html.EscapeString(e.Source), html.EscapeString(e.Target))
}
