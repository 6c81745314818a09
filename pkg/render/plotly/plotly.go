// Package plotly renders frames as Plotly figures.
//
// A figure holds three scatter traces, in this order:
//
//	0  Relationships  edge lines (x/y pairs separated by nulls)
//	1  Edge Info      transparent markers at edge midpoints carrying hover text
//	2  Entities       node markers with labels
//
// Trace and point indexes are what a Plotly click event reports, so the
// engine resolves clicks against the same frame. Each marker also carries
// customdata: the node id for entities and "A|B" for edge midpoints.
package plotly

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/render"
)

// Trace indexes within a figure.
const (
	TraceEdges     = 0
	TraceEdgeHover = 1
	TraceNodes     = 2
)

// Figure is a Plotly figure.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one scatter trace.
type Trace struct {
	Type         string     `json:"type"`
	Name         string     `json:"name"`
	Mode         string     `json:"mode"`
	X            []*float64 `json:"x"`
	Y            []*float64 `json:"y"`
	Text         []string   `json:"text,omitempty"`
	TextPosition string     `json:"textposition,omitempty"`
	TextFont     *Font      `json:"textfont,omitempty"`
	HoverInfo    string     `json:"hoverinfo"`
	HoverText    []string   `json:"hovertext,omitempty"`
	CustomData   []string   `json:"customdata,omitempty"`
	Line         *Line      `json:"line,omitempty"`
	Marker       *Marker    `json:"marker,omitempty"`
	ShowLegend   bool       `json:"showlegend"`
}

// Line styles a line trace or a marker outline.
type Line struct {
	Width float64 `json:"width"`
	Color string  `json:"color,omitempty"`
}

// Marker styles trace markers. Color is a single color or one per point.
type Marker struct {
	Size  float64 `json:"size"`
	Color any     `json:"color"`
	Line  *Line   `json:"line,omitempty"`
}

// Font styles text.
type Font struct {
	Color  string `json:"color,omitempty"`
	Size   int    `json:"size,omitempty"`
	Family string `json:"family,omitempty"`
}

// Layout is the figure layout.
type Layout struct {
	Title        Title        `json:"title"`
	ShowLegend   bool         `json:"showlegend"`
	HoverMode    string       `json:"hovermode"`
	Height       int          `json:"height"`
	Margin       Margin       `json:"margin"`
	Annotations  []Annotation `json:"annotations"`
	XAxis        Axis         `json:"xaxis"`
	YAxis        Axis         `json:"yaxis"`
	PlotBGColor  string       `json:"plot_bgcolor"`
	PaperBGColor string       `json:"paper_bgcolor"`
	Font         Font         `json:"font"`
}

// Title is the figure title.
type Title struct {
	Text string `json:"text"`
	Font Font   `json:"font"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	B int `json:"b"`
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
}

// Annotation is a text annotation positioned in paper coordinates.
type Annotation struct {
	Text      string  `json:"text"`
	ShowArrow bool    `json:"showarrow"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XAnchor   string  `json:"xanchor"`
	YAnchor   string  `json:"yanchor"`
	Font      Font    `json:"font"`
}

// Axis hides grid and ticks.
type Axis struct {
	ShowGrid       bool `json:"showgrid"`
	ZeroLine       bool `json:"zeroline"`
	ShowTickLabels bool `json:"showticklabels"`
}

// Build converts a frame into a figure.
func Build(f render.Frame) Figure {
	edges := Trace{
		Type: "scatter", Name: "Relationships", Mode: "lines",
		X: []*float64{}, Y: []*float64{},
		HoverInfo: "none",
		Line:      &Line{Width: 4, Color: "#888"},
	}
	for _, s := range f.EdgeLines {
		edges.X = append(edges.X, ptr(s.X0), ptr(s.X1), nil)
		edges.Y = append(edges.Y, ptr(s.Y0), ptr(s.Y1), nil)
	}

	hover := Trace{
		Type: "scatter", Name: "Edge Info", Mode: "markers",
		X: []*float64{}, Y: []*float64{},
		HoverInfo: "text",
		Marker:    &Marker{Size: 15, Color: render.Transparent.String(), Line: &Line{Width: 0}},
	}
	for _, h := range f.EdgeHoverPoints {
		hover.X = append(hover.X, ptr(h.X))
		hover.Y = append(hover.Y, ptr(h.Y))
		hover.HoverText = append(hover.HoverText, h.Hover)
		hover.CustomData = append(hover.CustomData, h.Source+"|"+h.Target)
	}

	colors := make([]string, len(f.Points))
	nodes := Trace{
		Type: "scatter", Name: "Entities", Mode: "markers+text",
		X: []*float64{}, Y: []*float64{}, Text: []string{},
		TextPosition: "middle center",
		TextFont:     &Font{Color: "white", Size: 12, Family: "Arial Black"},
		HoverInfo:    "text",
		Marker:       &Marker{Size: 50, Color: colors, Line: &Line{Width: 3, Color: "white"}},
	}
	for i, p := range f.Points {
		nodes.X = append(nodes.X, ptr(p.X))
		nodes.Y = append(nodes.Y, ptr(p.Y))
		nodes.Text = append(nodes.Text, p.Text)
		nodes.HoverText = append(nodes.HoverText, p.Hover)
		nodes.CustomData = append(nodes.CustomData, p.ID)
		colors[i] = p.Color.String()
	}

	return Figure{Data: []Trace{edges, hover, nodes}, Layout: layout(f)}
}

func layout(f render.Frame) Layout {
	return Layout{
		Title:     Title{Text: "Extracted Entities Graph", Font: Font{Size: 20, Color: "white"}},
		HoverMode: "closest",
		Height:    550,
		Margin:    Margin{B: 40, L: 40, R: 40, T: 60},
		Annotations: []Annotation{{
			Text: f.Caption, XRef: "paper", YRef: "paper",
			X: 0.5, Y: -0.12, XAnchor: "center", YAnchor: "bottom",
			Font: Font{Color: "white", Size: 11},
		}},
		PlotBGColor:  render.Transparent.String(),
		PaperBGColor: render.Transparent.String(),
		Font:         Font{Color: "white"},
	}
}

func ptr(v float64) *float64 { return &v }

// Adapter renders frames as Plotly figure JSON.
type Adapter struct{}

func (Adapter) Format() string      { return "plotly" }
func (Adapter) ContentType() string { return "application/json" }

func (Adapter) Render(_ context.Context, f render.Frame) ([]byte, error) {
	data, err := json.Marshal(Build(f))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode plotly figure")
	}
	return data, nil
}
