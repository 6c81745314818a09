package render

import "github.com/matzehuels/entigraph/pkg/graph"

// Point is one node marker. Hidden nodes keep their slot with a transparent
// color and empty text so indexes stay stable across frames.
type Point struct {
	ID      string           `json:"id"`
	Type    graph.EntityType `json:"type"`
	X       float64          `json:"x"`
	Y       float64          `json:"y"`
	Color   Color            `json:"color"`
	Text    string           `json:"text"`
	Hover   string           `json:"hover"`
	Visible bool             `json:"visible"`
	Dimmed  bool             `json:"dimmed,omitempty"`
}

// Segment is a line between two visible endpoints.
type Segment struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	X0     float64 `json:"x0"`
	Y0     float64 `json:"y0"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
}

// EdgeHover is the hover target at the midpoint of a visible edge.
type EdgeHover struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Hover  string  `json:"hover"`
}

// Frame is the renderer-agnostic geometry for one draw.
type Frame struct {
	Empty           bool          `json:"empty"`
	Points          []Point       `json:"points"`
	EdgeLines       []Segment     `json:"edgeLines"`
	EdgeHoverPoints []EdgeHover   `json:"edgeHoverPoints"`
	Focal           string        `json:"focal,omitempty"`
	Legend          []LegendEntry `json:"legend"`
	Caption         string        `json:"caption"`
}

// EmptyFrame is the placeholder frame for a missing or empty graph.
func EmptyFrame() Frame {
	return Frame{
		Empty:           true,
		Points:          []Point{},
		EdgeLines:       []Segment{},
		EdgeHoverPoints: []EdgeHover{},
		Legend:          Legend(),
		Caption:         Caption,
	}
}

// PointIndex returns the index of node id in Points, or -1.
func (f Frame) PointIndex(id string) int {
	for i, p := range f.Points {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Highlighted reports whether the frame was projected with a focal node.
func (f Frame) Highlighted() bool { return f.Focal != "" }
