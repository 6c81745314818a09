package render

import "github.com/matzehuels/entigraph/pkg/graph"

// Caption is the static legend and interaction hint shown under the graph.
const Caption = "Red: People • Teal: Organizations • Blue: Locations • Green: Products<br>" +
	"<i>Click on nodes or edges to highlight connections • Use controls to show/hide nodes</i>"

// LegendEntry is one row of the color legend.
type LegendEntry struct {
	Type  graph.EntityType `json:"type"`
	Label string           `json:"label"`
	Color Color            `json:"color"`
}

var legendLabels = map[graph.EntityType]string{
	graph.Person:  "People",
	graph.Org:     "Organizations",
	graph.GPE:     "Locations",
	graph.Product: "Products",
	graph.Unknown: "Other",
}

// Legend returns the fixed color legend in display order.
func Legend() []LegendEntry {
	out := make([]LegendEntry, len(graph.EntityTypes))
	for i, t := range graph.EntityTypes {
		out[i] = LegendEntry{Type: t, Label: legendLabels[t], Color: BaseColor(t)}
	}
	return out
}
