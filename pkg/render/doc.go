// Package render projects the interaction state into renderable geometry.
//
// # Overview
//
// [Project] is a pure function from the loaded graph, its visibility state
// and the highlight overlay to a [Frame]:
//
//   - Points: one per positioned node, in model order. Hidden nodes keep
//     their slot with a transparent color and empty text.
//   - EdgeLines: one segment per edge whose endpoints are both visible.
//   - EdgeHoverPoints: one hover target at the midpoint of each drawn edge.
//
// Colors come from the fixed [Palette]. With a focal node set, nodes outside
// its neighborhood are dimmed to [DimAlpha] opacity; hidden nodes stay
// transparent either way.
//
// # Adapters
//
// A Frame is surface-agnostic. [Adapter] implementations turn it into bytes:
//
//   - [JSON]: the frame itself
//   - [plotly]: the three scatter traces of a Plotly figure
//   - [nodelink]: Graphviz DOT with pinned positions, rendered to SVG
//
// [Registry] resolves a format name ("json", "plotly", "dot", "svg") to its
// adapter for the CLI and the HTTP server.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG output using the external rsvg-convert
// tool (from librsvg).
//
// [plotly]: github.com/matzehuels/entigraph/pkg/render/plotly
// [nodelink]: github.com/matzehuels/entigraph/pkg/render/nodelink
package render
