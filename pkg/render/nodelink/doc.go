// Package nodelink renders frames as Graphviz node-link diagrams.
//
// # Overview
//
// This package is the imperative rendering surface: it turns a
// [render.Frame] into Graphviz DOT source and renders it in-process. Frame
// positions are precomputed, so every node is pinned with pos="x,y!" and the
// neato engine only draws.
//
// # Usage
//
//	dot := nodelink.ToDOT(frame, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// The [DOT], [SVG], [PDF] and [PNG] types implement [render.Adapter].
//
// # Styling
//
//   - Visible points are filled with their frame color.
//   - Dimmed points use an #RRGGBBAA fill.
//   - Hidden points stay in the graph with style=invis.
//   - Only the frame's edge lines are emitted.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
