package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/entigraph/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Width and Height are the canvas size in inches that frame coordinates
	// are scaled into. Zero values use 8x6.
	Width, Height float64
}

func (o Options) size() (float64, float64) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 8
	}
	if h <= 0 {
		h = 6
	}
	return w, h
}

// ToDOT converts a frame to Graphviz DOT with every node pinned to its frame
// position. The result is meant for the neato engine, which honors pinned
// positions; [RenderSVG] selects it.
//
// Hidden points are emitted with style=invis so node order and positions
// match the frame; dimmed points get a translucent fill.
func ToDOT(f render.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.7, fontsize=9, fontname=\"Arial Black\", fontcolor=white, color=white, penwidth=2];\n")
	buf.WriteString("  edge [color=\"#888888\", penwidth=4];\n")
	buf.WriteString("\n")

	scale := newScaler(f, opts)
	for _, p := range f.Points {
		x, y := scale(p.X, p.Y)
		attrs := []string{
			fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(x), fmtFloat(y)),
			fmt.Sprintf("label=%q", p.Text),
			fmt.Sprintf("tooltip=%q", plainText(p.Hover)),
		}
		if p.Visible {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", dotColor(p.Color)))
		} else {
			attrs = append(attrs, "style=invis")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, s := range f.EdgeLines {
		tooltip := ""
		if i < len(f.EdgeHoverPoints) {
			tooltip = plainText(f.EdgeHoverPoints[i].Hover)
		}
		fmt.Fprintf(&buf, "  %q -- %q [tooltip=%q];\n", s.Source, s.Target, tooltip)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// newScaler maps frame coordinates into the canvas. Plotly and Graphviz both
// put y up, so no axis is flipped.
func newScaler(f render.Frame, opts Options) func(x, y float64) (float64, float64) {
	w, h := opts.size()
	if len(f.Points) == 0 {
		return func(x, y float64) (float64, float64) { return x, y }
	}
	minX, maxX := f.Points[0].X, f.Points[0].X
	minY, maxY := f.Points[0].Y, f.Points[0].Y
	for _, p := range f.Points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	spanX, spanY := maxX-minX, maxY-minY
	return func(x, y float64) (float64, float64) {
		sx, sy := w/2, h/2
		if spanX > 0 {
			sx = (x - minX) / spanX * w
		}
		if spanY > 0 {
			sy = (y - minY) / spanY * h
		}
		return sx, sy
	}
}

// dotColor writes a color as #RRGGBB or #RRGGBBAA.
func dotColor(c render.Color) string {
	if c.A >= 1 {
		return c.Hex()
	}
	return fmt.Sprintf("%s%02X", c.Hex(), uint8(c.A*255+0.5))
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

var (
	breakRe = regexp.MustCompile(`<br\s*/?>`)
	tagRe   = regexp.MustCompile(`<[^>]+>`)
)

// plainText converts hover markup to a multi-line tooltip.
func plainText(s string) string {
	s = breakRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, "")
	return strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&#34;", `"`, "&#39;", "'").Replace(s)
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
