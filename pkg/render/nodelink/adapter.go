package nodelink

import (
	"context"

	"github.com/matzehuels/entigraph/pkg/render"
)

// DOT renders frames as Graphviz DOT source.
type DOT struct{ Options Options }

func (DOT) Format() string      { return "dot" }
func (DOT) ContentType() string { return "text/vnd.graphviz" }

func (a DOT) Render(_ context.Context, f render.Frame) ([]byte, error) {
	return []byte(ToDOT(f, a.Options)), nil
}

// SVG renders frames to SVG through Graphviz.
type SVG struct{ Options Options }

func (SVG) Format() string      { return "svg" }
func (SVG) ContentType() string { return "image/svg+xml" }

func (a SVG) Render(ctx context.Context, f render.Frame) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(f, a.Options))
}

// PDF renders frames to PDF; it needs rsvg-convert on PATH.
type PDF struct{ Options Options }

func (PDF) Format() string      { return "pdf" }
func (PDF) ContentType() string { return "application/pdf" }

func (a PDF) Render(ctx context.Context, f render.Frame) ([]byte, error) {
	return RenderPDF(ctx, ToDOT(f, a.Options))
}

// PNG renders frames to PNG; it needs rsvg-convert on PATH.
type PNG struct {
	Options Options
	Scale   float64
}

func (PNG) Format() string      { return "png" }
func (PNG) ContentType() string { return "image/png" }

func (a PNG) Render(ctx context.Context, f render.Frame) ([]byte, error) {
	scale := a.Scale
	if scale <= 0 {
		scale = 2
	}
	return RenderPNG(ctx, ToDOT(f, a.Options), scale)
}
