// Package formats assembles the render adapters shared by the CLI and the
// HTTP server.
package formats

import (
	"github.com/matzehuels/entigraph/pkg/render"
	"github.com/matzehuels/entigraph/pkg/render/nodelink"
	"github.com/matzehuels/entigraph/pkg/render/plotly"
)

// Binary lists the formats whose output is not text.
var Binary = map[string]bool{"pdf": true, "png": true}

// Registry returns every output format: json, plotly, dot, svg, pdf, png.
func Registry(opts nodelink.Options) *render.Registry {
	return render.NewRegistry(
		render.JSON{},
		plotly.Adapter{},
		nodelink.DOT{Options: opts},
		nodelink.SVG{Options: opts},
		nodelink.PDF{Options: opts},
		nodelink.PNG{Options: opts},
	)
}

// Cacheable reports whether output in format is worth caching: the
// Graphviz-backed formats.
func Cacheable(format string) bool {
	switch format {
	case "svg", "pdf", "png":
		return true
	}
	return false
}
