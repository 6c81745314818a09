package render

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/matzehuels/entigraph/pkg/errors"
)

// Adapter turns a Frame into bytes for one rendering surface.
type Adapter interface {
	// Format is the short name used in flags and query parameters.
	Format() string
	// ContentType is the MIME type of the rendered output.
	ContentType() string
	// Render encodes f.
	Render(ctx context.Context, f Frame) ([]byte, error)
}

// JSON renders the frame itself as indented JSON.
type JSON struct{}

func (JSON) Format() string      { return "json" }
func (JSON) ContentType() string { return "application/json" }

func (JSON) Render(_ context.Context, f Frame) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode frame")
	}
	return data, nil
}

// Registry resolves output formats to adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry returns a registry holding the given adapters. Later adapters
// replace earlier ones with the same format.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Format()] = a
	}
	return r
}

// Get returns the adapter for format, or an INVALID_FORMAT error.
func (r *Registry) Get(format string) (Adapter, error) {
	a, ok := r.adapters[strings.ToLower(format)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unknown format %q (available: %s)", format, strings.Join(r.Formats(), ", "))
	}
	return a, nil
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.adapters))
	for f := range r.adapters {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
