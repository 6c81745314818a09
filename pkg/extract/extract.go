package extract

import (
	"context"
	"strings"

	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/graph"
)

// Extractor turns raw text into an extraction response.
type Extractor interface {
	Extract(ctx context.Context, text string) (*graph.Response, error)
}

// Func adapts a function to [Extractor].
type Func func(ctx context.Context, text string) (*graph.Response, error)

// Extract calls f.
func (f Func) Extract(ctx context.Context, text string) (*graph.Response, error) {
	return f(ctx, text)
}

// ValidateText rejects empty and whitespace-only input.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "text is empty")
	}
	return nil
}
