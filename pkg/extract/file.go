package extract

import (
	"context"

	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/graph"
)

// FileExtractor ignores the text and returns the response stored at Path.
// It lets the CLI and tests drive the engine without a running service.
type FileExtractor struct {
	Path string
}

// Extract reads the response file.
func (f FileExtractor) Extract(_ context.Context, text string) (*graph.Response, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	resp, err := graph.ReadResponseFile(f.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtraction, err, "read %s", f.Path)
	}
	return resp, nil
}
