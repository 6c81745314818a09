package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Response Serialization API
// =============================================================================

// MarshalResponse converts a Response to JSON bytes.
func MarshalResponse(r *Response) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeResponseTo(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalResponse deserializes JSON bytes to a Response.
func UnmarshalResponse(data []byte) (*Response, error) {
	return readResponseFrom(bytes.NewReader(data))
}

// WriteResponseFile writes a Response to a JSON file.
// The file is created with 0644 permissions.
func WriteResponseFile(r *Response, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeResponseTo(r, f)
}

// ReadResponseFile reads a JSON file holding an extraction response.
//
// A file holding only the graph object (with a top-level "nodes" key) is
// accepted too and wrapped in a Response with no entities.
func ReadResponseFile(path string) (*Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readResponseFrom(f)
}

// ReadResponse decodes an extraction response from an io.Reader.
func ReadResponse(r io.Reader) (*Response, error) {
	return readResponseFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeResponseTo(r *Response, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readResponseFrom(r io.Reader) (*Response, error) {
	var doc struct {
		Response
		Nodes json.RawMessage `json:"nodes"`
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Graph == nil && doc.Nodes != nil {
		var raw Raw
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode graph: %w", err)
		}
		return &Response{Graph: &raw}, nil
	}
	resp := doc.Response
	return &resp, nil
}
