package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/entigraph/pkg/cache"
	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/graph"
	"github.com/matzehuels/entigraph/pkg/graph/graphtest"
)

func newService(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, nil)
}

func TestClientExtract(t *testing.T) {
	var gotText string
	c := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/extract" {
			t.Errorf("request = %s %s, want POST /api/extract", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotText = body.Text
		_ = json.NewEncoder(w).Encode(graphtest.SampleResponse())
	})

	resp, err := c.Extract(context.Background(), "Elon Musk founded SpaceX.")
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if gotText != "Elon Musk founded SpaceX." {
		t.Errorf("sent text = %q", gotText)
	}
	if resp.IsEmpty() || len(resp.Graph.Nodes) != 4 {
		t.Errorf("response nodes = %v, want 4", resp.Graph)
	}
	if got := resp.Entities["ORG"]; len(got) != 2 {
		t.Errorf("ORG entities = %v", got)
	}
}

func TestClientExtractFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		detail  string
	}{
		{
			name: "service error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"model not loaded"}`))
			},
			detail: "model not loaded",
		},
		{
			name: "bad request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "no text", http.StatusBadRequest)
			},
			detail: "status 400",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"graph": [`))
			},
			detail: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newService(t, tt.handler)
			_, err := c.Extract(context.Background(), "text")
			if !errors.Is(err, errors.ErrCodeExtraction) {
				t.Fatalf("err = %v, want EXTRACTION_FAILED", err)
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("err = %v, want detail %q", err, tt.detail)
			}
			if got := errors.UserMessage(err); got != errors.ExtractionFailedMessage {
				t.Errorf("UserMessage = %q", got)
			}
		})
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, nil).Extract(context.Background(), "text")
	if !errors.Is(err, errors.ErrCodeExtraction) {
		t.Errorf("err = %v, want EXTRACTION_FAILED", err)
	}
}

func TestClientRejectsBlankText(t *testing.T) {
	var calls atomic.Int32
	c := newService(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := c.Extract(context.Background(), text); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Extract(%q) err = %v, want INVALID_INPUT", text, err)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("service called %d times, want 0", calls.Load())
	}
}

func TestCachedExtractor(t *testing.T) {
	var calls atomic.Int32
	inner := Func(func(ctx context.Context, text string) (*graph.Response, error) {
		calls.Add(1)
		if text == "fail" {
			return nil, errors.New(errors.ErrCodeExtraction, "boom")
		}
		return graphtest.SampleResponse(), nil
	})
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ex := NewCachedExtractor(inner, fc, CacheOptions{Endpoint: "test", TTL: time.Hour})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		resp, err := ex.Extract(ctx, "Elon Musk founded SpaceX.")
		if err != nil || resp.IsEmpty() {
			t.Fatalf("Extract() = %v, %v", resp, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("inner calls = %d, want 1", calls.Load())
	}

	for i := 0; i < 2; i++ {
		if _, err := ex.Extract(ctx, "fail"); err == nil {
			t.Error("failure should not be cached")
		}
	}
	if calls.Load() != 3 {
		t.Errorf("inner calls = %d, want 3", calls.Load())
	}
}

func TestFileExtractor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resp.json")
	if err := graph.WriteResponseFile(graphtest.SampleResponse(), path); err != nil {
		t.Fatal(err)
	}

	resp, err := FileExtractor{Path: path}.Extract(context.Background(), "anything")
	if err != nil || len(resp.Graph.Nodes) != 4 {
		t.Fatalf("Extract() = %v, %v", resp, err)
	}

	_, err = FileExtractor{Path: path + ".missing"}.Extract(context.Background(), "anything")
	if !errors.Is(err, errors.ErrCodeExtraction) {
		t.Errorf("missing file err = %v, want EXTRACTION_FAILED", err)
	}
}
