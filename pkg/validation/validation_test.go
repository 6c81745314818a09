package validation

import (
	"strings"
	"testing"

	"github.com/matzehuels/entigraph/pkg/errors"
)

type request struct {
	Text  string `json:"text" validate:"notblank"`
	Kind  string `json:"kind" validate:"omitempty,oneof=a b"`
	Inner struct {
		URL string `json:"url" validate:"required,url"`
	} `json:"inner"`
}

func TestStruct(t *testing.T) {
	valid := request{Text: "hello"}
	valid.Inner.URL = "http://localhost:5000"

	tests := []struct {
		name    string
		mutate  func(*request)
		wantMsg string
	}{
		{"valid", func(*request) {}, ""},
		{"blank text", func(r *request) { r.Text = "   " }, "text: field is required"},
		{"bad kind", func(r *request) { r.Kind = "c" }, "kind: must be one of [a b]"},
		{"nested url", func(r *request) { r.Inner.URL = "not a url" }, "inner.url: invalid url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := Struct(r)
			if tt.wantMsg == "" {
				if err != nil {
					t.Errorf("Struct() error: %v", err)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("err = %v, want INVALID_INPUT", err)
			}
			if got := errors.UserMessage(err); !strings.HasPrefix(got, tt.wantMsg) {
				t.Errorf("message = %q, want prefix %q", got, tt.wantMsg)
			}
		})
	}
}
