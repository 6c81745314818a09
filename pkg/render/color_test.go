package render

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/graph"
)

func TestColorString(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  string
	}{
		{"opaque", MustParseHex("#45b7d1"), "#45B7D1"},
		{"dimmed", MustParseHex("#FF6B6B").Dim(), "rgba(255,107,107,0.3)"},
		{"transparent", Transparent, "rgba(0,0,0,0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			data, err := json.Marshal(tt.color)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != `"`+tt.want+`"` {
				t.Errorf("MarshalJSON() = %s, want %q", data, tt.want)
			}
		})
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, s := range []string{"", "#FFF", "#GGGGGG", "12345678"} {
		if _, err := ParseHex(s); err == nil {
			t.Errorf("ParseHex(%q) expected error", s)
		}
	}
}

func TestBaseColorFallback(t *testing.T) {
	if got := BaseColor(graph.EntityType("EVENT")).Hex(); got != "#CCCCCC" {
		t.Errorf("BaseColor(EVENT) = %s, want #CCCCCC", got)
	}
}

func TestLegend(t *testing.T) {
	legend := Legend()
	if len(legend) != len(graph.EntityTypes) {
		t.Fatalf("len(Legend()) = %d, want %d", len(legend), len(graph.EntityTypes))
	}
	if legend[0].Type != graph.Person || legend[0].Label != "People" {
		t.Errorf("Legend()[0] = %+v, want PERSON/People", legend[0])
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(JSON{})

	a, err := r.Get("JSON")
	if err != nil {
		t.Fatalf("Get(JSON): %v", err)
	}
	if a.ContentType() != "application/json" {
		t.Errorf("ContentType() = %s", a.ContentType())
	}
	if _, err := a.Render(context.Background(), EmptyFrame()); err != nil {
		t.Errorf("Render: %v", err)
	}

	if _, err := r.Get("gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Get(gif) err = %v, want INVALID_FORMAT", err)
	}
}
