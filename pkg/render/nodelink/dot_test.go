package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/entigraph/pkg/graph/graphtest"
	"github.com/matzehuels/entigraph/pkg/highlight"
	"github.com/matzehuels/entigraph/pkg/render"
	"github.com/matzehuels/entigraph/pkg/visibility"
)

func sampleFrame(hidden string, focal string) render.Frame {
	m := graphtest.Sample()
	vis := visibility.New(m)
	if hidden != "" {
		_ = vis.SetNode(hidden, false)
	}
	hl := highlight.Clear()
	if focal != "" {
		hl = highlight.Focus(focal)
	}
	return render.Project(m, vis, hl)
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sampleFrame("", ""), Options{})

	if !strings.Contains(dot, "graph G") || strings.Contains(dot, "digraph") {
		t.Error("ToDOT() output should be an undirected graph")
	}
	if !strings.Contains(dot, "layout=neato") {
		t.Error("ToDOT() output missing neato layout")
	}
	if !strings.Contains(dot, `"Elon Musk" -- "SpaceX"`) {
		t.Error("ToDOT() output missing edge")
	}
	if !strings.Contains(dot, `fillcolor="#FF6B6B"`) {
		t.Error("ToDOT() output missing PERSON fill")
	}
}

func TestToDOT_Hidden(t *testing.T) {
	dot := ToDOT(sampleFrame("California", ""), Options{})

	if !strings.Contains(dot, "style=invis") {
		t.Error("ToDOT() hidden node missing invis style")
	}
	if strings.Contains(dot, `"SpaceX" -- "California"`) {
		t.Error("ToDOT() should omit edges to hidden nodes")
	}
}

func TestToDOT_Dimmed(t *testing.T) {
	dot := ToDOT(sampleFrame("", "Tesla"), Options{})

	// SpaceX is outside Tesla's neighborhood: #4ECDC4 at 0.3 alpha.
	if !strings.Contains(dot, `fillcolor="#4ECDC44D"`) {
		t.Errorf("ToDOT() missing dimmed fill:\n%s", dot)
	}
}

func TestToDOT_PinnedPositions(t *testing.T) {
	dot := ToDOT(sampleFrame("", ""), Options{Width: 10, Height: 10})

	// Elon Musk has the minimum x (0.1); California has the maximum x (0.9)
	// and minimum y (0.1).
	if !strings.Contains(dot, `"Elon Musk" [pos="0.000,`) {
		t.Errorf("Elon Musk should be pinned at x=0:\n%s", dot)
	}
	if !strings.Contains(dot, `"California" [pos="10.000,0.000!"`) {
		t.Errorf("California should be pinned at (10, 0):\n%s", dot)
	}
}

func TestPlainText(t *testing.T) {
	got := plainText("<b>AT&amp;T</b><br>Type: <i>ORG</i>")
	if got != "AT&T\nType: ORG" {
		t.Errorf("plainText() = %q", got)
	}
}

func TestDOTAdapter(t *testing.T) {
	data, err := DOT{}.Render(context.Background(), render.EmptyFrame())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(data), "graph G {") {
		t.Errorf("Render() = %q", data)
	}
}
