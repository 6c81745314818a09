package highlight

import (
	"reflect"
	"testing"

	"github.com/matzehuels/entigraph/pkg/graph/graphtest"
)

func TestToggle(t *testing.T) {
	tests := []struct {
		name       string
		start      State
		node       string
		wantActive bool
		wantFocal  string
	}{
		{"inactive focuses", State{}, "Tesla", true, "Tesla"},
		{"same node clears", Focus("Tesla"), "Tesla", false, ""},
		{"other node clears", Focus("Tesla"), "SpaceX", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.Toggle(tt.node)
			focal, active := got.Focal()
			if active != tt.wantActive || focal != tt.wantFocal {
				t.Errorf("Toggle(%q) = (%q, %v), want (%q, %v)", tt.node, focal, active, tt.wantFocal, tt.wantActive)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	m := graphtest.Sample()

	if got := Clear().Partition(m); !reflect.DeepEqual(got, []bool{true, true, true, true}) {
		t.Errorf("inactive Partition() = %v, want all true", got)
	}

	// Elon Musk, SpaceX, Tesla, California
	want := []bool{true, true, false, true}
	if got := Focus("SpaceX").Partition(m); !reflect.DeepEqual(got, want) {
		t.Errorf("Focus(SpaceX).Partition() = %v, want %v", got, want)
	}

	for i, n := range m.Nodes() {
		if got := Focus("SpaceX").IsFull(m, n.ID); got != want[i] {
			t.Errorf("IsFull(%s) = %v, want %v", n.ID, got, want[i])
		}
	}
}

func TestPartitionUnknownFocal(t *testing.T) {
	got := Focus("Mars").Partition(graphtest.Sample())
	if !reflect.DeepEqual(got, []bool{false, false, false, false}) {
		t.Errorf("Partition() = %v, want all dimmed", got)
	}
}

func TestEdgeFocus(t *testing.T) {
	m := graphtest.Sample()
	for _, e := range m.Edges() {
		if got := EdgeFocus(e); got != e.Source {
			t.Errorf("EdgeFocus(%v) = %q, want %q", e, got, e.Source)
		}
	}
}
