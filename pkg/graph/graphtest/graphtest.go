// Package graphtest builds entity graphs for tests.
package graphtest

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/matzehuels/entigraph/pkg/graph"
)

// SampleRaw returns the four-node SpaceX graph used across package tests.
func SampleRaw() *graph.Raw {
	return &graph.Raw{
		Nodes: []string{"Elon Musk", "SpaceX", "Tesla", "California"},
		Edges: []json.RawMessage{
			json.RawMessage(`["Elon Musk","SpaceX"]`),
			json.RawMessage(`["Elon Musk","Tesla"]`),
			json.RawMessage(`["SpaceX","California"]`),
		},
		Positions: map[string]json.RawMessage{
			"Elon Musk":  json.RawMessage(`[0.1,0.4]`),
			"SpaceX":     json.RawMessage(`[0.8,0.2]`),
			"Tesla":      json.RawMessage(`[0.5,0.9]`),
			"California": json.RawMessage(`[0.9,0.1]`),
		},
		NodeTypes: map[string]string{
			"Elon Musk":  "PERSON",
			"SpaceX":     "ORG",
			"Tesla":      "ORG",
			"California": "GPE",
		},
	}
}

// SampleResponse wraps [SampleRaw] in an extraction response with its
// entity lists.
func SampleResponse() *graph.Response {
	return &graph.Response{
		Entities: map[string][]string{
			"PERSON": {"Elon Musk"},
			"ORG":    {"SpaceX", "Tesla"},
			"GPE":    {"California"},
		},
		Graph: SampleRaw(),
	}
}

// Sample loads [SampleRaw]. It panics on failure.
func Sample() *graph.Model {
	return MustLoad(SampleRaw())
}

// MustLoad loads raw and panics on failure.
func MustLoad(raw *graph.Raw) *graph.Model {
	m, err := graph.Load(raw)
	if err != nil {
		panic(err)
	}
	return m
}

// RandomRaw builds a reproducible graph from seed with 1 to 15 nodes, random
// types, sparse edges and occasional unpositioned or isolated nodes.
func RandomRaw(seed int64) *graph.Raw {
	r := rand.New(rand.NewSource(seed))
	n := 1 + r.Intn(15)

	raw := &graph.Raw{
		Positions: make(map[string]json.RawMessage, n),
		NodeTypes: make(map[string]string, n),
	}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("n%02d", i)
		raw.Nodes = append(raw.Nodes, id)
		if r.Intn(10) > 0 {
			raw.Positions[id] = json.RawMessage(fmt.Sprintf("[%.3f,%.3f]", r.Float64(), r.Float64()))
		}
		raw.NodeTypes[id] = string(graph.EntityTypes[r.Intn(len(graph.EntityTypes))])
	}

	edges := r.Intn(2 * n)
	for i := 0; i < edges; i++ {
		a, b := raw.Nodes[r.Intn(n)], raw.Nodes[r.Intn(n)]
		if r.Intn(2) == 0 {
			raw.Edges = append(raw.Edges, json.RawMessage(fmt.Sprintf(`[%q,%q]`, a, b)))
		} else {
			raw.Edges = append(raw.Edges, json.RawMessage(fmt.Sprintf(`{"source":%q,"target":%q}`, a, b)))
		}
	}
	return raw
}

// Random loads [RandomRaw].
func Random(seed int64) *graph.Model {
	return MustLoad(RandomRaw(seed))
}
