// Package graph ingests extraction responses into the canonical entity graph.
//
// The extraction service returns a loosely shaped JSON document. This package
// is the only place that looks at that shape: [Load] normalizes it once into
// an immutable [Model] and every downstream component (visibility, highlight,
// projection, rendering adapters) consumes the normalized form.
//
// # Wire Format
//
// A [Response] carries the raw entities list and the graph:
//
//	{
//	  "entities": {"PERSON": ["Elon Musk"], "ORG": ["SpaceX", "Tesla"]},
//	  "graph": {
//	    "nodes": ["Elon Musk", "SpaceX", "Tesla"],
//	    "edges": [["Elon Musk", "SpaceX"], {"source": "Elon Musk", "target": "Tesla"}],
//	    "positions": {"Elon Musk": [0.1, 0.4], "SpaceX": [0.8, 0.2], "Tesla": [0.5, 0.9]},
//	    "nodeTypes": {"Elon Musk": "PERSON"},
//	    "adjacency": {"Elon Musk": ["SpaceX", "Tesla"]}
//	  }
//	}
//
// # Edge Normalization
//
// Edges may arrive as a two-element array, a {source, target} object or an
// object keyed "0"/"1". [NormalizeEdge] turns each into an [Edge]; anything
// else is a MALFORMED_EDGE and is dropped without aborting the load. Edges
// naming unknown nodes are dropped the same way. Dropped input is recorded in
// the model's [Report] so callers can log it.
//
// # Entity Types
//
// [ResolveType] resolves a node's type from the supplied nodeTypes map, then
// a fixed keyword table, then UNKNOWN. The order is fixed so colors are
// reproducible across loads.
//
// # Adjacency
//
// Adjacency is derived from edges (symmetric, first-seen order) unless the
// response supplies its own, in which case the supplied map answers neighbor
// queries after unknown ids are filtered out. Edges always drive line
// geometry.
//
// # Concurrency
//
// A [Model] is immutable after [Load] and safe for concurrent reads. All
// accessors return copies.
package graph
