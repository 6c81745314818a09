// Package pkg provides the core libraries for entigraph, an interactive
// explorer for entity graphs extracted from text.
//
// # Overview
//
// An extraction service turns text into named entities and a positioned
// graph of their relations. The pkg directory turns that response into an
// interactive view:
//
//  1. [graph] - Wire format and the normalized, immutable graph model
//  2. [visibility] - Type and node checkboxes and the bulk visibility actions
//  3. [highlight] - The focal-node overlay
//  4. [render] - Projection of the state into a renderable frame, plus adapters
//  5. [engine] - The controller that applies events and owns one view
//  6. [extract] - Clients for the extraction service, with response caching
//
// Supporting packages:
//
//   - [cache]: file, Redis and MongoDB backends
//   - [session]: per-browser engines for the HTTP server
//   - [config]: TOML configuration with environment overrides
//   - [observability]: hooks with a Prometheus implementation
//   - [errors]: coded errors shared by every layer
//
// # Data Flow
//
//	text
//	  ↓
//	[extract] package (call the extraction service)
//	  ↓
//	[graph] package (normalize nodes, edges, positions)
//	  ↓
//	[engine] package (visibility + highlight state, events)
//	  ↓
//	[render] package (frame → JSON, Plotly, DOT, SVG)
//
// [graph]: github.com/matzehuels/entigraph/pkg/graph
// [visibility]: github.com/matzehuels/entigraph/pkg/visibility
// [highlight]: github.com/matzehuels/entigraph/pkg/highlight
// [render]: github.com/matzehuels/entigraph/pkg/render
// [engine]: github.com/matzehuels/entigraph/pkg/engine
// [extract]: github.com/matzehuels/entigraph/pkg/extract
// [cache]: github.com/matzehuels/entigraph/pkg/cache
// [session]: github.com/matzehuels/entigraph/pkg/session
// [config]: github.com/matzehuels/entigraph/pkg/config
// [observability]: github.com/matzehuels/entigraph/pkg/observability
// [errors]: github.com/matzehuels/entigraph/pkg/errors
package pkg
