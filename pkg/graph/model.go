package graph

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/entigraph/pkg/errors"
)

// =============================================================================
// Ingest Report
// =============================================================================

// DroppedEdge records one edge that did not survive normalization.
type DroppedEdge struct {
	Index int             `json:"index"`
	Raw   json.RawMessage `json:"raw"`
	Err   string          `json:"error"`
}

// Report lists input that [Load] dropped or could not use. None of it is an
// error: the load still succeeds.
type Report struct {
	DroppedEdges     []DroppedEdge `json:"droppedEdges,omitempty"`
	DuplicateNodes   []string      `json:"duplicateNodes,omitempty"`
	DuplicateEdges   []Edge        `json:"duplicateEdges,omitempty"`
	Unpositioned     []string      `json:"unpositioned,omitempty"`
	DroppedAdjacency []string      `json:"droppedAdjacency,omitempty"`
}

// Clean reports whether nothing was dropped.
func (r Report) Clean() bool {
	return len(r.DroppedEdges) == 0 && len(r.DuplicateNodes) == 0 &&
		len(r.DuplicateEdges) == 0 && len(r.Unpositioned) == 0 &&
		len(r.DroppedAdjacency) == 0
}

// =============================================================================
// Model
// =============================================================================

// Model is the normalized, immutable entity graph.
type Model struct {
	nodes    []Node
	index    map[string]int
	edges    []Edge
	adj      [][]int
	supplied bool
	report   Report
}

// LoadResponse loads the graph section of an extraction response.
// A response without a graph fails with EMPTY_GRAPH.
func LoadResponse(resp *Response) (*Model, error) {
	if resp == nil {
		return nil, errors.New(errors.ErrCodeEmptyGraph, "no response")
	}
	return Load(resp.Graph)
}

// Load normalizes raw into a Model.
//
// Load fails only with EMPTY_GRAPH, when raw is nil or has no usable node
// identifiers. Malformed edges, edges to unknown nodes, duplicate node ids
// and missing positions are recorded in the [Report].
func Load(raw *Raw) (*Model, error) {
	if raw == nil || len(raw.Nodes) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGraph, "graph has no nodes")
	}

	m := &Model{index: make(map[string]int, len(raw.Nodes))}
	m.loadNodes(raw)
	if len(m.nodes) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGraph, "graph has no usable nodes")
	}
	m.loadEdges(raw.Edges)
	if raw.Adjacency != nil {
		m.loadSuppliedAdjacency(raw.Adjacency)
	} else {
		m.deriveAdjacency()
	}
	return m, nil
}

func (m *Model) loadNodes(raw *Raw) {
	for _, id := range raw.Nodes {
		if id == "" {
			continue
		}
		if _, dup := m.index[id]; dup {
			m.report.DuplicateNodes = append(m.report.DuplicateNodes, id)
			continue
		}
		n := Node{ID: id, Type: ResolveType(id, raw.NodeTypes)}
		if p, ok := raw.Positions[id]; ok {
			n.Position, n.Positioned = parsePosition(p)
		}
		if !n.Positioned {
			m.report.Unpositioned = append(m.report.Unpositioned, id)
		}
		m.index[id] = len(m.nodes)
		m.nodes = append(m.nodes, n)
	}
}

func (m *Model) loadEdges(raws []json.RawMessage) {
	seen := make(map[string]bool, len(raws))
	for i, raw := range raws {
		e, err := NormalizeEdge(raw)
		if err == nil {
			err = m.checkEndpoints(e)
		}
		if err != nil {
			m.report.DroppedEdges = append(m.report.DroppedEdges, DroppedEdge{
				Index: i, Raw: slices.Clone(raw), Err: err.Error(),
			})
			continue
		}
		if seen[e.key()] {
			m.report.DuplicateEdges = append(m.report.DuplicateEdges, e)
			continue
		}
		seen[e.key()] = true
		m.edges = append(m.edges, e)
	}
}

func (m *Model) checkEndpoints(e Edge) error {
	for _, id := range []string{e.Source, e.Target} {
		if _, ok := m.index[id]; !ok {
			return errors.New(errors.ErrCodeUnknownNode, "edge references unknown node %q", id)
		}
	}
	if e.Source == e.Target {
		return errors.New(errors.ErrCodeMalformedEdge, "self loop on %q", e.Source)
	}
	return nil
}

func (m *Model) deriveAdjacency() {
	m.adj = make([][]int, len(m.nodes))
	for _, e := range m.edges {
		a, b := m.index[e.Source], m.index[e.Target]
		m.adj[a] = append(m.adj[a], b)
		m.adj[b] = append(m.adj[b], a)
	}
}

func (m *Model) loadSuppliedAdjacency(supplied map[string][]string) {
	m.supplied = true
	m.adj = make([][]int, len(m.nodes))
	for id, neighbors := range supplied {
		if _, ok := m.index[id]; !ok {
			m.report.DroppedAdjacency = append(m.report.DroppedAdjacency, id)
		}
		for _, nb := range neighbors {
			if _, ok := m.index[nb]; !ok {
				m.report.DroppedAdjacency = append(m.report.DroppedAdjacency, nb)
			}
		}
	}
	slices.Sort(m.report.DroppedAdjacency)
	m.report.DroppedAdjacency = slices.Compact(m.report.DroppedAdjacency)

	// Walk keys in node order so results never depend on map iteration.
	for i, n := range m.nodes {
		for _, nb := range supplied[n.ID] {
			j, ok := m.index[nb]
			if !ok || j == i || slices.Contains(m.adj[i], j) {
				continue
			}
			m.adj[i] = append(m.adj[i], j)
		}
	}
}

// =============================================================================
// Accessors
// =============================================================================

// Len returns the number of nodes.
func (m *Model) Len() int { return len(m.nodes) }

// Nodes returns all nodes in input order.
func (m *Model) Nodes() []Node { return slices.Clone(m.nodes) }

// NodeAt returns the node at position i of [Model.Nodes].
func (m *Model) NodeAt(i int) Node { return m.nodes[i] }

// Node returns the node with the given id.
func (m *Model) Node(id string) (Node, bool) {
	i, ok := m.index[id]
	if !ok {
		return Node{}, false
	}
	return m.nodes[i], true
}

// Index returns the input position of node id, or -1.
func (m *Model) Index(id string) int {
	if i, ok := m.index[id]; ok {
		return i
	}
	return -1
}

// Has reports whether id is a node of the graph.
func (m *Model) Has(id string) bool {
	_, ok := m.index[id]
	return ok
}

// Edges returns all accepted edges in input order.
func (m *Model) Edges() []Edge { return slices.Clone(m.edges) }

// EdgeCount returns the number of accepted edges.
func (m *Model) EdgeCount() int { return len(m.edges) }

// Neighbors returns the neighbors of id in first-seen order.
func (m *Model) Neighbors(id string) []string {
	i, ok := m.index[id]
	if !ok {
		return nil
	}
	out := make([]string, len(m.adj[i]))
	for k, j := range m.adj[i] {
		out[k] = m.nodes[j].ID
	}
	return out
}

// NeighborIndexes returns the neighbor positions of node i.
func (m *Model) NeighborIndexes(i int) []int { return slices.Clone(m.adj[i]) }

// Degree returns the number of adjacency entries of id.
func (m *Model) Degree(id string) int {
	if i, ok := m.index[id]; ok {
		return len(m.adj[i])
	}
	return 0
}

// SuppliedAdjacency reports whether neighbor queries come from an adjacency
// map in the input rather than from edges.
func (m *Model) SuppliedAdjacency() bool { return m.supplied }

// Types returns the entity types present in the graph, in display order.
func (m *Model) Types() []EntityType {
	var out []EntityType
	for _, t := range EntityTypes {
		if slices.ContainsFunc(m.nodes, func(n Node) bool { return n.Type == t }) {
			out = append(out, t)
		}
	}
	return out
}

// NodesOfType returns the indexes of nodes of type t, in input order.
func (m *Model) NodesOfType(t EntityType) []int {
	var out []int
	for i, n := range m.nodes {
		if n.Type == t {
			out = append(out, i)
		}
	}
	return out
}

// Report returns what the load dropped.
func (m *Model) Report() Report {
	r := m.report
	r.DroppedEdges = slices.Clone(r.DroppedEdges)
	r.DuplicateNodes = slices.Clone(r.DuplicateNodes)
	r.DuplicateEdges = slices.Clone(r.DuplicateEdges)
	r.Unpositioned = slices.Clone(r.Unpositioned)
	r.DroppedAdjacency = slices.Clone(r.DroppedAdjacency)
	return r
}
