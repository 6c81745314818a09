package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/extract"
	"github.com/matzehuels/entigraph/pkg/graph"
	"github.com/matzehuels/entigraph/pkg/highlight"
	"github.com/matzehuels/entigraph/pkg/observability"
	"github.com/matzehuels/entigraph/pkg/render"
	"github.com/matzehuels/entigraph/pkg/visibility"
)

// Controller is the input side of an engine as seen by a surface.
type Controller interface {
	Dispatch(ctx context.Context, ev Event) (View, error)
	View() View
}

// View is a consistent snapshot of what a surface displays.
type View struct {
	Empty    bool                   `json:"empty"`
	Frame    render.Frame           `json:"frame"`
	Tree     []visibility.TypeGroup `json:"tree"`
	Entities []graph.EntityGroup    `json:"entities"`
}

// Status describes the submission affordances.
type Status struct {
	Pending   bool   `json:"pending"`
	LastError string `json:"lastError,omitempty"`
	HasGraph  bool   `json:"hasGraph"`
}

// Options configures an [Engine].
type Options struct {
	// Extractor serves Submit. Without one, Submit fails.
	Extractor extract.Extractor
	Logger    *log.Logger
}

// Engine owns the graph model, visibility and highlight of one surface.
// All methods are safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	model    *graph.Model
	vis      *visibility.State
	hl       highlight.State
	frame    render.Frame
	entities []graph.EntityGroup
	lastErr  error

	pending   atomic.Bool
	extractor extract.Extractor
	logger    *log.Logger
}

var _ Controller = (*Engine)(nil)

// New returns an engine in the empty state.
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Engine{
		frame:     render.EmptyFrame(),
		extractor: opts.Extractor,
		logger:    opts.Logger,
	}
}

// =============================================================================
// Loading
// =============================================================================

// LoadResponse replaces the current graph with resp. A response without
// nodes switches to the empty state and is not an error.
func (e *Engine) LoadResponse(ctx context.Context, resp *graph.Response) error {
	m, err := e.ingest(ctx, resp)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.install(ctx, m, resp.EntityGroups())
	return nil
}

// ingest builds the model outside the lock. A nil model means empty.
func (e *Engine) ingest(ctx context.Context, resp *graph.Response) (*graph.Model, error) {
	start := time.Now()
	m, err := graph.LoadResponse(resp)
	if errors.Is(err, errors.ErrCodeEmptyGraph) {
		observability.Engine().OnIngest(ctx, 0, 0, 0, time.Since(start), err)
		e.logger.Info("empty graph", "reason", errors.UserMessage(err))
		return nil, nil
	}
	if err != nil {
		observability.Engine().OnIngest(ctx, 0, 0, 0, time.Since(start), err)
		return nil, err
	}

	report := m.Report()
	observability.Engine().OnIngest(ctx, m.Len(), m.EdgeCount(), len(report.DroppedEdges), time.Since(start), nil)
	e.logReport(report)
	e.logger.Info("loaded graph", "nodes", m.Len(), "edges", m.EdgeCount(), "types", len(m.Types()))
	return m, nil
}

func (e *Engine) logReport(r graph.Report) {
	if r.Clean() {
		return
	}
	for _, d := range r.DroppedEdges {
		e.logger.Debug("dropped edge", "index", d.Index, "raw", string(d.Raw), "error", d.Err)
	}
	e.logger.Info("ingest report",
		"dropped_edges", len(r.DroppedEdges),
		"duplicate_nodes", len(r.DuplicateNodes),
		"duplicate_edges", len(r.DuplicateEdges),
		"unpositioned", len(r.Unpositioned),
		"dropped_adjacency", len(r.DroppedAdjacency),
	)
}

// install swaps in a new model with fresh visibility and no highlight.
// Callers hold e.mu.
func (e *Engine) install(ctx context.Context, m *graph.Model, entities []graph.EntityGroup) {
	e.model = m
	e.vis = nil
	if m != nil {
		e.vis = visibility.New(m)
	}
	e.hl = highlight.Clear()
	e.entities = entities
	e.reproject(ctx)
}

// reproject recomputes the cached frame. Callers hold e.mu.
func (e *Engine) reproject(ctx context.Context) {
	start := time.Now()
	e.frame = render.Project(e.model, e.vis, e.hl)
	observability.Engine().OnProject(ctx, len(e.frame.Points), len(e.frame.EdgeLines), time.Since(start))
}

// =============================================================================
// Submission
// =============================================================================

// CanSubmit reports whether a submission of text would be accepted now.
func (e *Engine) CanSubmit(text string) bool {
	return !e.pending.Load() && extract.ValidateText(text) == nil
}

// Submit extracts text and loads the result.
//
// It fails with INVALID_INPUT for blank text and REQUEST_PENDING while
// another submission runs. Extraction failures leave the current state in
// place and are remembered for [Engine.Status].
func (e *Engine) Submit(ctx context.Context, text string) (View, error) {
	if err := extract.ValidateText(text); err != nil {
		return View{}, err
	}
	if e.extractor == nil {
		return View{}, errors.New(errors.ErrCodeInternal, "no extractor configured")
	}
	if !e.pending.CompareAndSwap(false, true) {
		return View{}, errors.New(errors.ErrCodeRequestPending, "a request is already pending")
	}
	defer e.pending.Store(false)

	start := time.Now()
	resp, err := e.extractor.Extract(ctx, text)
	observability.Engine().OnExtract(ctx, time.Since(start), err)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeExtraction) {
			err = errors.Wrap(errors.ErrCodeExtraction, err, "extract")
		}
		e.logger.Warn("extraction failed", "error", err)
		e.mu.Lock()
		e.lastErr = err
		e.mu.Unlock()
		return View{}, err
	}

	m, err := e.ingest(ctx, resp)
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.install(ctx, m, resp.EntityGroups())
	e.lastErr = nil
	return e.view(), nil
}

// Status returns the submission state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Status{Pending: e.pending.Load(), HasGraph: e.model != nil}
	if e.lastErr != nil {
		s.LastError = errors.UserMessage(e.lastErr)
	}
	return s
}

// =============================================================================
// Events
// =============================================================================

// Dispatch applies ev and returns the re-projected view.
//
// It fails with NO_GRAPH when nothing is loaded, INVALID_EVENT for an
// unknown kind, type or click target, and UNKNOWN_NODE for an unknown node
// id. A failed event changes nothing.
func (e *Engine) Dispatch(ctx context.Context, ev Event) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.apply(ev)
	observability.Engine().OnTransition(ctx, string(ev.Kind), err)
	if err != nil {
		e.logger.Debug("event rejected", "kind", ev.Kind, "error", err)
		return View{}, err
	}
	e.reproject(ctx)
	return e.view(), nil
}

func (e *Engine) apply(ev Event) error {
	if e.model == nil {
		return errors.New(errors.ErrCodeNoGraph, "no graph loaded")
	}

	switch ev.Kind {
	case KindTypeToggle:
		t, ok := graph.ParseEntityType(ev.Type)
		if !ok {
			return errors.New(errors.ErrCodeInvalidEvent, "unknown entity type %q", ev.Type)
		}
		if err := e.vis.SetType(t, ev.Checked); err != nil {
			return err
		}
	case KindNodeToggle:
		if err := e.vis.SetNode(ev.Node, ev.Checked); err != nil {
			return err
		}
	case KindShowAll, KindResetView:
		e.vis.ShowAll()
	case KindHideAll:
		e.vis.HideAll()
	case KindConnectedOnly:
		e.vis.ShowOnlyConnected()
	case KindClick:
		node, err := clickTarget(e.model, e.frame, ev)
		if err != nil {
			return err
		}
		e.hl = e.hl.Toggle(node)
	case KindDoubleClick:
		e.hl = highlight.Clear()
	default:
		return errors.New(errors.ErrCodeInvalidEvent, "unknown event kind %q", ev.Kind)
	}

	if ev.Kind.changesVisibility() {
		e.hl = highlight.Clear()
	}
	return nil
}

// =============================================================================
// Queries
// =============================================================================

// View returns the current snapshot.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view()
}

func (e *Engine) view() View {
	v := View{
		Empty:    e.model == nil,
		Frame:    e.frame,
		Tree:     []visibility.TypeGroup{},
		Entities: e.entities,
	}
	if e.vis != nil {
		v.Tree = e.vis.Tree()
	}
	if v.Entities == nil {
		v.Entities = []graph.EntityGroup{}
	}
	return v
}

// Frame returns the current frame. Frames are never modified after they
// are built, so the result stays valid after later events.
func (e *Engine) Frame() render.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

// Model returns the loaded model, or nil in the empty state.
func (e *Engine) Model() *graph.Model {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model
}

// Highlight returns the current highlight overlay.
func (e *Engine) Highlight() highlight.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hl
}

// VisibleNodes returns the checked node ids in model order.
func (e *Engine) VisibleNodes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.vis == nil {
		return nil
	}
	return e.vis.VisibleNodes()
}
