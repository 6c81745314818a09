package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matzehuels/entigraph/internal/formats"
	"github.com/matzehuels/entigraph/pkg/buildinfo"
	"github.com/matzehuels/entigraph/pkg/cache"
	"github.com/matzehuels/entigraph/pkg/engine"
	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/render"
	"github.com/matzehuels/entigraph/pkg/validation"
)

// =============================================================================
// Request / Response Types
// =============================================================================

type extractRequest struct {
	Text string `json:"text" validate:"notblank"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

type legendResponse struct {
	Legend  []render.LegendEntry `json:"legend"`
	Caption string               `json:"caption"`
}

type sessionResponse struct {
	ID string `json:"id"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: info.Version, Commit: info.Commit})
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, legendResponse{Legend: render.Legend(), Caption: render.Caption})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(sessionFrom(r).ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Engine.Status())
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := sessionFrom(r).Engine.Submit(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev engine.Event
	if err := decodeBody(w, r, &ev); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := sessionFrom(r).Engine.Dispatch(r.Context(), ev)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Engine.View().Tree)
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Engine.View().Entities)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "json"
	}
	adapter, err := s.formats.Get(format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	frame := sessionFrom(r).Engine.Frame()
	data, err := s.renderFrame(r, adapter, frame)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", adapter.ContentType())
	if formats.Binary[format] {
		w.Header().Set("Content-Disposition", "inline; filename=frame."+format)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// renderFrame renders frame, serving Graphviz formats from the artifact
// cache when possible.
func (s *Server) renderFrame(r *http.Request, adapter render.Adapter, frame render.Frame) ([]byte, error) {
	ctx := r.Context()
	if !formats.Cacheable(adapter.Format()) {
		return adapter.Render(ctx, frame)
	}

	raw, err := json.Marshal(frame)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash frame")
	}
	key := s.keyer.ArtifactKey(cache.Hash(raw), cache.ArtifactKeyOpts{Format: adapter.Format()})
	if data, ok, err := s.artifacts.Get(ctx, key); err == nil && ok {
		return data, nil
	}

	data, err := adapter.Render(ctx, frame)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", adapter.Format())
	}
	if err := s.artifacts.Set(ctx, key, data, s.artifactTTL); err != nil {
		s.logger.Warn("artifact cache write failed", "error", err)
	}
	return data, nil
}

// decodeBody reads a JSON body into v and validates it.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return validation.Struct(v)
}
