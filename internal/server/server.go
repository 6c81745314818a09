package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/entigraph/internal/formats"
	"github.com/matzehuels/entigraph/pkg/cache"
	"github.com/matzehuels/entigraph/pkg/observability/prom"
	"github.com/matzehuels/entigraph/pkg/render"
	"github.com/matzehuels/entigraph/pkg/render/nodelink"
	"github.com/matzehuels/entigraph/pkg/session"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Options configures a [Server].
type Options struct {
	Sessions *session.Registry

	// Formats defaults to every format in package formats.
	Formats *render.Registry

	// Artifacts caches Graphviz renders. Nil disables caching.
	Artifacts   cache.Cache
	Keyer       cache.Keyer
	ArtifactTTL time.Duration

	// Metrics enables /metrics and request metrics when set.
	Metrics *prom.Registry
	Logger  *log.Logger
}

// Server routes HTTP requests to session engines.
type Server struct {
	sessions    *session.Registry
	formats     *render.Registry
	artifacts   cache.Cache
	keyer       cache.Keyer
	artifactTTL time.Duration
	metrics     *prom.Registry
	logger      *log.Logger
	router      chi.Router
}

// New builds the server and its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewRegistry(session.Options{Logger: opts.Logger})
	}
	if opts.Formats == nil {
		opts.Formats = formats.Registry(nodelink.Options{})
	}
	if opts.Artifacts == nil {
		opts.Artifacts = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}

	s := &Server{
		sessions:    opts.Sessions,
		formats:     opts.Formats,
		artifacts:   opts.Artifacts,
		keyer:       opts.Keyer,
		artifactTTL: opts.ArtifactTTL,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metricsMiddleware)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/legend", s.handleLegend)
		r.Post("/sessions", s.handleCreateSession)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/status", s.handleStatus)
			r.Post("/extract", s.handleExtract)
			r.Get("/frame", s.handleFrame)
			r.Get("/tree", s.handleTree)
			r.Get("/entities", s.handleEntities)
			r.Post("/events", s.handleEvent)
			r.Delete("/", s.handleDeleteSession)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
