package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/entigraph/internal/formats"
	"github.com/matzehuels/entigraph/internal/server"
	"github.com/matzehuels/entigraph/pkg/cache"
	"github.com/matzehuels/entigraph/pkg/engine"
	"github.com/matzehuels/entigraph/pkg/observability"
	"github.com/matzehuels/entigraph/pkg/observability/prom"
	"github.com/matzehuels/entigraph/pkg/render/nodelink"
	"github.com/matzehuels/entigraph/pkg/session"
)

// cleanupInterval is how often expired sessions are swept.
const cleanupInterval = time.Minute

type serveOpts struct {
	addr    string
	noCache bool
	metrics bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{metrics: true}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server. Each browser session gets its own engine, created
on POST /api/sessions and dropped after the configured session TTL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the response and artifact cache")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", opts.metrics, "expose Prometheus metrics on /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	ctx = withLogger(ctx, c.Logger)

	var metrics *prom.Registry
	if opts.metrics {
		metrics = prom.NewRegistry()
		observability.SetEngineHooks(metrics)
		observability.SetCacheHooks(metrics)
		observability.SetHTTPHooks(metrics)
		defer observability.Reset()
	}

	store, err := c.openCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	extractor := c.newExtractor(cfg, store)
	sessions := session.NewRegistry(session.Options{
		TTL: cfg.Server.SessionTTL.Duration,
		NewEngine: func() *engine.Engine {
			return engine.New(engine.Options{Extractor: extractor, Logger: c.Logger})
		},
		Logger: c.Logger,
		OnCount: func(n int) {
			if metrics != nil {
				metrics.SetSessions(n)
			}
		},
	})

	srv := server.New(server.Options{
		Sessions:    sessions,
		Formats:     formats.Registry(nodelink.Options{}),
		Artifacts:   cache.WithHooks(store, "artifact"),
		ArtifactTTL: cfg.Cache.TTL.Duration,
		Metrics:     metrics,
		Logger:      c.Logger,
	})

	c.Logger.Info("serving", "addr", cfg.Server.Addr, "extraction", cfg.Extraction.URL, "cache", cfg.Cache.Backend)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.Server.Addr, cfg.Server.ReadTimeout.Duration, cfg.Server.WriteTimeout.Duration)
	})
	g.Go(func() error {
		return sessions.Run(gctx, cleanupInterval)
	})

	err = g.Wait()
	if ctx.Err() != nil {
		loggerFromContext(ctx).Info("server stopped")
		return nil
	}
	return err
}
