// Package cli implements the entigraph command-line interface.
//
// # Commands
//
//   - serve: run the HTTP server with one engine per browser session
//   - extract: send text to the extraction service and print the entities
//   - project: replay events against a saved response and write a frame
//   - explore: interactive terminal view of a response
//   - config: write or print the configuration
//   - cache: manage the extraction and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging through
// charmbracelet/log.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/entigraph/pkg/buildinfo"
	"github.com/matzehuels/entigraph/pkg/cache"
	"github.com/matzehuels/entigraph/pkg/config"
	"github.com/matzehuels/entigraph/pkg/extract"
)

// appName is the application name used for directories and display.
const appName = "entigraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Entigraph explores entity graphs extracted from text",
		Long:         `Entigraph sends text to an entity extraction service and lets you explore the resulting graph: show and hide entities by type or one by one, highlight a node's neighborhood, and export the view as JSON, Plotly traces, Graphviz DOT or SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Setup
// =============================================================================

// loadConfig reads the configuration and applies its log level unless
// --verbose already lowered it.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil && c.Logger.GetLevel() > lvl {
		c.SetLogLevel(lvl)
	}
	return cfg, nil
}

// openCache opens the configured backend, or a NullCache when noCache is set.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cacheOptions(cfg))
}

func cacheOptions(cfg *config.Config) cache.Options {
	return cache.Options{
		Backend:         cfg.Cache.Backend,
		Dir:             cfg.Cache.Dir,
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisDB:         cfg.Cache.RedisDB,
		MongoURI:        cfg.Cache.MongoURI,
		MongoDatabase:   cfg.Cache.MongoDatabase,
		MongoCollection: cfg.Cache.MongoCollection,
	}
}

// newExtractor builds the HTTP client wrapped in the response cache.
func (c *CLI) newExtractor(cfg *config.Config, store cache.Cache) extract.Extractor {
	client := extract.NewClient(cfg.Extraction.URL, cfg.Extraction.Timeout.Duration, c.Logger)
	return extract.NewCachedExtractor(client, cache.WithHooks(store, "extract"), extract.CacheOptions{
		Endpoint: client.Endpoint(),
		TTL:      cfg.Cache.TTL.Duration,
		Logger:   c.Logger,
	})
}
