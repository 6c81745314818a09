package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/entigraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the extraction and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached extraction responses and rendered artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == cache.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}

			store, err := c.openCache(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := cache.Clear(cmd.Context(), store, prefix)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", n)
			printDetail("Backend: %s", cfg.Cache.Backend)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "only remove keys with this prefix (redis only)")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch cfg.Cache.Backend {
			case cache.BackendFile:
				fmt.Fprintln(out, cfg.Cache.Dir)
			case cache.BackendRedis:
				fmt.Fprintf(out, "redis://%s/%d\n", cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
			case cache.BackendMongo:
				fmt.Fprintf(out, "%s (%s.%s)\n", cfg.Cache.MongoURI, cfg.Cache.MongoDatabase, cfg.Cache.MongoCollection)
			default:
				fmt.Fprintln(out, "none")
			}
			return nil
		},
	}
}
