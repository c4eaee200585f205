package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sitefinder/pkg/cache"
	"github.com/matzehuels/sitefinder/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached search result and summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.Backend == config.CacheNone {
				printInfo("Cache is disabled")
				return nil
			}

			ch, err := c.cfg.OpenCache(cmd.Context())
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("%s cache cannot be cleared", c.cfg.Cache.Backend)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return err
			}

			printSuccess("Cleared %s cache", c.cfg.Cache.Backend)
			printDetail("%s", cacheLocation(c.cfg, ch))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := cacheLocationFor(c.cfg)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(loc)
			return nil
		},
	}
}

// cacheLocation describes an open cache: its directory or its Redis address.
func cacheLocation(cfg *config.Config, ch cache.Cache) string {
	if fc, ok := ch.(*cache.FileCache); ok {
		return fc.Dir()
	}
	loc, _ := cacheLocationFor(cfg)
	return loc
}

// cacheLocationFor describes the configured cache without opening it.
func cacheLocationFor(cfg *config.Config) (string, error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		return fmt.Sprintf("redis://%s/%d (prefix %q)", cfg.Cache.RedisAddr, cfg.Cache.RedisDB, cfg.Cache.Prefix), nil
	case config.CacheNone:
		return "disabled", nil
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
