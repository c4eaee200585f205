// Package cli implements the sitefinder command-line interface.
//
// This package provides commands for searching score matrices for building
// sites, inspecting matrices, serving the search over HTTP, and managing the
// result cache and run history. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - search: Find the best sites in a score matrix file
//   - inspect: Print score statistics for a matrix file
//   - serve: Run the HTTP API
//   - results: List and show saved runs
//   - cache: Manage the result cache
//
// # Configuration
//
// Defaults come from a TOML file (--config, or the per-user config
// directory). Flags override file values.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sitefinder/pkg/buildinfo"
	"github.com/matzehuels/sitefinder/pkg/cache"
	"github.com/matzehuels/sitefinder/pkg/config"
	"github.com/matzehuels/sitefinder/pkg/pipeline"
	"github.com/matzehuels/sitefinder/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sitefinder"

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
	Logger *log.Logger

	// configPath is the --config flag.
	configPath string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sitefinder picks the best building sites from a suitability score map",
		Long:         `Sitefinder searches a grid of suitability scores for compact, high-scoring, non-overlapping building sites and ranks them by total score.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/sitefinder/config.toml)")

	// Register all subcommands
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.resultsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The cache comes from the
// config unless noCache is set; a store is opened only when save is set.
func (c *CLI) newRunner(ctx context.Context, noCache, save bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}

	var st store.Store
	if save {
		st, err = c.cfg.OpenStore(ctx)
		if err != nil {
			_ = ch.Close()
			return nil, err
		}
	}

	return pipeline.NewRunner(ch, c.cfg.Keyer(), st, c.Logger), nil
}

// newCache opens the configured cache. A cache that cannot be opened
// degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := c.cfg.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", c.cfg.Cache.Backend, "error", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

// searchDefaults returns the pipeline options from the [search] config.
func (c *CLI) searchDefaults() pipeline.Options {
	return pipeline.Options{
		TargetSize: c.cfg.Search.TargetSize,
		Count:      c.cfg.Search.Count,
		SeedPool:   c.cfg.Search.SeedPool,
		Workers:    c.cfg.Search.Workers,
		Logger:     c.Logger,
	}
}
