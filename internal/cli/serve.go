package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sitefinder/internal/server"
	"github.com/matzehuels/sitefinder/pkg/observability/prometheus"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP search API",
		Long: `Serve the site search over HTTP.

Searches use the configured cache, and every run is recorded in the
configured result store (in memory when the store backend is "none").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, metrics bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, false, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	cfg := server.Config{
		Addr:     c.cfg.Server.Addr,
		Runner:   runner,
		Defaults: c.searchDefaults(),
		Logger:   logger,
	}
	if metrics {
		m := prometheus.New()
		m.Register()
		cfg.Metrics = m.Handler()
	}

	err = server.New(cfg).ListenAndServe(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
