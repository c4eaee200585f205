package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Run builds the command tree and executes it with args. It adds the
// --verbose flag, which switches the logger to debug level before any
// subcommand runs.
func (c *CLI) Run(ctx context.Context, args []string) error {
	var verbose bool

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)

		if loadConfig != nil {
			return loadConfig(cmd, args)
		}
		return nil
	}

	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
