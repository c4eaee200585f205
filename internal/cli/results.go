package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sitefinder/pkg/errors"
	"github.com/matzehuels/sitefinder/pkg/sites"
	"github.com/matzehuels/sitefinder/pkg/store"
)

// defaultListLimit is the number of runs "results list" shows.
const defaultListLimit = 20

// resultsCommand creates the results command for browsing saved runs.
func (c *CLI) resultsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "List and show saved search runs",
	}

	cmd.AddCommand(c.resultsListCommand())
	cmd.AddCommand(c.resultsShowCommand())

	return cmd
}

func (c *CLI) resultsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--limit must be positive, got %d", limit)
			}
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No saved runs")
				printNextStep("Save one with", appName+" search MATRIX --save")
				return nil
			}
			fmt.Println(renderRecordTable(recs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultListLimit, "maximum number of runs")

	return cmd
}

func (c *CLI) resultsShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show the sites of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return sites.WriteDocument(os.Stdout, rec.Document)
			}

			fmt.Println(StyleTitle.Render(rec.ID))
			printKeyValue("Created", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			printKeyValue("Matrix", shortHash(rec.MatrixHash))
			printKeyValue("Target", fmt.Sprintf("%d cells × %d sites", rec.Options.TargetSize, rec.Options.Count))
			if rec.Document == nil || rec.Document.Empty() {
				printWarning("No sites found in this run")
				return nil
			}
			fmt.Println(renderSiteTable(rec.Document))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result document as JSON")

	return cmd
}

// openStore opens the configured result store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	st, err := c.cfg.OpenStore(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "result store is disabled (store.backend = %q)", c.cfg.Store.Backend)
	}
	return st, nil
}
