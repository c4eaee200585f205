package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sitefinder/pkg/pipeline"
	"github.com/matzehuels/sitefinder/pkg/scores"
	"github.com/matzehuels/sitefinder/pkg/sites"
)

// searchOpts holds the command-line flags for the search command.
type searchOpts struct {
	targetSize  int    // cells per site
	count       int    // sites to return
	seedPool    int    // seeds kept after extraction
	workers     int    // concurrent region growers
	offsetRow   int    // window row offset, overrides the file's
	offsetCol   int    // window column offset, overrides the file's
	output      string // result document path
	noCache     bool   // skip the result cache
	save        bool   // record the run in the result store
	interactive bool   // browse the sites after the search
	setOffset   bool   // offset flags were given
}

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var opts searchOpts

	cmd := &cobra.Command{
		Use:   "search [matrix]",
		Short: "Find the best building sites in a score matrix",
		Long: `Search a score matrix for compact, high-scoring, non-overlapping sites.

The matrix is read from a .json, .csv or .asc file. Cells with a score of
-1 (or the NODATA value of an .asc file) are not buildable. The ranked sites
are printed and written to a JSON document next to the input.`,
		Example: `  # Four sites of 20 cells each (defaults)
  sitefinder search scores.asc

  # Two large sites, written to a chosen file
  sitefinder search scores.json -s 50 -n 2 -o best.json

  # Record the run and browse the result
  sitefinder search scores.csv --save --interactive`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeMatrixFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := c.cfg.Search
			flags := cmd.Flags()
			if !flags.Changed("size") {
				opts.targetSize = defaults.TargetSize
			}
			if !flags.Changed("count") {
				opts.count = defaults.Count
			}
			if !flags.Changed("seed-pool") {
				opts.seedPool = defaults.SeedPool
			}
			if !flags.Changed("workers") {
				opts.workers = defaults.Workers
			}
			opts.setOffset = flags.Changed("offset-row") || flags.Changed("offset-col")
			return c.runSearch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.targetSize, "size", "s", pipeline.DefaultTargetSize, "cells per site")
	cmd.Flags().IntVarP(&opts.count, "count", "n", pipeline.DefaultCount, "number of sites")
	cmd.Flags().IntVar(&opts.seedPool, "seed-pool", pipeline.DefaultSeedPool, "seed cells kept before deconfliction")
	cmd.Flags().IntVar(&opts.workers, "workers", pipeline.DefaultWorkers, "regions grown concurrently")
	cmd.Flags().IntVar(&opts.offsetRow, "offset-row", 0, "row of the matrix inside the study area")
	cmd.Flags().IntVar(&opts.offsetCol, "offset-col", 0, "column of the matrix inside the study area")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <matrix>.sites.json)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.save, "save", false, "record the run in the result store")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the sites interactively")

	return cmd
}

// runSearch reads the matrix at path, runs the pipeline and writes the
// result document.
func (c *CLI) runSearch(ctx context.Context, path string, opts searchOpts) error {
	logger := loggerFromContext(ctx)

	raster, err := scores.ReadMatrixFile(path)
	if err != nil {
		return err
	}
	rows, cols := raster.Dims()
	logger.Debug("matrix loaded", "path", path, "rows", rows, "cols", cols)

	runner, err := c.newRunner(ctx, opts.noCache, opts.save)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		TargetSize: opts.targetSize,
		Count:      opts.count,
		SeedPool:   opts.seedPool,
		Workers:    opts.workers,
		OffsetRow:  raster.OffsetRow,
		OffsetCol:  raster.OffsetCol,
		Geo:        raster.Geo,
		Logger:     logger,
	}
	if opts.setOffset {
		popts.OffsetRow, popts.OffsetCol = opts.offsetRow, opts.offsetCol
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Searching %d×%d cells...", rows, cols))
	if logger.GetLevel() <= log.DebugLevel {
		spinner.SetOutput(io.Discard)
	}
	spinner.Start()
	res, err := runner.Execute(ctx, raster.Scores, popts)
	if err != nil {
		spinner.StopWithError("Search failed")
		if spinner.Cancelled() || errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		return err
	}
	spinner.Stop()

	doc := res.Document
	out := opts.output
	if out == "" {
		out = defaultOutputPath(path)
	}
	if err := sites.WriteDocumentFile(out, doc); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	if doc.Empty() {
		printWarning("No site of %d cells found", opts.targetSize)
		printFile(out)
		return nil
	}

	cells := 0
	for _, s := range doc.Sites {
		cells += s.Size()
	}
	printSuccess("Found %d of %d sites", len(doc.Sites), opts.count)
	printStats(len(doc.Sites), cells, res.CacheHit)
	fmt.Println(renderSiteTable(doc))
	printFile(out)

	if res.Stats.OverlappingCells > 0 {
		printWarning("%d cells are shared between sites", res.Stats.OverlappingCells)
	}
	if opts.save {
		printNextStep("Show this run", appName+" results show "+res.RunID)
	}

	if opts.interactive {
		_, err := tea.NewProgram(NewSiteListModel(doc), tea.WithContext(ctx)).Run()
		return err
	}
	return nil
}

// defaultOutputPath replaces the extension of path with ".sites.json".
func defaultOutputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".sites.json"
}
