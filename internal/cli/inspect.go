package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sitefinder/pkg/scores"
)

// histogramWidth is the length of the longest histogram bar.
const histogramWidth = 40

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:               "inspect [matrix]",
		Short:             "Print score statistics for a matrix",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeMatrixFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, noCache bool) error {
	raster, err := scores.ReadMatrixFile(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	s, cached, err := runner.Summarize(ctx, raster.Scores)
	if err != nil {
		return err
	}
	prog.done("summarized", "path", path, "cached", cached)

	fmt.Println(StyleTitle.Render(path))
	printKeyValue("Size", fmt.Sprintf("%d × %d (%d cells)", s.Rows, s.Cols, s.Cells))
	if raster.OffsetRow != 0 || raster.OffsetCol != 0 {
		printKeyValue("Offset", fmt.Sprintf("row %d, col %d", raster.OffsetRow, raster.OffsetCol))
	}
	if raster.Geo != nil {
		x, y := raster.Geo.Center(raster.OffsetRow, raster.OffsetCol)
		printKeyValue("Origin", fmt.Sprintf("%.2f, %.2f", x, y))
	}
	printKeyValue("Positive", fmt.Sprintf("%d", s.Positive))
	printKeyValue("Unusable", fmt.Sprintf("%d", s.Unusable))
	printKeyValue("Range", fmt.Sprintf("%d – %d", s.Min, s.Max))
	printKeyValue("Mean", fmt.Sprintf("%.2f ± %.2f", s.Mean, s.StdDev))
	printKeyValue("Percentiles", fmt.Sprintf("p50 %.1f · p90 %.1f · p99 %.1f", s.P50, s.P90, s.P99))

	if s.Positive == 0 {
		printWarning("No positive cells, a search will find nothing")
		return nil
	}
	if h := renderHistogram(s, histogramWidth); h != "" {
		fmt.Println()
		fmt.Print(h)
	}
	if cached {
		printDetail(iconCached)
	}
	return nil
}
