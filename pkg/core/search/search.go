package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sitefinder/pkg/core/grid"
	"github.com/matzehuels/sitefinder/pkg/errors"
)

// DefaultSeedPool is the number of top-scoring cells considered as seeds.
const DefaultSeedPool = 100

// Stats reports how many candidates survived each stage of a search.
type Stats struct {
	Cells            int `json:"cells"`
	PositiveCells    int `json:"positive_cells"`
	SeedsExtracted   int `json:"seeds_extracted"`
	SeedsRetained    int `json:"seeds_retained"`
	MinSeparation    int `json:"min_separation"`
	RegionsGrown     int `json:"regions_grown"`
	RegionsDropped   int `json:"regions_dropped"`
	RegionsReturned  int `json:"regions_returned"`
	OverlappingCells int `json:"overlapping_cells"`
}

// Result is the output of Run.
type Result struct {
	Regions []Region
	Stats   Stats
}

// Option configures Run.
type Option func(*config)

type config struct {
	seedPool   int
	separation func(targetSize int) int
	workers    int
}

// WithSeedPool sets how many top-scoring cells are extracted as seeds.
func WithSeedPool(k int) Option { return func(c *config) { c.seedPool = k } }

// WithSeparation replaces the MinSeparation rule.
func WithSeparation(fn func(targetSize int) int) Option {
	return func(c *config) { c.separation = fn }
}

// WithWorkers grows regions on up to n goroutines. Values <= 1 grow
// sequentially. Output does not depend on n.
func WithWorkers(n int) Option { return func(c *config) { c.workers = n } }

// Run finds up to count non-colliding seeds, grows each into a region of
// exactly targetSize cells, and returns the regions ranked by total score.
//
// Fewer than count regions (including none) is a normal outcome. Run returns
// an error only for invalid input or when ctx is cancelled between seeds.
func Run(ctx context.Context, m grid.Matrix, targetSize, count int, opts ...Option) (*Result, error) {
	cfg := config{seedPool: DefaultSeedPool, separation: MinSeparation, workers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := grid.Validate(m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "invalid score matrix")
	}
	if err := errors.ValidateSearchParams(targetSize, count, cfg.seedPool); err != nil {
		return nil, err
	}
	if cfg.workers < 0 {
		return nil, errors.New(errors.ErrCodeInvalidCount, "workers must not be negative, got %d", cfg.workers)
	}
	if cfg.separation == nil {
		cfg.separation = MinSeparation
	}
	sep := cfg.separation(targetSize)
	if sep < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "separation must not be negative, got %d", sep)
	}

	rows, cols := m.Dims()
	stats := Stats{Cells: rows * cols, MinSeparation: sep}

	seeds, positives := extract(m, cfg.seedPool)
	stats.PositiveCells = positives
	stats.SeedsExtracted = len(seeds)

	kept := Deconflict(seeds, count, sep)
	stats.SeedsRetained = len(kept)

	grown, err := growAll(ctx, m, kept, targetSize, cfg.workers)
	if err != nil {
		return nil, fmt.Errorf("grow: %w", err)
	}
	stats.RegionsGrown = len(grown)
	stats.RegionsDropped = len(kept) - len(grown)

	ranked := Rank(grown, count)
	stats.RegionsReturned = len(ranked)
	stats.OverlappingCells = OverlappingCells(ranked)

	return &Result{Regions: ranked, Stats: stats}, nil
}

// growAll grows every seed and returns the full-size regions in seed order.
func growAll(ctx context.Context, m grid.Matrix, seeds []grid.Cell, targetSize, workers int) ([]Region, error) {
	slots := make([]Region, len(seeds))
	full := make([]bool, len(seeds))

	if workers <= 1 {
		for i, s := range seeds {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			slots[i], full[i] = Grow(m, s, targetSize)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, s := range seeds {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				slots[i], full[i] = Grow(m, s, targetSize)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	regions := make([]Region, 0, len(seeds))
	for i, ok := range full {
		if ok {
			regions = append(regions, slots[i])
		}
	}
	return regions, nil
}

// OverlappingCells counts cells that belong to more than one region.
func OverlappingCells(regions []Region) int {
	seen := make(map[[2]int]int)
	for _, r := range regions {
		for _, c := range r.Cells {
			seen[[2]int{c.Row, c.Col}]++
		}
	}
	shared := 0
	for _, n := range seen {
		if n > 1 {
			shared++
		}
	}
	return shared
}
