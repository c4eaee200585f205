// Package pipeline runs site searches with caching and result persistence.
//
// This package wraps the core search so the CLI and the HTTP service share
// one code path: defaults, cache lookups, document building, and history.
//
// # Architecture
//
// One call to [Runner.Execute] does:
//
//  1. Validate: apply defaults and reject impossible parameters
//  2. Lookup: hash the matrix and try the cache (unless Refresh is set)
//  3. Search: extract, deconflict, grow and rank (see pkg/core/search)
//  4. Document: number, colour and georeference the sites (see pkg/sites)
//  5. Persist: cache the document and, when a store is configured, save a
//     record under a fresh run ID
//
// An empty search result is a normal outcome and flows through every step.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	result, err := runner.Execute(ctx, matrix, pipeline.Options{
//	    TargetSize: 20,
//	    Count:      4,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range result.Document.Sites {
//	    fmt.Println(s.ID, s.TotalScore)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sitefinder/pkg/cache"
	"github.com/matzehuels/sitefinder/pkg/core/search"
	"github.com/matzehuels/sitefinder/pkg/errors"
	"github.com/matzehuels/sitefinder/pkg/sites"
	"github.com/matzehuels/sitefinder/pkg/store"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTargetSize is the number of cells in each site.
	DefaultTargetSize = 20

	// DefaultCount is the number of sites to return.
	DefaultCount = 4

	// DefaultSeedPool is the number of top cells considered as seeds.
	DefaultSeedPool = search.DefaultSeedPool

	// DefaultWorkers grows regions sequentially.
	DefaultWorkers = 1
)

// =============================================================================
// Options - Search Configuration
// =============================================================================

// Options contains all configuration for a search run.
// This struct supports JSON serialization for API requests.
type Options struct {
	TargetSize int `json:"target_size,omitempty"`
	Count      int `json:"count,omitempty"`
	SeedPool   int `json:"seed_pool,omitempty"`
	Workers    int `json:"workers,omitempty"`

	// OffsetRow and OffsetCol place the matrix inside a larger map. They
	// add to any offset the matrix carries itself (see scores.Crop).
	OffsetRow int `json:"offset_row,omitempty"`
	OffsetCol int `json:"offset_col,omitempty"`

	// Geo converts global indices to world coordinates in the document.
	Geo *sites.GeoTransform `json:"geo,omitempty"`

	// Refresh skips the cache lookup but still writes the fresh result.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the ranked site list. Never nil; may have no sites.
	Document *sites.Document

	// MatrixHash is the content hash of the searched matrix.
	MatrixHash string

	// RunID identifies this run in the result store.
	RunID string

	// Stats are the search counters. On a cache hit they are the counters
	// of the run that filled the cache.
	Stats search.Stats

	// CacheHit is true when the document came from the cache.
	CacheHit bool

	// Duration is the wall time of Execute.
	Duration time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults fills zero fields with defaults and rejects the rest.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.TargetSize == 0 {
		o.TargetSize = DefaultTargetSize
	}
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if o.SeedPool == 0 {
		o.SeedPool = DefaultSeedPool
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if err := errors.ValidateSearchParams(o.TargetSize, o.Count, o.SeedPool); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidCount, "workers must be positive, got %d", o.Workers)
	}
	if o.OffsetRow < 0 || o.OffsetCol < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "offsets must not be negative, got (%d, %d)", o.OffsetRow, o.OffsetCol)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SearchKeyOpts returns cache key options for the search result.
func (o *Options) SearchKeyOpts(offsetRow, offsetCol int) cache.SearchKeyOpts {
	opts := cache.SearchKeyOpts{
		TargetSize: o.TargetSize,
		Count:      o.Count,
		SeedPool:   o.SeedPool,
		OffsetRow:  offsetRow,
		OffsetCol:  offsetCol,
	}
	if o.Geo != nil {
		opts.Geo = o.Geo[:]
	}
	return opts
}

// StoreOptions returns the options recorded with a stored run.
func (o *Options) StoreOptions(offsetRow, offsetCol int) store.SearchOptions {
	return store.SearchOptions{
		TargetSize: o.TargetSize,
		Count:      o.Count,
		SeedPool:   o.SeedPool,
		OffsetRow:  offsetRow,
		OffsetCol:  offsetCol,
	}
}
