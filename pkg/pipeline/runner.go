package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sitefinder/pkg/cache"
	"github.com/matzehuels/sitefinder/pkg/core/grid"
	"github.com/matzehuels/sitefinder/pkg/core/search"
	"github.com/matzehuels/sitefinder/pkg/errors"
	"github.com/matzehuels/sitefinder/pkg/observability"
	"github.com/matzehuels/sitefinder/pkg/scores"
	"github.com/matzehuels/sitefinder/pkg/sites"
	"github.com/matzehuels/sitefinder/pkg/store"
)

// Cache key types reported to observability hooks.
const (
	keyTypeSearch  = "search"
	keyTypeSummary = "summary"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its backends and logger - it doesn't
// keep pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // nil disables history
	Logger *log.Logger
}

// NewRunner creates a runner with the given backends.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// A nil store disables persistence.
func NewRunner(c cache.Cache, keyer cache.Keyer, s store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  s,
		Logger: logger,
	}
}

// cachedSearch is the cache payload for a search result.
type cachedSearch struct {
	Document *sites.Document `json:"document"`
	Stats    search.Stats    `json:"stats"`
}

// Execute searches m and returns the ranked site document.
func (r *Runner) Execute(ctx context.Context, m grid.Matrix, opts Options) (*Result, error) {
	start := time.Now()
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	if err := grid.Validate(m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "invalid score matrix")
	}

	rows, cols := m.Dims()
	winRow, winCol := scores.Offset(m)
	offsetRow, offsetCol := opts.OffsetRow+winRow, opts.OffsetCol+winCol

	result := &Result{
		MatrixHash: scores.Hash(m),
		RunID:      store.NewID(),
	}
	cacheKey := r.Keyer.SearchKey(result.MatrixHash, opts.SearchKeyOpts(offsetRow, offsetCol))

	// Stage 1: Lookup
	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, cacheKey); ok {
			result.Document = cached.Document
			result.Stats = cached.Stats
			result.CacheHit = true
			logger.Debug("search cache hit", "key", cacheKey)
		}
	}

	// Stage 2: Search
	if !result.CacheHit {
		hooks := observability.Search()
		hooks.OnSearchStart(ctx, rows, cols, opts.TargetSize, opts.Count)
		searchStart := time.Now()

		res, err := search.Run(ctx, m, opts.TargetSize, opts.Count,
			search.WithSeedPool(opts.SeedPool),
			search.WithWorkers(opts.Workers),
		)
		if err != nil {
			hooks.OnSearchComplete(ctx, 0, time.Since(searchStart), err)
			return nil, fmt.Errorf("search: %w", err)
		}
		hooks.OnSearchComplete(ctx, len(res.Regions), time.Since(searchStart), nil)

		if res.Stats.OverlappingCells > 0 {
			logger.Warn("sites share cells", "cells", res.Stats.OverlappingCells)
		}
		logger.Info("search complete",
			"rows", rows,
			"cols", cols,
			"seeds", res.Stats.SeedsRetained,
			"sites", len(res.Regions),
			"duration", time.Since(searchStart))

		// Stage 3: Document
		result.Document = sites.FromRegions(res.Regions, sites.Options{
			TargetSize: opts.TargetSize,
			Count:      opts.Count,
			Rows:       rows,
			Cols:       cols,
			OffsetRow:  offsetRow,
			OffsetCol:  offsetCol,
			Geo:        opts.Geo,
		})
		result.Stats = res.Stats

		r.cacheSet(ctx, cacheKey, keyTypeSearch, cachedSearch{Document: result.Document, Stats: result.Stats}, cache.TTLSearch)
	}

	// Stage 4: Persist
	if r.Store != nil {
		rec := &store.Record{
			ID:         result.RunID,
			CreatedAt:  time.Now().UTC(),
			MatrixHash: result.MatrixHash,
			Options:    opts.StoreOptions(offsetRow, offsetCol),
			Stats:      result.Stats,
			Document:   result.Document,
		}
		err := cache.RetryWithBackoff(ctx, func() error {
			return r.Store.Save(ctx, rec)
		})
		if err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		logger.Debug("saved run", "id", rec.ID)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Summarize returns matrix statistics, cached by matrix hash.
func (r *Runner) Summarize(ctx context.Context, m grid.Matrix) (scores.Summary, bool, error) {
	if err := grid.Validate(m); err != nil {
		return scores.Summary{}, false, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "invalid score matrix")
	}
	key := r.Keyer.SummaryKey(scores.Hash(m))

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var s scores.Summary
		if err := json.Unmarshal(data, &s); err == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeSummary)
			return s, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeSummary)

	s := scores.Summarize(m)
	r.cacheSet(ctx, key, keyTypeSummary, s, cache.TTLSummary)
	return s, false, nil
}

// lookup reads a cached search. Unreadable entries count as misses.
func (r *Runner) lookup(ctx context.Context, key string) (cachedSearch, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	if err == nil && hit {
		var cached cachedSearch
		if err := json.Unmarshal(data, &cached); err == nil && cached.Document != nil {
			if cached.Document.Sites == nil {
				cached.Document.Sites = []sites.Site{}
			}
			observability.Cache().OnCacheHit(ctx, keyTypeSearch)
			return cached, true
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeSearch)
	return cachedSearch{}, false
}

// cacheSet writes v to the cache. Cache failures are logged, never returned.
func (r *Runner) cacheSet(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Warn("cache encode failed", "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(); err == nil {
			err = serr
		}
	}
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
