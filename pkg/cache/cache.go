// Package cache stores search results keyed by matrix content and options.
//
// Backends: [FileCache] for the CLI, [RedisCache] for shared deployments,
// and [NullCache] when caching is disabled. Keys come from a [Keyer] so the
// same search always maps to the same entry regardless of backend.
package cache

import (
	"context"
	"time"
)

// TTLs for cached artifacts.
const (
	// TTLSearch is how long a search result document stays cached.
	TTLSearch = 7 * 24 * time.Hour

	// TTLSummary is how long matrix statistics stay cached.
	TTLSummary = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// SearchKeyOpts are the search options that change the result document.
// Worker count is deliberately absent: it never changes the output.
type SearchKeyOpts struct {
	TargetSize int       `json:"target_size"`
	Count      int       `json:"count"`
	SeedPool   int       `json:"seed_pool"`
	OffsetRow  int       `json:"offset_row"`
	OffsetCol  int       `json:"offset_col"`
	Geo        []float64 `json:"geo,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// SearchKey keys a search result by matrix hash and options.
	SearchKey(matrixHash string, opts SearchKeyOpts) string

	// SummaryKey keys matrix statistics by matrix hash.
	SummaryKey(matrixHash string) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SearchKey returns "search:<sha256 of hash and options>".
func (DefaultKeyer) SearchKey(matrixHash string, opts SearchKeyOpts) string {
	return hashKey("search", matrixHash, opts)
}

// SummaryKey returns "summary:<matrixHash>".
func (DefaultKeyer) SummaryKey(matrixHash string) string {
	return "summary:" + matrixHash
}
