// Package store persists search results so they can be listed and fetched
// later by run ID.
//
// Backends:
//   - [MemoryStore]: process-local, used by the server by default and in tests
//   - [FileStore]: one JSON file per run, used for CLI history
//   - [MongoStore]: a MongoDB collection shared by server instances
//
// Records are immutable once saved. IDs are UUIDs generated by [NewID].
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sitefinder/pkg/core/search"
	"github.com/matzehuels/sitefinder/pkg/sites"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit is used by List when limit is not positive.
const DefaultListLimit = 20

// SearchOptions are the parameters a record was produced with.
type SearchOptions struct {
	TargetSize int `json:"target_size" bson:"target_size"`
	Count      int `json:"count" bson:"count"`
	SeedPool   int `json:"seed_pool" bson:"seed_pool"`
	OffsetRow  int `json:"offset_row" bson:"offset_row"`
	OffsetCol  int `json:"offset_col" bson:"offset_col"`
}

// Record is one persisted search.
type Record struct {
	ID         string          `json:"id" bson:"_id"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at"`
	MatrixHash string          `json:"matrix_hash" bson:"matrix_hash"`
	Options    SearchOptions   `json:"options" bson:"options"`
	Stats      search.Stats    `json:"stats" bson:"stats"`
	Document   *sites.Document `json:"document" bson:"document"`
}

// Store is the interface for result storage backends.
type Store interface {
	// Save stores rec. It fails if rec.ID is empty.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases backend resources.
	Close() error
}

// NewID returns a fresh run ID.
func NewID() string {
	return uuid.NewString()
}

// validID reports whether id is a well-formed run ID.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

var errEmptyID = errors.New("record has no id")

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
