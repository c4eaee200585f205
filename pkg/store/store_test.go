package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/sitefinder/pkg/cache"
	"github.com/matzehuels/sitefinder/pkg/core/search"
	"github.com/matzehuels/sitefinder/pkg/sites"
)

func sampleRecord(created time.Time) *Record {
	x, y := 1.5, 2.5
	return &Record{
		ID:         NewID(),
		CreatedAt:  created.UTC().Truncate(time.Millisecond),
		MatrixHash: "abc123",
		Options:    SearchOptions{TargetSize: 2, Count: 1, SeedPool: 100},
		Stats:      search.Stats{Cells: 9, PositiveCells: 4, RegionsReturned: 1},
		Document: &sites.Document{
			TargetSize: 2, Count: 1, Rows: 3, Cols: 3,
			Geo: &sites.GeoTransform{0, 1, 0, 3, 0, -1},
			Sites: []sites.Site{{
				ID: 1, TotalScore: 9, Color: "#FF1E1E",
				Seed: sites.Cell{Row: 0, Col: 0, Score: 5, X: &x, Y: &y},
				Cells: []sites.Cell{
					{Row: 0, Col: 0, Score: 5, X: &x, Y: &y},
					{Row: 0, Col: 1, GlobalCol: 1, Score: 4},
				},
			}},
		},
	}
}

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.Get(ctx, NewID())
	require.ErrorIs(t, err, ErrNotFound)

	recs := []*Record{sampleRecord(base), sampleRecord(base.Add(time.Hour)), sampleRecord(base.Add(2 * time.Hour))}
	for _, r := range recs {
		require.NoError(t, s.Save(ctx, r))
	}

	got, err := s.Get(ctx, recs[1].ID)
	require.NoError(t, err)
	if diff := cmp.Diff(recs[1], got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	list, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, recs[2].ID, list[0].ID)
	assert.Equal(t, recs[1].ID, list[1].ID)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.Error(t, s.Save(ctx, &Record{}))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStore(t, s)
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, dir, s.Path())

	testStore(t, s)

	// Foreign files are ignored by List.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, NewID()+".json"), []byte("{"), 0o644))
	all, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Save(context.Background(), &Record{ID: "../escape"})
	assert.Error(t, err)
}

func TestFileStoreDefaultDir(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)

	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(data, "sitefinder", "results"), dir)

	s, err := NewFileStore("")
	require.NoError(t, err)
	assert.Equal(t, dir, s.Path())
}

func TestRecordBSONRoundTrip(t *testing.T) {
	rec := sampleRecord(time.Now())

	data, err := bson.Marshal(rec)
	require.NoError(t, err)

	var raw bson.M
	require.NoError(t, bson.Unmarshal(data, &raw))
	assert.Equal(t, rec.ID, raw["_id"])
	assert.Contains(t, raw, "matrix_hash")
	assert.Contains(t, raw, "created_at")

	var got Record
	require.NoError(t, bson.Unmarshal(data, &got))
	if diff := cmp.Diff(rec, &got); diff != "" {
		t.Errorf("bson round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMongoStoreUnreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for server selection")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewMongoStore(ctx, "mongodb://127.0.0.1:1/?connect=direct", "sitefinder_test")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cache.ErrNetwork))
	assert.True(t, cache.IsRetryable(err))
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.True(t, validID(a))
	assert.False(t, validID("nope"))
}
