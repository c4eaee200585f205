package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sitefinder/pkg/cache"
	"github.com/matzehuels/sitefinder/pkg/errors"
	"github.com/matzehuels/sitefinder/pkg/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20, cfg.Search.TargetSize)
	assert.Equal(t, 4, cfg.Search.Count)
	assert.Equal(t, 100, cfg.Search.SeedPool)
	assert.Equal(t, 1, cfg.Search.Workers)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.Equal(t, cache.TTLSearch, cfg.Cache.TTL.Duration)
	assert.Equal(t, StoreFile, cfg.Store.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[search]
target_size = 9
count = 2
workers = 4

[cache]
backend = "redis"
ttl = "36h"
redis_addr = "cache:6379"
redis_db = 2

[store]
backend = "memory"

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Search.TargetSize)
	assert.Equal(t, 2, cfg.Search.Count)
	assert.Equal(t, 100, cfg.Search.SeedPool, "unset keys keep defaults")
	assert.Equal(t, 4, cfg.Search.Workers)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, 36*time.Hour, cfg.Cache.TTL.Duration)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 2, cfg.Cache.RedisDB)
	assert.Equal(t, cache.DefaultRedisPrefix, cfg.Cache.Prefix)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoadMissingDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sitefinder"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sitefinder", "config.toml"), []byte("[search]\ncount = 7\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.Count)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[search\ncount = 1", errors.ErrCodeInvalidInput},
		{"unknown key", "[search]\ncolor = 1\n", errors.ErrCodeInvalidInput},
		{"bad duration", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidInput},
		{"zero count", "[search]\ncount = 0\n", errors.ErrCodeInvalidInput},
		{"zero workers", "[search]\nworkers = 0\n", errors.ErrCodeInvalidInput},
		{"cache backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"store backend", "[store]\nbackend = \"sqlite\"\n", errors.ErrCodeInvalidInput},
		{"mongo without uri", "[store]\nbackend = \"mongo\"\nmongo_uri = \"\"\n", errors.ErrCodeInvalidInput},
		{"empty addr", "[server]\naddr = \"\"\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Cache.Backend = CacheNone
	c, err := cfg.OpenCache(ctx)
	require.NoError(t, err)
	assert.IsType(t, &cache.NullCache{}, c)

	cfg.Cache.Backend = CacheFile
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	c, err = cfg.OpenCache(ctx)
	require.NoError(t, err)
	fc, ok := c.(*cache.FileCache)
	require.True(t, ok)
	assert.Equal(t, cfg.Cache.Dir, fc.Dir())
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Store.Backend = StoreNone
	s, err := cfg.OpenStore(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	cfg.Store.Backend = StoreMemory
	s, err = cfg.OpenStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, s)

	cfg.Store.Backend = StoreFile
	cfg.Store.Dir = t.TempDir()
	s, err = cfg.OpenStore(ctx)
	require.NoError(t, err)
	fs, ok := s.(*store.FileStore)
	require.True(t, ok)
	assert.Equal(t, cfg.Store.Dir, fs.Path())
}

func TestKeyer(t *testing.T) {
	cfg := Default()
	plain := cfg.Keyer().SummaryKey("abc")
	assert.Equal(t, "summary:abc", plain)

	cfg.Cache.Scope = "team:7:"
	assert.Equal(t, "team:7:summary:abc", cfg.Keyer().SummaryKey("abc"))
}
