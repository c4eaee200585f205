package config

import (
	"context"
	"fmt"

	"github.com/matzehuels/sitefinder/pkg/cache"
	"github.com/matzehuels/sitefinder/pkg/store"
)

// OpenCache returns the configured cache backend. The caller closes it.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		var opts []cache.RedisOption
		if c.Cache.Prefix != "" {
			opts = append(opts, cache.WithRedisPrefix(c.Cache.Prefix))
		}
		rc, err := cache.NewRedisCache(ctx, c.Cache.RedisAddr, c.Cache.RedisDB, opts...)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case CacheFile, "":
		dir := c.Cache.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
}

// Keyer returns the cache keyer, scoped when [cache] scope is set.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Scope)
}

// OpenStore returns the configured result store, or nil when the backend
// is "none". The caller closes it.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case StoreNone:
		return nil, nil
	case StoreMemory:
		return store.NewMemoryStore(), nil
	case StoreMongo:
		ms, err := store.NewMongoStore(ctx, c.Store.MongoURI, c.Store.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return ms, nil
	case StoreFile, "":
		fs, err := store.NewFileStore(c.Store.Dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
}
