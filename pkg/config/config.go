// Package config loads sitefinder settings from a TOML file.
//
// The file is optional; every field has a default. Lookup order for the
// path is the --config flag, then $XDG_CONFIG_HOME/sitefinder/config.toml
// (or the platform equivalent). Command-line flags override file values.
//
//	[search]
//	target_size = 20
//	count = 4
//	seed_pool = 100
//	workers = 4
//
//	[cache]
//	backend = "file"        # file | redis | none
//	ttl = "168h"
//	redis_addr = "localhost:6379"
//	redis_db = 0
//	prefix = "sitefinder:"
//	scope = ""              # key namespace for shared caches
//
//	[store]
//	backend = "file"        # file | memory | mongo | none
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "sitefinder"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sitefinder/pkg/cache"
	"github.com/matzehuels/sitefinder/pkg/errors"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreNone   = "none"
)

// Config is the full configuration file.
type Config struct {
	Search SearchConfig `toml:"search"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// SearchConfig holds default search parameters.
type SearchConfig struct {
	TargetSize int `toml:"target_size"`
	Count      int `toml:"count"`
	SeedPool   int `toml:"seed_pool"`
	Workers    int `toml:"workers"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	TTL       Duration `toml:"ttl"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Prefix    string   `toml:"prefix"`
	Scope     string   `toml:"scope"`
}

// StoreConfig selects and configures the result store.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures "sitefinder serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration that decodes from strings such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Search: SearchConfig{TargetSize: 20, Count: 4, SeedPool: 100, Workers: 1},
		Cache: CacheConfig{
			Backend:   CacheFile,
			TTL:       Duration{cache.TTLSearch},
			RedisAddr: "localhost:6379",
			Prefix:    cache.DefaultRedisPrefix,
		},
		Store: StoreConfig{
			Backend:       StoreFile,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "sitefinder",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/sitefinder/config.toml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sitefinder", "config.toml"), nil
}

// Load reads path over the defaults. An empty path means DefaultPath, where
// a missing file is not an error. An explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unknown backends and non-positive search parameters.
func (c *Config) Validate() error {
	if err := errors.ValidateSearchParams(c.Search.TargetSize, c.Search.Count, c.Search.SeedPool); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "[search]")
	}
	if c.Search.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "[search] workers must be at least 1, got %d", c.Search.Workers)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "[cache] redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "[cache] unknown backend %q (must be file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "[cache] ttl must not be negative")
	}

	switch c.Store.Backend {
	case StoreFile, StoreMemory, StoreNone:
	case StoreMongo:
		if c.Store.MongoURI == "" || c.Store.MongoDatabase == "" {
			return errors.New(errors.ErrCodeInvalidInput, "[store] mongo_uri and mongo_database are required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "[store] unknown backend %q (must be file, memory, mongo, or none)", c.Store.Backend)
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "[server] addr must not be empty")
	}
	return nil
}
