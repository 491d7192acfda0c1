// Package config loads matchbench settings from a TOML file.
//
// A missing file is not an error: [Default] describes the standard
// 10000 × 10000 sweep and every field left out of the file keeps its default.
// Command-line flags are applied on top by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/matchbench/pkg/bipartite"
	"github.com/matzehuels/matchbench/pkg/cache"
	errs "github.com/matzehuels/matchbench/pkg/errors"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Store backends.
const (
	StoreNone  = "none"
	StoreMongo = "mongo"
)

// Config is the root of the config file.
type Config struct {
	Bench  Bench  `toml:"bench"`
	Server Server `toml:"server"`
	Cache  Cache  `toml:"cache"`
	Store  Store  `toml:"store"`
}

// Bench holds the default sweep. Zero From, To or Step are derived from
// Left*Right when the sweep runs.
type Bench struct {
	Left       int    `toml:"left"`
	Right      int    `toml:"right"`
	From       int    `toml:"from"`
	To         int    `toml:"to"`
	Step       int    `toml:"step"`
	Trials     int    `toml:"trials"`
	Seed       uint64 `toml:"seed"`
	Randomized bool   `toml:"randomized"`
}

// Server configures `matchbench serve`.
type Server struct {
	Addr      string  `toml:"addr"`
	RateLimit float64 `toml:"rate_limit"` // requests per second, 0 disables
	MaxEdges  int     `toml:"max_edges"`  // largest edge count a request may ask for
	MaxNodes  int     `toml:"max_nodes"`  // largest left+right a request may ask for
	MaxSweeps int     `toml:"max_sweeps"` // concurrent benchmark sweeps

	// OTLPEndpoint is the host:port of an OTLP/HTTP collector. Metrics are
	// only exported when it is set.
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// Cache selects the result cache.
type Cache struct {
	Backend  string   `toml:"backend"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Store selects where benchmark runs are persisted.
type Store struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct{ time.Duration }

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
func Default() Config {
	return Config{
		Bench: Bench{
			Left:   10000,
			Right:  10000,
			Trials: 10,
			Seed:   bipartite.DefaultSeed,
		},
		Server: Server{
			Addr:      ":8080",
			RateLimit: 20,
			MaxEdges:  1_000_000,
			MaxNodes:  200_000,
			MaxSweeps: 2,
		},
		Cache: Cache{
			Backend:  cache.BackendFile,
			RedisURL: "redis://localhost:6379/0",
			TTL:      Duration{cache.TTLMatch},
		},
		Store: Store{
			Backend:  StoreNone,
			MongoURI: "mongodb://localhost:27017",
			Database: "matchbench",
		},
	}
}

// Load reads path on top of [Default] and validates the result.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config")
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML into cfg, rejecting keys that match no field.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return nil
}

// Validate checks value ranges and backend names.
func (c Config) Validate() error {
	b := c.Bench
	if err := errs.ValidateSides(b.Left, b.Right); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "bench")
	}
	if b.Trials < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "bench.trials must be positive, got %d", b.Trials)
	}
	if b.From < 0 || b.To < 0 || b.Step < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "bench.from, bench.to and bench.step must not be negative")
	}

	if c.Server.RateLimit < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.rate_limit must not be negative")
	}
	if c.Server.MaxEdges < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_edges must be positive, got %d", c.Server.MaxEdges)
	}
	if c.Server.MaxNodes < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_nodes must be positive, got %d", c.Server.MaxNodes)
	}
	if c.Server.MaxSweeps < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_sweeps must be positive, got %d", c.Server.MaxSweeps)
	}

	if !cache.ValidBackends[c.Cache.Backend] {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache.backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis {
		if err := errs.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return err
		}
	}

	switch c.Store.Backend {
	case StoreNone:
	case StoreMongo:
		if err := errs.ValidateURL(c.Store.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
		if c.Store.Database == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "store.database must be set")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown store.backend %q (must be none or mongo)", c.Store.Backend)
	}
	return nil
}

// Dir returns the config directory ($XDG_CONFIG_HOME/matchbench or
// ~/.config/matchbench).
func Dir(app string) (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, app), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", app), nil
}

// Encode writes cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
