// Package cache stores computed matching results and rendered diagrams.
//
// Everything a [Cache] holds is a pure function of its key: a graph is
// fully determined by its side sizes, edge count and seed, so a cached
// matching never goes stale. TTLs only bound disk and memory usage.
//
// Three backends are available:
//
//   - [NullCache] disables caching.
//   - [FileCache] keeps entries under a directory, for the CLI.
//   - [RedisCache] shares entries between server replicas.
//
// Keys are built by a [Keyer] so that CLI and server agree on them.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached artifacts.
const (
	// TTLMatch bounds how long a matching result is kept.
	TTLMatch = 7 * 24 * time.Hour

	// TTLDiagram bounds how long a rendered diagram is kept.
	TTLDiagram = 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiry.
//
// Get reports a miss with ok == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
