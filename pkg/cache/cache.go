// Package cache stores fetched tenant snapshots between runs.
//
// Fetching a tenant touches several databases, while iterating on the
// document layout only needs the data once. The CLI therefore keeps the
// serialized snapshot in a [Cache] keyed by a [Keyer]. Three backends
// exist: [FileCache] for a single workstation, [RedisCache] for operators
// sharing a cache, and [NullCache] when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values by entry kind.
const (
	TTLSnapshot = 10 * time.Minute
	TTLTenants  = time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss as (nil, false, nil). Errors are reserved for backend
// failures; callers treat them as a miss and carry on.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
