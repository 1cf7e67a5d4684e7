// Package cache stores encoded catalogues and sampled cases between runs.
//
// Catalogues are pure functions of their key (maximum size and hole policy),
// so an enumeration that took seconds or minutes is reused by every later
// command, by the HTTP API and across processes.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: one JSON entry file per key under the XDG cache directory
//   - [RedisCache]: a shared Redis instance, for several API servers
//
// Keys are produced by a [Keyer]; [ScopedKeyer] prefixes them to separate
// namespaces that share one backend.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries. Zero means no expiry.
const (
	// TTLCatalogue applies to encoded catalogues.
	TTLCatalogue = 30 * 24 * time.Hour

	// TTLCase applies to sampled cases served by the HTTP API.
	TTLCase = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
