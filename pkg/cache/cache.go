// Package cache stores rendered artifacts and layout snapshots.
//
// Backends:
//   - FileCache: entries as JSON files under a directory, for the CLI
//   - RedisCache: shared cache for several preview servers
//   - NullCache: caching disabled
//
// Keys come from a [Keyer], which hashes everything that affects the cached
// bytes: geometry configuration, item count, viewport, arrangement state and
// output format.
package cache

import (
	"context"
	"time"
)

// Cache is a byte cache with per-entry expiry.
type Cache interface {
	// Get returns the entry for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Default TTLs.
const (
	// TTLSnapshot is how long computed layout snapshots are kept.
	TTLSnapshot = 24 * time.Hour

	// TTLArtifact is how long rendered artifacts are kept.
	TTLArtifact = 7 * 24 * time.Hour
)
