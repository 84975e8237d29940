// Package cache stores pipeline artifacts keyed by document content.
//
// Rendering the same document with the same options always yields the same
// bytes, so validation results and rendered artifacts are cached under keys
// derived from a hash of the document and the options that shape the output.
//
// Backends:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for CLI usage
//   - [RedisCache]: shared cache for multi-process deployments
//
// Keys come from a [Keyer]; [ScopedKeyer] prefixes them to separate
// namespaces sharing one backend.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	ValidationTTL = 24 * time.Hour
	ArtifactTTL   = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key; removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}
