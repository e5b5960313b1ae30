// Package cache stores registry responses between runs.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per key under a directory (default for the CLI)
//   - [RedisCache]: a shared Redis instance, for CI fleets converting the
//     same feeds
//   - [NullCache]: stores nothing, used with --no-cache
//
// Keys are built with a [Keyer]. [ScopedKeyer] prefixes keys with the feed
// they came from so two package sources never share entries.
//
// The package also carries the retry helpers used by the HTTP clients:
// errors wrapped with [Retryable] are retried by [Backoff.Retry].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss or an expired entry reports
	// false with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
