// Package cache provides pluggable byte caches used to memoize expensive
// pipeline work, primarily tile-sized thumbnails decoded from cover images.
//
// Three backends are provided:
//   - FileCache: entries stored as JSON files under a directory (CLI default)
//   - RedisCache: entries stored in Redis (shared between machines)
//   - NullCache: caching disabled
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when an item is not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// TTLThumbnail is how long cached thumbnails stay valid. Thumbnail keys
// include the source file's mtime, so a long TTL is safe.
const TTLThumbnail = 30 * 24 * time.Hour

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ThumbKey builds the cache key for a rendered thumbnail.
// The source modification time is part of the key so edited images
// invalidate naturally.
func ThumbKey(ref string, tilePx int, modTime time.Time) string {
	return hashKey("thumb", ref, tilePx, modTime.UnixNano())
}
