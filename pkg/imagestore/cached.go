package imagestore

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"time"

	"github.com/disintegration/imaging"

	"github.com/spinside/adsheet/pkg/cache"
)

// modTimer is implemented by stores that can report an asset's
// modification time. Stores without one still cache, keyed on the
// reference alone.
type modTimer interface {
	ModTime(ref string) (time.Time, error)
}

// CachedStore wraps a Store and memoizes tile-sized thumbnails.
// Thumbnails are center-cropped squares (imaging.Fill), stored PNG-encoded
// in the configured cache backend.
type CachedStore struct {
	inner Store
	cache cache.Cache
}

// NewCachedStore wraps inner with thumbnail caching. A nil cache disables
// memoization.
func NewCachedStore(inner Store, c cache.Cache) *CachedStore {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &CachedStore{inner: inner, cache: c}
}

// Resolve passes through to the wrapped store.
func (s *CachedStore) Resolve(ctx context.Context, ref string) (image.Image, error) {
	return s.inner.Resolve(ctx, ref)
}

// Thumb returns a tilePx×tilePx center-cropped thumbnail of the referenced
// image, serving from cache when possible. ErrNotFound propagates from the
// wrapped store.
func (s *CachedStore) Thumb(ctx context.Context, ref string, tilePx int) (image.Image, error) {
	var modTime time.Time
	if mt, ok := s.inner.(modTimer); ok {
		t, err := mt.ModTime(ref)
		if err != nil {
			return nil, err
		}
		modTime = t
	}

	key := cache.ThumbKey(ref, tilePx, modTime)
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		if img, err := png.Decode(bytes.NewReader(data)); err == nil {
			return img, nil
		}
		// Corrupt entry: drop it and recompute.
		_ = s.cache.Delete(ctx, key)
	}

	src, err := s.inner.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	thumb := imaging.Fill(src, tilePx, tilePx, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err == nil {
		_ = s.cache.Set(ctx, key, buf.Bytes(), cache.TTLThumbnail)
	}
	return thumb, nil
}
