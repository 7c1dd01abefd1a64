// Package imagestore resolves catalog image references to decoded images.
//
// The pipeline treats a missing asset as a placeholder-tile condition,
// never an aborting error: stores signal it with ErrNotFound and callers
// keep going. CachedStore adds tile-sized thumbnail memoization on top of
// any Store so repeated runs skip the decode/resize work.
package imagestore

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// ErrNotFound is returned when an image reference cannot be resolved.
var ErrNotFound = errors.New("image not found")

// Store resolves an image reference to a decoded image.
type Store interface {
	Resolve(ctx context.Context, ref string) (image.Image, error)
}

// DirStore resolves references relative to an images directory.
type DirStore struct {
	root string
}

// NewDirStore creates a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{root: dir}
}

// Resolve opens and decodes the referenced image file.
// Returns ErrNotFound when the file does not exist.
func (s *DirStore) Resolve(ctx context.Context, ref string) (image.Image, error) {
	path, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return img, nil
}

// ModTime returns the referenced file's modification time, used as a
// cache-invalidation component of thumbnail keys.
func (s *DirStore) ModTime(ref string) (time.Time, error) {
	path, err := s.path(ref)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// path maps a reference to a path under the root. Inventory exports often
// prefix references with the images directory's own name; that duplicated
// leading component is stripped.
func (s *DirStore) path(ref string) (string, error) {
	ref = filepath.Clean(strings.TrimSpace(ref))
	if ref == "" || ref == "." {
		return "", ErrNotFound
	}
	if filepath.IsAbs(ref) {
		return ref, nil
	}

	parts := strings.Split(ref, string(filepath.Separator))
	if len(parts) > 1 && strings.EqualFold(parts[0], filepath.Base(s.root)) {
		parts = parts[1:]
	}
	return filepath.Join(append([]string{s.root}, parts...)...), nil
}
