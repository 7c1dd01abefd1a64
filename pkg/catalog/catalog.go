// Package catalog defines the inventory record model and the sources that
// produce records for a pipeline run.
//
// A Source yields an immutable snapshot of the inventory. Two sources are
// provided: FileSource reads the inventory JSON exported by the store
// tooling, MongoSource reads the same records from a MongoDB collection.
// The pipeline never assumes any ordering from a source; it re-sorts
// records into canonical order before paginating.
package catalog

import "context"

// Record is one catalog item. Records are read-only once listed.
type Record struct {
	// ID is the catalog identifier (listing or release id).
	ID string

	// Artist is the raw artist name as it appears in the inventory.
	Artist string

	// Title is the release title.
	Title string

	// Genres are the raw genre tags, in inventory order. May be empty.
	Genres []string

	// ImageRef locates the cover image, resolvable by an image store.
	// Empty when the record carries no image.
	ImageRef string
}

// Source yields inventory records. Implementations must be idempotent
// within a run; callers must not rely on any particular ordering.
type Source interface {
	List(ctx context.Context) ([]Record, error)
}
