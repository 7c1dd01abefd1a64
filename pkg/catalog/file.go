package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spinside/adsheet/pkg/errors"
)

// FileSource reads records from an inventory JSON file.
//
// The store tooling has exported several shapes over time, so the reader is
// deliberately tolerant: the record list may live under "records", "items",
// or "data", or the document may be a bare array; field names are probed in
// a fixed preference order.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading the inventory file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Field probe orders, most specific first.
var (
	artistKeys = []string{"artist", "artist_name", "artists"}
	titleKeys  = []string{"title", "release_title", "name"}
	genreKeys  = []string{"broad_genre", "genre_broad", "genre_group", "genre"}
	imageKeys  = []string{"img", "image_path", "cover_image", "image", "cover"}
	idKeys     = []string{"id", "release_id", "listing_id"}
)

// List reads and parses the inventory file.
func (s *FileSource) List(ctx context.Context) ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, err, "read inventory %s", s.path)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, err, "parse inventory %s", s.path)
	}

	items := recordList(doc)
	if items == nil {
		return nil, errors.New(errors.ErrCodeCatalogRead, "inventory %s holds no record list", s.path)
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, parseRecord(obj, i))
	}
	return records, nil
}

// recordList extracts the record array from the decoded document.
func recordList(doc any) []any {
	switch v := doc.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range []string{"records", "items", "data"} {
			if list, ok := v[key].([]any); ok {
				return list
			}
		}
	}
	return nil
}

// parseRecord probes one decoded inventory object for record fields.
// idx derives a stable fallback ID for records without one.
func parseRecord(obj map[string]any, idx int) Record {
	rec := Record{
		ID:       probeString(obj, idKeys),
		Artist:   probeString(obj, artistKeys),
		Title:    probeString(obj, titleKeys),
		Genres:   probeStrings(obj, genreKeys),
		ImageRef: probeString(obj, imageKeys),
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("rec-%04d", idx)
	}
	return rec
}

// probeString returns the first non-empty string value among keys.
// Lists yield their first element; numbers are formatted verbatim.
func probeString(obj map[string]any, keys []string) string {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			// JSON numbers decode as float64; IDs are integral in practice.
			if v == math.Trunc(v) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	return ""
}

// probeStrings returns the first key holding genre tags, split out of either
// a JSON list or a single string value.
func probeStrings(obj map[string]any, keys []string) []string {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return []string{s}
			}
		case []any:
			var out []string
			for _, item := range v {
				if s, ok := item.(string); ok {
					if s = strings.TrimSpace(s); s != "" {
						out = append(out, s)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}
