package pipeline

import (
	"sort"

	"github.com/spinside/adsheet/pkg/catalog"
	"github.com/spinside/adsheet/pkg/genre"
)

// BucketStat describes one final genre bucket without rendering anything.
type BucketStat struct {
	Label   string
	Records int
	Artists int

	// Folded lists the undersized labels merged into this bucket.
	// Only ever populated on the Misc row.
	Folded []string
}

// Inspect runs the genre engine over a record snapshot and reports the
// final bucket structure: what the genre mode would render, bucket by
// bucket, in generation order.
func Inspect(records []catalog.Record, minBucket int) []BucketStat {
	if minBucket <= 0 {
		minBucket = DefaultMinBucket
	}

	raw := genre.Buckets(records)
	final := genre.Consolidate(raw, minBucket)

	// Labels that existed before consolidation but not after were folded.
	var folded []string
	for label := range raw {
		if _, ok := final[label]; !ok {
			folded = append(folded, label)
		}
	}
	sort.Strings(folded)

	var stats []BucketStat
	for _, label := range genre.SortedLabels(final) {
		bucket := final[label]

		artists := make(map[string]bool)
		for _, rec := range bucket {
			artists[genre.ArtistKey(rec.Artist)] = true
		}

		stat := BucketStat{Label: label, Records: len(bucket), Artists: len(artists)}
		if label == genre.Misc {
			stat.Folded = folded
		}
		stats = append(stats, stat)
	}
	return stats
}
