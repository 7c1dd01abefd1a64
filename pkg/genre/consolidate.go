package genre

import (
	"sort"

	"github.com/spinside/adsheet/pkg/catalog"
)

// Consolidate folds undersized buckets into Misc.
//
// Sizes are measured on the input before any folding, so the result does
// not cascade: a Misc bucket grown past minSize by folding never rescues a
// bucket that was small on entry, and a Misc below minSize is never folded
// into itself. Folded buckets are appended to Misc in label order to keep
// the result order-independent.
func Consolidate(buckets map[string][]catalog.Record, minSize int) map[string][]catalog.Record {
	out := make(map[string][]catalog.Record, len(buckets))
	var folded []string

	for label, records := range buckets {
		if label != Misc && len(records) < minSize {
			folded = append(folded, label)
			continue
		}
		out[label] = records
	}
	sort.Strings(folded)

	for _, label := range folded {
		out[Misc] = append(out[Misc], buckets[label]...)
	}
	return out
}

// SortedLabels returns bucket labels in presentation order: lexicographic,
// with Misc always last.
func SortedLabels(buckets map[string][]catalog.Record) []string {
	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		if label != Misc {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	if _, ok := buckets[Misc]; ok {
		labels = append(labels, Misc)
	}
	return labels
}
