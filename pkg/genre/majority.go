package genre

import (
	"sort"

	"github.com/spinside/adsheet/pkg/catalog"
)

// priority is the fixed global tie-break order for majority votes.
// Labels outside this list fall through to lexicographic comparison.
var priority = map[string]int{
	Pop:     0,
	Country: 1,
	Folk:    2,
	World:   3,
}

// ResolveArtists majority-votes one bucket label per artist.
//
// For each artist (grouped by ArtistKey) the normalized genre of every one
// of their records is tallied; the label with the highest count wins. Ties
// prefer the earliest label in the fixed priority order (Pop, Country,
// Folk, World), then the lexicographically smaller label, so the result is
// independent of input and map-iteration order. Records without an artist
// are not counted.
func ResolveArtists(records []catalog.Record) map[string]string {
	counts := make(map[string]map[string]int)
	for _, rec := range records {
		key := ArtistKey(rec.Artist)
		if key == "" {
			continue
		}
		tally := counts[key]
		if tally == nil {
			tally = make(map[string]int)
			counts[key] = tally
		}
		tally[Normalize(rec.Genres)]++
	}

	resolved := make(map[string]string, len(counts))
	for artist, tally := range counts {
		resolved[artist] = majority(tally)
	}
	return resolved
}

// majority picks the winning label from a genre tally.
func majority(tally map[string]int) string {
	best := -1
	for _, n := range tally {
		if n > best {
			best = n
		}
	}

	tied := make([]string, 0, len(tally))
	for label, n := range tally {
		if n == best {
			tied = append(tied, label)
		}
	}
	sort.Slice(tied, func(i, j int) bool {
		return labelLess(tied[i], tied[j])
	})
	return tied[0]
}

// labelLess orders labels by vote priority, then lexicographically.
func labelLess(a, b string) bool {
	pa, pb := priorityOf(a), priorityOf(b)
	if pa != pb {
		return pa < pb
	}
	return a < b
}

func priorityOf(label string) int {
	if p, ok := priority[label]; ok {
		return p
	}
	return len(priority)
}

// Buckets groups records by their artist's resolved bucket label.
// Records whose artist is unknown keep their own normalized genre.
// Every record lands in exactly one bucket.
func Buckets(records []catalog.Record) map[string][]catalog.Record {
	resolved := ResolveArtists(records)

	buckets := make(map[string][]catalog.Record)
	for _, rec := range records {
		label, ok := resolved[ArtistKey(rec.Artist)]
		if !ok {
			label = Normalize(rec.Genres)
		}
		buckets[label] = append(buckets[label], rec)
	}
	return buckets
}
