// Package genre assigns catalog records to genre buckets.
//
// Bucketing happens in three steps, each a pure function over the record
// snapshot:
//
//  1. Normalize: collapse a record's raw genre tags to one canonical label.
//  2. ResolveArtists: per artist, majority-vote a single bucket label
//     across all of that artist's records, with deterministic tie-breaks.
//  3. Consolidate: fold buckets below a minimum size into "Misc".
//
// Every step is order-independent: the same record set produces the same
// buckets regardless of input or map-iteration order.
package genre

import "strings"

// Reserved labels.
const (
	// Unknown is assigned to records without genre tags.
	Unknown = "Unknown"

	// Misc receives the records of undersized buckets. It sorts last and
	// is never itself folded.
	Misc = "Misc"
)

// Canonical labels with explicit preference rules.
const (
	Pop     = "Pop"
	Country = "Country"
	Folk    = "Folk"
	World   = "World"
)

// DefaultMinBucket is the membership threshold below which a bucket is
// folded into Misc.
const DefaultMinBucket = 36

// Normalize collapses raw genre tags to one canonical label.
//
// Rules, first match wins:
//  1. Pop anywhere wins over co-listed genres.
//  2. Country and Folk together prefer Country.
//  3. Exactly one of Folk/World/Country present keeps that label; the
//     triad stays split rather than merging into a combined label.
//  4. Otherwise the first tag, verbatim.
//
// Empty input yields Unknown. Matching is a case-insensitive substring
// test per tag, so composite tags like "Pop/Rock" or
// "Folk, World, & Country" participate in the preference rules.
func Normalize(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			clean = append(clean, tag)
		}
	}
	if len(clean) == 0 {
		return Unknown
	}

	var hasPop, hasCountry, hasFolk, hasWorld bool
	for _, tag := range clean {
		low := strings.ToLower(tag)
		hasPop = hasPop || strings.Contains(low, "pop")
		hasCountry = hasCountry || strings.Contains(low, "country")
		hasFolk = hasFolk || strings.Contains(low, "folk")
		hasWorld = hasWorld || strings.Contains(low, "world")
	}

	if hasPop {
		return Pop
	}
	if hasCountry && hasFolk {
		return Country
	}

	switch triad := btoi(hasFolk) + btoi(hasWorld) + btoi(hasCountry); {
	case triad == 1 && hasFolk:
		return Folk
	case triad == 1 && hasWorld:
		return World
	case triad == 1 && hasCountry:
		return Country
	}

	return clean[0]
}

// ArtistKey normalizes an artist name for grouping, collapsing variant
// capitalization and stray whitespace to one entry.
func ArtistKey(artist string) string {
	return strings.ToLower(strings.Join(strings.Fields(artist), " "))
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
