package genre

import (
	"reflect"
	"testing"

	"github.com/spinside/adsheet/pkg/catalog"
)

func rec(id, artist string, genres ...string) catalog.Record {
	return catalog.Record{ID: id, Artist: artist, Title: id, Genres: genres}
}

func TestResolveArtistsMajority(t *testing.T) {
	// Anne Murray: Country, Country, Rock -> Country for all three.
	records := []catalog.Record{
		rec("r1", "Anne Murray", "Country"),
		rec("r2", "Anne Murray", "Country"),
		rec("r3", "Anne Murray", "Rock"),
	}

	resolved := ResolveArtists(records)
	if got := resolved["anne murray"]; got != "Country" {
		t.Errorf("resolved[anne murray] = %q, want Country", got)
	}
}

func TestResolveArtistsCollapsesCapitalization(t *testing.T) {
	records := []catalog.Record{
		rec("r1", "anne murray", "Country"),
		rec("r2", "ANNE MURRAY", "Country"),
		rec("r3", "Anne  Murray", "Rock"),
	}

	resolved := ResolveArtists(records)
	if len(resolved) != 1 {
		t.Fatalf("got %d artists, want 1: %v", len(resolved), resolved)
	}
	if resolved["anne murray"] != "Country" {
		t.Errorf("resolved = %v, want Country", resolved)
	}
}

func TestResolveArtistsOrderIndependent(t *testing.T) {
	forward := []catalog.Record{
		rec("r1", "X", "Jazz"),
		rec("r2", "X", "Rock"),
	}
	backward := []catalog.Record{forward[1], forward[0]}

	a := ResolveArtists(forward)
	b := ResolveArtists(backward)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("resolution depends on input order: %v vs %v", a, b)
	}
	// Jazz/Rock tie: neither has vote priority, lexicographic wins.
	if a["x"] != "Jazz" {
		t.Errorf("resolved[x] = %q, want Jazz", a["x"])
	}
}

func TestBucketsEveryRecordExactlyOnce(t *testing.T) {
	records := []catalog.Record{
		rec("r1", "Anne Murray", "Country"),
		rec("r2", "Anne Murray", "Rock"),
		rec("r3", "Anne Murray", "Country"),
		rec("r4", "ABBA", "Pop"),
		rec("r5", "", "Jazz"), // no artist: keeps its own genre
	}

	buckets := Buckets(records)

	total := 0
	seen := map[string]bool{}
	for _, bucket := range buckets {
		for _, r := range bucket {
			if seen[r.ID] {
				t.Errorf("record %s appears in more than one bucket", r.ID)
			}
			seen[r.ID] = true
			total++
		}
	}
	if total != len(records) {
		t.Errorf("bucketed %d records, want %d", total, len(records))
	}

	if got := len(buckets["Country"]); got != 3 {
		t.Errorf("Country bucket = %d records, want 3 (artist majority override)", got)
	}
	if got := len(buckets["Pop"]); got != 1 {
		t.Errorf("Pop bucket = %d records, want 1", got)
	}
	if got := len(buckets["Jazz"]); got != 1 {
		t.Errorf("Jazz bucket = %d records, want 1", got)
	}
}

func TestConsolidate(t *testing.T) {
	small := make([]catalog.Record, 35)
	exact := make([]catalog.Record, 36)
	for i := range small {
		small[i] = rec("s", "A", "Jazz")
	}
	for i := range exact {
		exact[i] = rec("e", "B", "Rock")
	}

	buckets := map[string][]catalog.Record{
		"Jazz": small,
		"Rock": exact,
	}

	out := Consolidate(buckets, 36)

	if _, ok := out["Jazz"]; ok {
		t.Error("bucket with 35 records should be folded at minSize 36")
	}
	if got := len(out["Misc"]); got != 35 {
		t.Errorf("Misc = %d records, want 35", got)
	}
	if got := len(out["Rock"]); got != 36 {
		t.Errorf("bucket with exactly 36 records should be untouched, got %d", got)
	}
}

func TestConsolidateMiscExempt(t *testing.T) {
	buckets := map[string][]catalog.Record{
		Misc:   {rec("m1", "A", "Spoken")},
		"Jazz": {rec("j1", "B", "Jazz")},
	}

	out := Consolidate(buckets, 36)

	// Misc keeps its own record and receives the folded one; it is never
	// folded itself even though it started below the threshold.
	if got := len(out[Misc]); got != 2 {
		t.Errorf("Misc = %d records, want 2", got)
	}
	if len(out) != 1 {
		t.Errorf("buckets = %d, want only Misc", len(out))
	}
}

func TestConsolidateNoCascade(t *testing.T) {
	// Two buckets of 20 both fold. Sizes are measured before folding, so
	// neither survives even though Misc ends up at 40.
	a := make([]catalog.Record, 20)
	b := make([]catalog.Record, 20)
	buckets := map[string][]catalog.Record{"Jazz": a, "Blues": b}

	out := Consolidate(buckets, 36)
	if got := len(out[Misc]); got != 40 {
		t.Errorf("Misc = %d records, want 40", got)
	}
	if _, ok := out["Jazz"]; ok {
		t.Error("Jazz should be folded")
	}
}

func TestSortedLabelsMiscLast(t *testing.T) {
	buckets := map[string][]catalog.Record{
		"Rock": {}, Misc: {}, "Country": {}, "Zydeco": {},
	}

	got := SortedLabels(buckets)
	want := []string{"Country", "Rock", "Zydeco", Misc}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedLabels = %v, want %v", got, want)
	}
}
