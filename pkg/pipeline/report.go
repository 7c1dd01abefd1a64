package pipeline

import "time"

// MissingAsset records one catalog record whose image could not be
// resolved. The record still occupies its canonical tile slot, rendered as
// a placeholder.
type MissingAsset struct {
	RecordID string
	Ref      string
}

// FailedPage records one page whose render or write failed. Sibling pages
// are unaffected.
type FailedPage struct {
	Set  string
	Page int
	Err  string
}

// BucketCount summarizes one page set in the report.
type BucketCount struct {
	Label   string
	Records int
	Pages   int
}

// Report is the structured outcome of a run: what was produced plus every
// non-fatal condition encountered along the way.
type Report struct {
	RunID   string
	Mode    Mode
	Records int

	// Buckets lists page sets in generation order (lexicographic labels,
	// Misc last in genre mode).
	Buckets []BucketCount

	// Pages is the total page count across all sets.
	Pages int

	// Written lists output file paths, sorted.
	Written []string

	// Missing lists records rendered as placeholder tiles.
	Missing []MissingAsset

	// Failed lists pages that could not be rendered or written.
	Failed []FailedPage

	Elapsed time.Duration
}

// PartialFailure reports whether any page failed to render.
func (r *Report) PartialFailure() bool {
	return len(r.Failed) > 0
}
