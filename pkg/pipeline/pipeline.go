// Package pipeline wires the generation stages together: catalog listing,
// genre bucketing, grid pagination, and sheet rendering.
//
// # Architecture
//
// The pipeline is a strictly forward data transform:
//
//	Catalog Source → genre bucketing → pagination → Sheet Renderer
//
// All ordering (canonical record order, page indices, bucket order) is
// computed up front, single-threaded. Only page rendering runs in
// parallel; pages share no mutable state, so the only synchronization is
// around the run report.
//
// # Error policy
//
// Invalid options and catalog failures are fatal and abort the run before
// any page is rendered. A missing image asset becomes a placeholder tile
// and a report entry. A failed page render is recorded and siblings keep
// going; the run finishes with a partial-success report.
package pipeline

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/spinside/adsheet/pkg/errors"
	"github.com/spinside/adsheet/pkg/sheet/render"
)

// Mode selects how the catalog is laid out into sheets.
type Mode string

const (
	// ModeSingle renders the whole catalog as one auto-sized collage.
	ModeSingle Mode = "single"

	// ModeGrid10 renders 10x10 pages over the whole catalog.
	ModeGrid10 Mode = "grid10"

	// ModeGrid12 renders 12x12 pages over the whole catalog.
	ModeGrid12 Mode = "grid12"

	// ModeGenre renders one fixed-shape page set per genre bucket.
	ModeGenre Mode = "genre"
)

// ValidModes is the set of supported generation modes.
var ValidModes = map[Mode]bool{
	ModeSingle: true,
	ModeGrid10: true,
	ModeGrid12: true,
	ModeGenre:  true,
}

// Defaults for generation options.
const (
	// DefaultTilePx is the tile edge length in pixels.
	DefaultTilePx = 192

	// DefaultMinBucket is the genre-bucket membership threshold.
	DefaultMinBucket = 36

	// DefaultGridRows and DefaultGridCols shape genre-mode pages.
	DefaultGridRows = 10
	DefaultGridCols = 10

	// maxDefaultWorkers caps the worker default derived from NumCPU.
	maxDefaultWorkers = 8
)

// Options configures one pipeline run.
type Options struct {
	Mode      Mode
	OutputDir string

	// TilePx is the tile edge length in pixels.
	TilePx int

	// MinBucket folds smaller genre buckets into Misc (genre mode).
	MinBucket int

	// Rows and Cols shape genre-mode pages.
	Rows int
	Cols int

	// Format is the output encoding: "jpg" or "png".
	Format string

	// Workers bounds parallel page rendering.
	Workers int

	// Logger receives progress output. Defaults to log.Default().
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if !ValidModes[o.Mode] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid mode: %q (must be one of: single, grid10, grid12, genre)", o.Mode)
	}
	if o.OutputDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output directory is required")
	}

	if o.TilePx == 0 {
		o.TilePx = DefaultTilePx
	}
	if o.TilePx <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tile size must be positive, got %d", o.TilePx)
	}

	if o.MinBucket == 0 {
		o.MinBucket = DefaultMinBucket
	}
	if o.MinBucket <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min bucket size must be positive, got %d", o.MinBucket)
	}

	if o.Rows == 0 {
		o.Rows = DefaultGridRows
	}
	if o.Cols == 0 {
		o.Cols = DefaultGridCols
	}
	if o.Rows < 0 || o.Cols < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid shape must be positive, got %dx%d", o.Rows, o.Cols)
	}

	if o.Format == "" {
		o.Format = render.FormatJPEG
	}
	if !render.ValidFormats[o.Format] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid format: %q (must be 'jpg' or 'png')", o.Format)
	}

	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
		if o.Workers > maxDefaultWorkers {
			o.Workers = maxDefaultWorkers
		}
	}
	if o.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be at least 1, got %d", o.Workers)
	}

	if o.Logger == nil {
		o.Logger = log.Default()
	}

	o.validated = true
	return nil
}

// Slug sanitizes a bucket label for use in output file names.
func Slug(label string) string {
	var b strings.Builder
	for _, ch := range label {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z',
			ch >= '0' && ch <= '9', ch == '-', ch == '_':
			b.WriteRune(ch)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "Unknown"
	}
	return out
}

// pageFileName builds the output name for one page. The page index is the
// canonical index within its set, independent of render completion order.
func pageFileName(label string, rows, cols, index int, ext string) string {
	return fmt.Sprintf("%s_grid_%dx%d_p%03d.%s", Slug(label), cols, rows, index, ext)
}
