package pipeline

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spinside/adsheet/pkg/catalog"
	"github.com/spinside/adsheet/pkg/errors"
	"github.com/spinside/adsheet/pkg/genre"
	"github.com/spinside/adsheet/pkg/sheet"
	"github.com/spinside/adsheet/pkg/sheet/render"
)

// Thumber produces tile-sized thumbnails for image references.
// imagestore.CachedStore is the standard implementation.
type Thumber interface {
	Thumb(ctx context.Context, ref string, tilePx int) (image.Image, error)
}

// Runner executes the generation pipeline. It is stateless between runs;
// the same Runner can execute multiple option sets.
type Runner struct {
	Source   catalog.Source
	Store    Thumber
	Renderer render.Renderer
	Logger   *log.Logger
}

// NewRunner creates a runner over the given collaborators.
func NewRunner(src catalog.Source, store Thumber, renderer render.Renderer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Source: src, Store: store, Renderer: renderer, Logger: logger}
}

// Execute runs the full pipeline for one option set.
//
// Fatal conditions (invalid options, catalog read failure, unusable output
// directory) return an error and no report. Everything else completes with
// a report; check Report.PartialFailure and Report.Missing for non-fatal
// conditions.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Report, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	start := time.Now()

	records, err := r.Source.List(ctx)
	if err != nil {
		if errors.GetCode(err) == errors.ErrCodeCatalogRead {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, err, "list catalog")
	}
	logger.Info("listed catalog", "records", len(records), "mode", opts.Mode)

	report := &Report{
		RunID:   uuid.NewString(),
		Mode:    opts.Mode,
		Records: len(records),
	}

	sets := r.buildPageSets(records, &opts)
	for _, set := range sets {
		total := 0
		for _, page := range set.Pages {
			total += page.Records()
		}
		report.Buckets = append(report.Buckets, BucketCount{
			Label: set.Label, Records: total, Pages: len(set.Pages),
		})
		report.Pages += len(set.Pages)
		logger.Info("planned page set", "set", set.Label, "covers", total, "pages", len(set.Pages))
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "create output directory %s", opts.OutputDir)
	}

	if err := r.renderAll(ctx, sets, &opts, report); err != nil {
		return nil, err
	}

	sort.Strings(report.Written)
	sort.Slice(report.Missing, func(i, j int) bool {
		return report.Missing[i].RecordID < report.Missing[j].RecordID
	})
	sort.Slice(report.Failed, func(i, j int) bool {
		if report.Failed[i].Set != report.Failed[j].Set {
			return report.Failed[i].Set < report.Failed[j].Set
		}
		return report.Failed[i].Page < report.Failed[j].Page
	})
	report.Elapsed = time.Since(start)

	logger.Info("run complete",
		"pages", report.Pages,
		"written", len(report.Written),
		"missing_assets", len(report.Missing),
		"failed_pages", len(report.Failed),
		"duration", report.Elapsed.Round(time.Millisecond))
	return report, nil
}

// buildPageSets computes every page of the run, single-threaded, before
// any rendering is dispatched.
func (r *Runner) buildPageSets(records []catalog.Record, opts *Options) []sheet.PageSet {
	switch opts.Mode {
	case ModeSingle:
		return []sheet.PageSet{{Label: "all", Pages: sheet.Paginate(records, sheet.Auto)}}
	case ModeGrid10:
		return []sheet.PageSet{{Label: "all", Pages: sheet.Paginate(records, sheet.Fixed(10, 10))}}
	case ModeGrid12:
		return []sheet.PageSet{{Label: "all", Pages: sheet.Paginate(records, sheet.Fixed(12, 12))}}
	case ModeGenre:
		buckets := genre.Consolidate(genre.Buckets(records), opts.MinBucket)
		var sets []sheet.PageSet
		for _, label := range genre.SortedLabels(buckets) {
			sets = append(sets, sheet.PageSet{
				Label: label,
				Pages: sheet.Paginate(buckets[label], sheet.Fixed(opts.Rows, opts.Cols)),
			})
		}
		return sets
	}
	return nil
}

// renderAll renders every page across a bounded worker pool. Page failures
// are recorded, not returned; only context cancellation aborts the group.
func (r *Runner) renderAll(ctx context.Context, sets []sheet.PageSet, opts *Options, report *Report) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	var mu sync.Mutex

	for _, set := range sets {
		set := set
		for _, page := range set.Pages {
			page := page
			g.Go(func() error {
				path, missing, err := r.renderPage(gctx, set.Label, page, opts)

				mu.Lock()
				defer mu.Unlock()
				report.Missing = append(report.Missing, missing...)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					opts.Logger.Warn("page failed", "set", set.Label, "page", page.Index, "err", err)
					report.Failed = append(report.Failed, FailedPage{
						Set:  set.Label,
						Page: page.Index,
						Err:  errors.UserMessage(err),
					})
					return nil
				}
				report.Written = append(report.Written, path)
				return nil
			})
		}
	}
	return g.Wait()
}

// renderPage resolves one page's assets, renders it, and writes the file.
func (r *Runner) renderPage(ctx context.Context, label string, page sheet.Page, opts *Options) (string, []MissingAsset, error) {
	cells, missing := r.buildCells(ctx, page, opts)

	data, err := r.Renderer.Render(ctx, page.Shape.Rows, page.Shape.Cols, cells, opts.TilePx)
	if err != nil {
		return "", missing, errors.Wrap(errors.ErrCodeRenderFailed, err, "render page %d of %s", page.Index, label)
	}

	name := pageFileName(label, page.Shape.Rows, page.Shape.Cols, page.Index, opts.Format)
	path := filepath.Join(opts.OutputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", missing, errors.Wrap(errors.ErrCodeRenderFailed, err, "write %s", path)
	}
	return path, missing, nil
}

// buildCells resolves page cells to render cells. Unresolvable assets
// become placeholder tiles so pagination stays stable under partial asset
// availability.
func (r *Runner) buildCells(ctx context.Context, page sheet.Page, opts *Options) ([]render.Cell, []MissingAsset) {
	// Thumbnails leave a 1px gutter on each side of the tile.
	inner := opts.TilePx - 2

	cells := make([]render.Cell, len(page.Cells))
	var missing []MissingAsset

	for i, cell := range page.Cells {
		if cell.Padding() {
			continue
		}
		rec := cell.Record

		if rec.ImageRef == "" {
			cells[i] = placeholderCell(rec)
			missing = append(missing, MissingAsset{RecordID: rec.ID})
			continue
		}

		thumb, err := r.Store.Thumb(ctx, rec.ImageRef, inner)
		if err != nil {
			opts.Logger.Debug("asset missing", "record", rec.ID, "ref", rec.ImageRef, "err", err)
			cells[i] = placeholderCell(rec)
			missing = append(missing, MissingAsset{RecordID: rec.ID, Ref: rec.ImageRef})
			continue
		}
		cells[i] = render.Cell{Image: thumb}
	}
	return cells, missing
}

// placeholderCell builds the stand-in tile for a record without an asset.
func placeholderCell(rec *catalog.Record) render.Cell {
	label := strings.TrimSpace(strings.TrimSpace(rec.Artist) + "\n" + strings.TrimSpace(rec.Title))
	return render.Cell{Placeholder: true, Label: label}
}
