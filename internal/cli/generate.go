package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spinside/adsheet/pkg/catalog"
	"github.com/spinside/adsheet/pkg/config"
	"github.com/spinside/adsheet/pkg/imagestore"
	"github.com/spinside/adsheet/pkg/pipeline"
	"github.com/spinside/adsheet/pkg/sheet/render"
)

// generateOpts holds the command-line flags for the generate command.
// Every value can also come from a TOML config file; explicitly set flags win.
type generateOpts struct {
	sourceOpts

	imagesDir  string // directory holding cover images
	outputDir  string // directory receiving rendered pages
	mode       string // pagination mode: single, grid10, grid12, genre
	tile       int    // tile edge length in pixels
	minBucket  int    // minimum bucket size before folding into Misc
	rows       int    // grid rows for genre mode
	cols       int    // grid columns for genre mode
	format     string // output format: jpg or png
	workers    int    // parallel page renders (0 = number of CPUs)
	configPath string // optional TOML config file

	cacheBackend  string // thumbnail cache: file, redis, none
	redisAddr     string
	redisPassword string
	redisDB       int
}

// sourceOpts selects where inventory records come from. Shared between
// the generate and inspect commands.
type sourceOpts struct {
	catalogBackend  string // json or mongo
	inventory       string // inventory JSON path (json backend)
	mongoURI        string
	mongoDatabase   string
	mongoCollection string
}

// generateCommand creates the generate command for rendering contact sheets.
//
// Default settings:
//   - mode: genre (one page set per consolidated genre bucket)
//   - tile: 192px, format: jpg
//   - grid: 10x10 for genre mode
//   - min-bucket: 36 (smaller buckets fold into Misc)
//   - cache: file (XDG cache directory)
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{
		mode:         string(pipeline.ModeGenre),
		tile:         pipeline.DefaultTilePx,
		minBucket:    pipeline.DefaultMinBucket,
		rows:         pipeline.DefaultGridRows,
		cols:         pipeline.DefaultGridCols,
		format:       render.FormatJPEG,
		outputDir:    "sheets",
		cacheBackend: "file",
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render contact sheet pages from an inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				cfg, err := config.Load(opts.configPath)
				if err != nil {
					return err
				}
				applyConfig(&opts, cfg, cmd.Flags())
			}
			if opts.imagesDir == "" {
				return fmt.Errorf("--images-dir is required (flag or config file)")
			}
			return c.runGenerate(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.imagesDir, "images-dir", "", "directory containing cover images")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", opts.outputDir, "directory for rendered pages")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "pagination mode: genre (default), single, grid10, grid12")
	cmd.Flags().IntVar(&opts.tile, "tile", opts.tile, "tile edge length in pixels")
	cmd.Flags().IntVar(&opts.minBucket, "min-bucket", opts.minBucket, "minimum genre bucket size before folding into Misc")
	cmd.Flags().IntVar(&opts.rows, "rows", opts.rows, "grid rows (genre mode)")
	cmd.Flags().IntVar(&opts.cols, "cols", opts.cols, "grid columns (genre mode)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: jpg (default), png")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel page renders (0 = number of CPUs)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&opts.cacheBackend, "cache", opts.cacheBackend, "thumbnail cache backend: file (default), redis, none")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "localhost:6379", "redis address (cache=redis)")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "redis password (cache=redis)")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "redis database number (cache=redis)")
	addSourceFlags(cmd, &opts.sourceOpts)

	return cmd
}

// addSourceFlags registers the catalog source flags shared by generate and inspect.
func addSourceFlags(cmd *cobra.Command, opts *sourceOpts) {
	cmd.Flags().StringVar(&opts.catalogBackend, "catalog", "json", "catalog backend: json (default), mongo")
	cmd.Flags().StringVarP(&opts.inventory, "inventory", "i", "", "inventory JSON file (catalog=json)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "mongodb://localhost:27017", "mongodb connection URI (catalog=mongo)")
	cmd.Flags().StringVar(&opts.mongoDatabase, "mongo-database", "records", "mongodb database (catalog=mongo)")
	cmd.Flags().StringVar(&opts.mongoCollection, "mongo-collection", "inventory", "mongodb collection (catalog=mongo)")
}

// applyConfig copies config file values into opts for every flag the user
// did not set explicitly. Zero values in the file are ignored so the flag
// defaults survive a sparse config.
func applyConfig(opts *generateOpts, cfg *config.File, flags *pflag.FlagSet) {
	setString := func(name string, dst *string, v string) {
		if v != "" && !flags.Changed(name) {
			*dst = v
		}
	}
	setInt := func(name string, dst *int, v int) {
		if v != 0 && !flags.Changed(name) {
			*dst = v
		}
	}

	setString("images-dir", &opts.imagesDir, cfg.ImagesDir)
	setString("inventory", &opts.inventory, cfg.Inventory)
	setString("output-dir", &opts.outputDir, cfg.OutputDir)
	setString("mode", &opts.mode, cfg.Mode)
	setInt("tile", &opts.tile, cfg.TilePx)
	setInt("min-bucket", &opts.minBucket, cfg.MinBucket)
	setInt("rows", &opts.rows, cfg.Rows)
	setInt("cols", &opts.cols, cfg.Cols)
	setString("format", &opts.format, cfg.Format)
	setInt("workers", &opts.workers, cfg.Workers)

	setString("catalog", &opts.catalogBackend, cfg.Catalog.Backend)
	setString("mongo-uri", &opts.mongoURI, cfg.Catalog.URI)
	setString("mongo-database", &opts.mongoDatabase, cfg.Catalog.Database)
	setString("mongo-collection", &opts.mongoCollection, cfg.Catalog.Collection)

	setString("cache", &opts.cacheBackend, cfg.Cache.Backend)
	setString("redis-addr", &opts.redisAddr, cfg.Cache.RedisAddr)
	setString("redis-password", &opts.redisPassword, cfg.Cache.RedisPassword)
	setInt("redis-db", &opts.redisDB, cfg.Cache.RedisDB)
}

// buildSource constructs the catalog source for the selected backend.
// The returned closer releases backend connections; it is always non-nil.
func buildSource(ctx context.Context, opts *sourceOpts) (catalog.Source, func(context.Context) error, error) {
	switch opts.catalogBackend {
	case "mongo":
		src, err := catalog.NewMongoSource(ctx, opts.mongoURI, opts.mongoDatabase, opts.mongoCollection)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	case "json":
		if opts.inventory == "" {
			return nil, nil, fmt.Errorf("--inventory is required with the json catalog backend")
		}
		noop := func(context.Context) error { return nil }
		return catalog.NewFileSource(opts.inventory), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog backend: %s (must be 'json' or 'mongo')", opts.catalogBackend)
	}
}

// runGenerate wires the catalog, image store, and renderer together and
// executes one pipeline run.
func (c *CLI) runGenerate(ctx context.Context, opts *generateOpts) error {
	logger := loggerFromContext(ctx)

	source, closeSource, err := buildSource(ctx, &opts.sourceOpts)
	if err != nil {
		return err
	}
	defer closeSource(context.Background())

	thumbCache, err := newThumbCache(ctx, opts.cacheBackend, opts.redisAddr, opts.redisPassword, opts.redisDB)
	if err != nil {
		return fmt.Errorf("open thumbnail cache: %w", err)
	}
	defer thumbCache.Close()

	renderer, err := render.NewGridRenderer(opts.format)
	if err != nil {
		return err
	}

	store := imagestore.NewCachedStore(imagestore.NewDirStore(opts.imagesDir), thumbCache)
	runner := pipeline.NewRunner(source, store, renderer, logger)

	p := newProgress(logger)
	report, err := runner.Execute(ctx, pipeline.Options{
		Mode:      pipeline.Mode(opts.mode),
		OutputDir: opts.outputDir,
		TilePx:    opts.tile,
		MinBucket: opts.minBucket,
		Rows:      opts.rows,
		Cols:      opts.cols,
		Format:    opts.format,
		Workers:   opts.workers,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Rendered %d pages", len(report.Written)))

	printReport(report)
	return nil
}

// printReport summarizes a finished run on stdout.
func printReport(report *pipeline.Report) {
	printSuccess("Wrote %d of %d pages to disk", len(report.Written), report.Pages)
	for _, bucket := range report.Buckets {
		printDetail("%s: %d covers, %d pages", bucket.Label, bucket.Records, bucket.Pages)
	}
	for _, path := range report.Written {
		printFile(path)
	}

	parts := []string{
		fmt.Sprintf("%d records", report.Records),
		fmt.Sprintf("%d buckets", len(report.Buckets)),
	}
	if n := len(report.Missing); n > 0 {
		parts = append(parts, fmt.Sprintf("%d missing covers", n))
	}
	parts = append(parts, report.Elapsed.Round(10*time.Millisecond).String())
	parts = append(parts, "run "+report.RunID)
	printStats(parts...)

	if len(report.Missing) > 0 {
		printWarning("%d covers missing; placeholders rendered instead", len(report.Missing))
		for _, m := range report.Missing {
			printDetail("%s (%s)", m.RecordID, m.Ref)
		}
	}
	if report.PartialFailure() {
		printWarning("%d pages failed to render", len(report.Failed))
		for _, f := range report.Failed {
			printDetail("%s page %d: %s", f.Set, f.Page, f.Err)
		}
	}
}
