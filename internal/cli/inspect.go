package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spinside/adsheet/pkg/config"
	"github.com/spinside/adsheet/pkg/pipeline"
)

// inspectCommand creates the inspect command for previewing genre buckets.
// It lists the catalog, runs bucketing and consolidation, and prints the
// result without rendering anything.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		srcOpts    sourceOpts
		minBucket  int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Preview genre buckets and consolidation without rendering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				if cfg.Inventory != "" && !flags.Changed("inventory") {
					srcOpts.inventory = cfg.Inventory
				}
				if cfg.MinBucket != 0 && !flags.Changed("min-bucket") {
					minBucket = cfg.MinBucket
				}
				if cfg.Catalog.Backend != "" && !flags.Changed("catalog") {
					srcOpts.catalogBackend = cfg.Catalog.Backend
				}
				if cfg.Catalog.URI != "" && !flags.Changed("mongo-uri") {
					srcOpts.mongoURI = cfg.Catalog.URI
				}
				if cfg.Catalog.Database != "" && !flags.Changed("mongo-database") {
					srcOpts.mongoDatabase = cfg.Catalog.Database
				}
				if cfg.Catalog.Collection != "" && !flags.Changed("mongo-collection") {
					srcOpts.mongoCollection = cfg.Catalog.Collection
				}
			}

			ctx := cmd.Context()
			source, closeSource, err := buildSource(ctx, &srcOpts)
			if err != nil {
				return err
			}
			defer closeSource(ctx)

			spinner := newSpinnerWithContext(ctx, "Reading catalog...")
			spinner.Start()
			records, err := source.List(ctx)
			spinner.Stop()
			if err != nil {
				return err
			}

			stats := pipeline.Inspect(records, minBucket)

			printInfo("%d records in %d buckets (min size %d)", len(records), len(stats), minBucket)
			printNewline()
			for _, stat := range stats {
				printKeyValue(stat.Label, fmt.Sprintf("%d records, %d artists", stat.Records, stat.Artists))
				if len(stat.Folded) > 0 {
					printDetail("folded in: %s", strings.Join(stat.Folded, ", "))
				}
			}
			printNewline()
			printNextStep("Render these buckets", appName+" generate --mode genre")
			return nil
		},
	}

	cmd.Flags().IntVar(&minBucket, "min-bucket", pipeline.DefaultMinBucket, "minimum genre bucket size before folding into Misc")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	addSourceFlags(cmd, &srcOpts)

	return cmd
}
