package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fekuna/omnipos-menu-service/config"
	"github.com/fekuna/omnipos-menu-service/internal/migration"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/search"
)

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed-categories",
		Short: "Create the starter category tree",
		Long: `Create the default Food, Beverages and Desserts categories, or the
categories listed in a YAML file. Categories whose id already exists are
left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := migration.DefaultCategories()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				if seed, err = migration.LoadSeed(f); err != nil {
					return err
				}
			}
			return withMigrator(cmd, rootOpts, func(ctx context.Context, m *migration.Migrator) (migration.Report, error) {
				return m.SeedCategories(ctx, seed)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML category tree to seed instead of the defaults")
	return cmd
}

func NewImportCSVCommand(rootOpts *RootOptions) *cobra.Command {
	var mapFile string

	cmd := &cobra.Command{
		Use:   "import-csv <file.csv>",
		Short: "Import menu items from a name,category,price file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := migration.ParseCSV(f)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("no valid items found in %s", args[0])
			}

			var mapping map[string]string
			if mapFile != "" {
				if mapping, err = readMapping(mapFile); err != nil {
					return err
				}
			}
			return withMigrator(cmd, rootOpts, func(ctx context.Context, m *migration.Migrator) (migration.Report, error) {
				return m.ImportCSV(ctx, rows, mapping)
			})
		},
	}

	cmd.Flags().StringVarP(&mapFile, "map", "m", "", "YAML map from CSV category to category key")
	return cmd
}

func NewRemapCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remap-categories <map.yaml>",
		Short: "Rewrite item category keys using a from: to map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := readMapping(args[0])
			if err != nil {
				return err
			}
			return withMigrator(cmd, rootOpts, func(ctx context.Context, m *migration.Migrator) (migration.Report, error) {
				return m.RemapCategories(ctx, mapping)
			})
		},
	}
}

func NewConvertPricesCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		rate   float64
		step   float64
		source string
	)

	cmd := &cobra.Command{
		Use:   "convert-prices",
		Short: "Convert prices to another currency unit",
		Long: `Multiply each price by --rate and round to the nearest --step. The old
price is kept as originalPrice and items that already have one are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, rootOpts, func(ctx context.Context, m *migration.Migrator) (migration.Report, error) {
				return m.ConvertPrices(ctx, rate, step, source)
			})
		},
	}

	cmd.Flags().Float64Var(&rate, "rate", migration.DefaultPriceRate, "multiplier")
	cmd.Flags().Float64Var(&step, "step", migration.DefaultPriceStep, "round to the nearest multiple of this")
	cmd.Flags().StringVar(&source, "source", migration.SourceCSVImport, "only convert items with this source; empty converts all")
	return cmd
}

func NewMigrateIDsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-ids",
		Short: "Rename items with generated ids to name-derived ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, rootOpts, func(ctx context.Context, m *migration.Migrator) (migration.Report, error) {
				return m.MigrateIDs(ctx)
			})
		},
	}
}

func NewReindexSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex-search",
		Short: "Copy every menu item into the Elasticsearch index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg := config.LoadEnv()
			if len(cfg.Elastic.Addresses) == 0 {
				return fmt.Errorf("ELASTICSEARCH_ADDRESSES is not set")
			}
			es, err := search.NewClient(&search.Config{
				Addresses: cfg.Elastic.Addresses,
				Username:  cfg.Elastic.Username,
				Password:  cfg.Elastic.Password,
			})
			if err != nil {
				return fmt.Errorf("connect elasticsearch: %w", err)
			}
			return withMigrator(cmd, rootOpts, func(ctx context.Context, m *migration.Migrator) (migration.Report, error) {
				return m.ReindexSearch(ctx, es, cfg.Elastic.Index)
			})
		},
	}
}

func readMapping(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return migration.LoadMapping(f)
}
