// Package cli implements the menuctl data tooling commands.
package cli

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-menu-service/config"
	catRepoPkg "github.com/fekuna/omnipos-menu-service/internal/category/repository"
	itemRepoPkg "github.com/fekuna/omnipos-menu-service/internal/menuitem/repository"
	"github.com/fekuna/omnipos-menu-service/internal/migration"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/database"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
)

// OpenFunc builds the migrator for one command run. The returned func
// releases whatever it opened.
type OpenFunc func(ctx context.Context, opts *RootOptions) (*migration.Migrator, func(), error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format    string // "json" | "text"
	BatchSize int
	Verbose   bool

	open OpenFunc
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(openFromEnv)
}

// NewRootCommandWith is NewRootCommand with a custom migrator source.
func NewRootCommandWith(open OpenFunc) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "menuctl",
		Short: "Menu data tooling",
		Long:  "One-off data tools for the menu store: seeding, CSV import, category remaps, price conversion, id migration and search reindexing.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().IntVar(&opts.BatchSize, "batch-size", migration.DefaultBatchSize, "writes per batch")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewImportCSVCommand(opts))
	cmd.AddCommand(NewRemapCommand(opts))
	cmd.AddCommand(NewConvertPricesCommand(opts))
	cmd.AddCommand(NewMigrateIDsCommand(opts))
	cmd.AddCommand(NewReindexSearchCommand(opts))

	return cmd
}

// withMigrator opens a migrator, runs fn and prints its report.
func withMigrator(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, m *migration.Migrator) (migration.Report, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	m, closeFn, err := opts.open(ctx, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	report, err := fn(ctx, m)
	if err != nil {
		return err
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := out.Report(report); err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d items failed", report.Failed, report.Processed)
	}
	return nil
}

func openFromEnv(ctx context.Context, opts *RootOptions) (*migration.Migrator, func(), error) {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log := logger.NewZapLogger(&logger.ZapLoggerConfig{
		Encoding:          "console",
		Level:             level,
		DisableCaller:     true,
		DisableStacktrace: true,
	})

	db, err := database.Open(ctx, &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		SQLitePath:      cfg.Database.SQLitePath,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	migOpts := []migration.Option{migration.WithBatchSize(opts.BatchSize)}
	closers := []func() error{db.Close}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		migOpts = append(migOpts, migration.WithPublisher(producer))
		closers = append(closers, producer.Close)
	}

	m := migration.New(catRepoPkg.NewSQLRepository(db), itemRepoPkg.NewSQLRepository(db), log, migOpts...)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("close failed", zap.Error(err))
			}
		}
		_ = log.Sync()
	}
	return m, cleanup, nil
}
