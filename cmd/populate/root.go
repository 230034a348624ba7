package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/config"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/logger"
	"github.com/soapbox/bible-verses/internal/processor"
	"github.com/soapbox/bible-verses/internal/provider"
	"github.com/soapbox/bible-verses/internal/translation"
)

// flags shared by populate and fix.
type runFlags struct {
	configPath   string
	databaseURL  string
	translations string
	books        string
	priorityOnly bool
	batchSize    int
	workers      int
	progress     bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	f := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "populate",
		Short: "Populate the Bible verse store",
		Long: "Populate writes one row per (reference, translation) for the selected books and translations.\n" +
			"Authored text is stored as authentic; every other verse gets placeholder text.\n" +
			"Runs are idempotent: rerunning updates rows in place.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context(), out, f, false)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Path to config file (yaml)")
	pf.StringVar(&f.databaseURL, "database-url", "", "SQLite path or postgres:// URL (overrides config)")
	pf.StringVarP(&f.translations, "translations", "t", "", "Comma-separated translation codes (default: all)")
	pf.StringVarP(&f.books, "books", "b", "", "Comma-separated book names (default: whole canon)")
	pf.IntVar(&f.batchSize, "batch-size", 0, "Rows per batch (0 = adaptive)")
	pf.IntVarP(&f.workers, "workers", "w", 0, "Number of concurrent workers (0 = number of CPUs)")
	pf.BoolVar(&f.progress, "progress", false, "Show progress bars")

	rootCmd.Flags().BoolVar(&f.priorityOnly, "priority-only", false, "Only populate authored and priority references")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:          "fix",
			Short:        "Replace placeholder rows with authored text",
			SilenceUsage: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runProcess(cmd.Context(), out, f, true)
			},
		},
		&cobra.Command{
			Use:          "stats",
			Short:        "Print store statistics",
			SilenceUsage: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runStats(cmd.Context(), out, f)
			},
		},
	)

	return rootCmd
}

// loadConfig merges the config file, environment and command-line flags.
func loadConfig(f *runFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.databaseURL != "" {
		cfg.Database.URL = f.databaseURL
	}
	if f.batchSize > 0 {
		cfg.Populate.BatchSize = f.batchSize
	}
	if f.workers > 0 {
		cfg.Populate.Workers = f.workers
	}
	if f.progress {
		cfg.Populate.Progress = true
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*database.DB, *database.Repository, error) {
	opts := database.DefaultOptions()
	opts.MaxOpenConns = cfg.Database.MaxOpenConns
	opts.MaxIdleConns = cfg.Database.MaxIdleConns
	opts.ConnMaxLifetime = cfg.Database.ConnMaxLifetime

	db, err := database.Open(cfg.Database.URL, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, database.NewRepository(db), nil
}

func parseOptions(f *runFlags) (processor.Options, error) {
	codes, err := translation.ParseList(f.translations)
	if err != nil {
		return processor.Options{}, err
	}

	var books []string
	for name := range strings.SplitSeq(f.books, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		b, err := canon.Default().Book(name)
		if err != nil {
			return processor.Options{}, err
		}
		books = append(books, b.Name)
	}

	return processor.Options{
		Translations: codes,
		Books:        books,
		PriorityOnly: f.priorityOnly,
	}, nil
}

func runProcess(ctx context.Context, out io.Writer, f *runFlags, fix bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	opts, err := parseOptions(f)
	if err != nil {
		return err
	}

	db, repo, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	prov, err := provider.New(canon.Default())
	if err != nil {
		return fmt.Errorf("failed to load provider: %w", err)
	}

	proc := processor.NewProcessor(repo, prov, cfg.Populate.Workers)
	proc.SetBatchSize(cfg.Populate.BatchSize)
	proc.SetProgress(cfg.Populate.Progress)

	logger.Info("Starting run",
		zap.Bool("fix", fix),
		zap.String("database", redactURL(cfg.Database.URL)),
		zap.Int("seed_version", prov.SeedVersion()),
		zap.Bool("priority_only", opts.PriorityOnly),
		zap.Strings("books", opts.Books),
	)

	var report *processor.Report
	if fix {
		report, err = proc.Fix(ctx, opts)
	} else {
		report, err = proc.Process(ctx, opts)
	}
	if report != nil {
		if rerr := renderReport(out, report); rerr != nil {
			logger.Warn("Failed to render report", zap.Error(rerr))
		}
	}
	if err != nil {
		return err
	}

	if !database.IsPostgres(cfg.Database.URL) && !fix {
		if err := db.Exec("ANALYZE").Error; err != nil {
			logger.Warn("Failed to analyze database", zap.Error(err))
		}
	}
	return nil
}

func runStats(ctx context.Context, out io.Writer, f *runFlags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	db, repo, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	stats, err := repo.GetStatistics(ctx)
	if err != nil {
		return err
	}
	return renderStats(out, stats)
}

// redactURL hides credentials in a postgres URL before logging it.
func redactURL(dsn string) string {
	if !database.IsPostgres(dsn) {
		return dsn
	}
	if at := strings.LastIndex(dsn, "@"); at >= 0 {
		if scheme := strings.Index(dsn, "://"); scheme >= 0 && scheme < at {
			return dsn[:scheme+3] + "***" + dsn[at:]
		}
	}
	return "postgres"
}
