package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lueurxax/news-medallion/internal/app"
	"github.com/lueurxax/news-medallion/internal/core/domain"
	"github.com/lueurxax/news-medallion/internal/platform/config"
	"github.com/lueurxax/news-medallion/internal/process/aggregate"
	db "github.com/lueurxax/news-medallion/internal/storage"
)

// aggregateFlags holds the aggregate command line options before they are
// turned into aggregate.Options.
type aggregateFlags struct {
	date        string
	periodStart string
	periodEnd   string
	topN        int
	granularity string
	source      string
	category    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}

		log.Fatalf("medallion: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "medallion",
		Short:         "Silver enrichment and Gold aggregation for captured news articles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), func(_ context.Context, _ *app.App, _ *zerolog.Logger) error {
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "enrich",
			Short: "Enrich every raw article that has no Silver record yet",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), runEnrich)
			},
		},
		newAggregateCmd(),
		&cobra.Command{
			Use:   "run",
			Short: "Run enrichment and then aggregation once",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), func(ctx context.Context, a *app.App, _ *zerolog.Logger) error {
					return a.RunPipeline(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "schedule",
			Short: "Run the pipeline on the configured cron schedule",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), func(ctx context.Context, a *app.App, _ *zerolog.Logger) error {
					return a.RunSchedule(ctx)
				})
			},
		},
	)

	return root
}

func newAggregateCmd() *cobra.Command {
	var flags aggregateFlags

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Recompute the Gold rollups from the Silver snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app.App, logger *zerolog.Logger) error {
				report, err := a.RunAggregation(ctx, opts)
				for name, rows := range report {
					logger.Info().Str("rollup", name).Int("rows", rows).Msg("rollup rows")
				}

				return err
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.date, "date", "", "day for the daily summary and trending terms")
	f.StringVar(&flags.periodStart, "period-start", "", "first day of the source stats and category matrix period")
	f.StringVar(&flags.periodEnd, "period-end", "", "last day of the source stats and category matrix period")
	f.IntVar(&flags.topN, "top-n", 0, "number of trending terms to keep (0 uses TRENDING_TOP_N)")
	f.StringVar(&flags.granularity, "granularity", "", "sentiment timeline granularity: daily, weekly or monthly")
	f.StringVar(&flags.source, "source", "", "restrict the sentiment timeline to one source id")
	f.StringVar(&flags.category, "category", "", "restrict the sentiment timeline to one category")

	return cmd
}

func (f aggregateFlags) options() (aggregate.Options, error) {
	opts := aggregate.Options{
		TopN:           f.topN,
		Granularity:    domain.Granularity(f.granularity),
		SourceFilter:   f.source,
		CategoryFilter: f.category,
	}

	for _, d := range []struct {
		name   string
		raw    string
		target *string
	}{
		{"date", f.date, &opts.Date},
		{"period-start", f.periodStart, &opts.PeriodStart},
		{"period-end", f.periodEnd, &opts.PeriodEnd},
	} {
		parsed, err := parseDateFlag(d.raw)
		if err != nil {
			return opts, fmt.Errorf("--%s: %w", d.name, err)
		}

		*d.target = parsed
	}

	return opts, opts.Validate()
}

// parseDateFlag accepts any date format dateparse understands and returns it
// as YYYY-MM-DD. Empty input stays empty.
func parseDateFlag(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", raw, err)
	}

	return t.Format(domain.DateLayout), nil
}

func runEnrich(ctx context.Context, a *app.App, logger *zerolog.Logger) error {
	res, err := a.RunEnrichment(ctx)

	logger.Info().
		Int("selected", res.Selected).
		Int("enriched", res.Enriched).
		Int("failed", res.Failed).
		Msg("enrichment summary")

	for _, f := range res.Failures {
		logger.Warn().Err(f.Err).Str("article_id", f.ArticleID).Msg("article not enriched")
	}

	return err
}

// withApp loads configuration, connects and migrates the database and hands
// the wired App to fn.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App, logger *zerolog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)

	poolOpts := db.PoolOptions{
		MaxConns:          cfg.Database.MaxConnections,
		MinConns:          cfg.Database.MinConnections,
		MaxConnIdleTime:   cfg.Database.MaxConnIdleTime,
		MaxConnLifetime:   cfg.Database.MaxConnLifetime,
		HealthCheckPeriod: cfg.Database.HealthCheckPeriod,
	}

	database, err := db.NewWithOptions(ctx, cfg.Database.PostgresDSN, poolOpts, &logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	application := app.New(cfg, database, &logger)

	if err := application.Migrate(ctx); err != nil {
		return err
	}

	if err := fn(ctx, application, &logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
		}

		return err
	}

	return nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.IsLocal() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(level).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}
