// Package app provides the main application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// the operational modes of the medallion pipeline:
//
//   - Enrich: Silver stage, turns pending raw articles into enriched records
//   - Aggregate: Gold stage, recomputes the rollups from the Silver snapshot
//   - Pipeline: both stages in order under the run lock
//   - Schedule: the pipeline on a cron schedule with health and metrics endpoints
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lueurxax/news-medallion/internal/core/domain"
	"github.com/lueurxax/news-medallion/internal/core/vocabulary"
	"github.com/lueurxax/news-medallion/internal/platform/config"
	"github.com/lueurxax/news-medallion/internal/platform/observability"
	"github.com/lueurxax/news-medallion/internal/process/aggregate"
	"github.com/lueurxax/news-medallion/internal/process/enrichment"
	db "github.com/lueurxax/news-medallion/internal/storage"
)

const (
	logFieldRunID = "run_id"
	logFieldStage = "stage"

	stageEnrich    = "enrich"
	stageAggregate = "aggregate"
	stagePipeline  = "pipeline"

	runStatusSuccess = "success"
	runStatusFailed  = "failed"
	runStatusSkipped = "skipped"
)

var (
	_ enrichment.Repository = (*db.DB)(nil)
	_ aggregate.Repository  = (*db.DB)(nil)
)

// App holds the application dependencies and provides methods to run different modes.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger

	vocabulary func() (*vocabulary.Vocabulary, error)
	detector   func() (enrichment.LanguageDetector, error)
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	a := &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}

	a.vocabulary = sync.OnceValues(func() (*vocabulary.Vocabulary, error) {
		return loadVocabulary(cfg.Enrichment.VocabularyFile)
	})
	a.detector = sync.OnceValues(func() (enrichment.LanguageDetector, error) {
		return newDetector(cfg.Enrichment.DetectLanguages)
	})

	return a
}

func loadVocabulary(path string) (*vocabulary.Vocabulary, error) {
	if path == "" {
		return vocabulary.Default(), nil
	}

	v, err := vocabulary.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	return v, nil
}

// newDetector returns a nil detector when no languages are configured, which
// disables detection.
func newDetector(codes []string) (enrichment.LanguageDetector, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	d, err := enrichment.NewLinguaDetector(codes)
	if err != nil {
		return nil, fmt.Errorf("build language detector: %w", err)
	}

	return d, nil
}

// Migrate applies the embedded schema migrations.
func (a *App) Migrate(ctx context.Context) error {
	if err := a.database.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}

// RunEnrichment enriches the full backlog under the run lock.
func (a *App) RunEnrichment(ctx context.Context) (enrichment.Result, error) {
	var res enrichment.Result

	err := a.database.WithAdvisoryLock(ctx, a.cfg.Pipeline.LockID, func(ctx context.Context) error {
		var err error

		res, err = a.enrich(ctx, a.logger)

		return err
	})

	return res, err
}

// RunAggregation recomputes the Gold rollups under the run lock. Zero TopN
// and Granularity fall back to the configured defaults.
func (a *App) RunAggregation(ctx context.Context, opts aggregate.Options) (aggregate.Report, error) {
	var report aggregate.Report

	err := a.database.WithAdvisoryLock(ctx, a.cfg.Pipeline.LockID, func(ctx context.Context) error {
		var err error

		report, err = a.aggregate(ctx, opts, a.logger)

		return err
	})

	return report, err
}

// RunPipeline runs enrichment over the whole backlog and then aggregation,
// holding the run lock for both.
func (a *App) RunPipeline(ctx context.Context) error {
	runID := uuid.NewString()
	logger := a.logger.With().Str(logFieldRunID, runID).Logger()
	start := time.Now()

	logger.Info().Msg("pipeline run started")

	err := a.database.WithAdvisoryLock(ctx, a.cfg.Pipeline.LockID, func(ctx context.Context) error {
		if _, err := a.enrich(ctx, &logger); err != nil {
			return err
		}

		_, err := a.aggregate(ctx, aggregate.Options{}, &logger)

		return err
	})

	switch {
	case err == nil:
		observability.PipelineRuns.WithLabelValues(runStatusSuccess).Inc()
		observability.PipelineLastSuccess.SetToCurrentTime()
		logger.Info().Dur("duration", time.Since(start)).Msg("pipeline run finished")
	case isLockHeld(err):
		observability.PipelineRuns.WithLabelValues(runStatusSkipped).Inc()
		logger.Warn().Msg("pipeline run skipped, another run holds the lock")
	default:
		observability.PipelineRuns.WithLabelValues(runStatusFailed).Inc()
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("pipeline run failed")
	}

	return err
}

func (a *App) enrich(ctx context.Context, logger *zerolog.Logger) (enrichment.Result, error) {
	vocab, err := a.vocabulary()
	if err != nil {
		return enrichment.Result{}, err
	}

	detector, err := a.detector()
	if err != nil {
		return enrichment.Result{}, err
	}

	stageLogger := logger.With().Str(logFieldStage, stageEnrich).Logger()
	processor := enrichment.NewProcessor(
		a.database,
		enrichment.NewEnricher(vocab, detector),
		a.cfg.Enrichment.BatchSize,
		&stageLogger,
	)

	res, err := processor.Run(ctx)
	if err != nil {
		return res, fmt.Errorf("enrichment: %w", err)
	}

	return res, nil
}

func (a *App) aggregate(ctx context.Context, opts aggregate.Options, logger *zerolog.Logger) (aggregate.Report, error) {
	vocab, err := a.vocabulary()
	if err != nil {
		return nil, err
	}

	stageLogger := logger.With().Str(logFieldStage, stageAggregate).Logger()
	engine := aggregate.NewEngine(a.database, vocab, &stageLogger)

	report, err := engine.Run(ctx, a.withConfigDefaults(opts))
	if err != nil {
		return report, fmt.Errorf("aggregation: %w", err)
	}

	return report, nil
}

func (a *App) withConfigDefaults(opts aggregate.Options) aggregate.Options {
	if opts.TopN == 0 {
		opts.TopN = a.cfg.Aggregation.TrendingTopN
	}

	if opts.Granularity == "" {
		opts.Granularity = domain.Granularity(a.cfg.Aggregation.TimelineGranularity)
	}

	return opts
}

// StartHealthServer starts the health check and metrics server.
func (a *App) StartHealthServer(ctx context.Context) error {
	srv := observability.NewServer(a.database, a.cfg.HealthPort, a.logger)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("health server start: %w", err)
	}

	return nil
}
