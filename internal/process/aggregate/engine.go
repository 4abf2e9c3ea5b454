package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/news-medallion/internal/core/domain"
	apperrors "github.com/lueurxax/news-medallion/internal/core/errors"
	"github.com/lueurxax/news-medallion/internal/core/vocabulary"
	"github.com/lueurxax/news-medallion/internal/platform/observability"
)

// Rollup names, used as Report keys, log fields and metric labels.
const (
	RollupDailySummary      = "daily_summary"
	RollupSourceStats       = "source_stats"
	RollupTrendingTopics    = "trending_topics"
	RollupSentimentTimeline = "sentiment_timeline"
	RollupCategoryMatrix    = "category_matrix"
)

const (
	logKeyRollup   = "rollup"
	logKeyRows     = "rows"
	logKeyArticles = "articles"
)

// Repository reads the Silver snapshot and upserts Gold rows by natural key.
// Each write returns the number of rows written. ReplaceTrendingTopics also
// drops terms of that day and type that are no longer ranked.
type Repository interface {
	ListEnrichedArticles(ctx context.Context) ([]domain.EnrichedArticle, error)
	UpsertDailySummaries(ctx context.Context, rows []domain.DailySummary) (int, error)
	UpsertSourceStats(ctx context.Context, rows []domain.SourceStats) (int, error)
	ReplaceTrendingTopics(ctx context.Context, day time.Time, termType string, rows []domain.TrendingTopic) (int, error)
	UpsertSentimentTimeline(ctx context.Context, rows []domain.SentimentTimelineEntry) (int, error)
	UpsertCategoryMatrix(ctx context.Context, rows []domain.CategoryMatrixEntry) (int, error)
}

// Report maps rollup names to rows written.
type Report map[string]int

// Total is the number of rows written across rollups.
func (r Report) Total() int {
	total := 0
	for _, n := range r {
		total += n
	}

	return total
}

// rollupFunc computes one rollup over a snapshot and upserts its rows.
type rollupFunc func(ctx context.Context, articles []*domain.EnrichedArticle, opts Options, now time.Time) (int, error)

// Engine computes the Gold rollups from one Silver snapshot.
type Engine struct {
	repo   Repository
	terms  *TermAnalyzer
	now    func() time.Time
	logger *zerolog.Logger
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithClock sets the source of calculated_at timestamps and of "today".
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(repo Repository, vocab *vocabulary.Vocabulary, logger *zerolog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		repo:   repo,
		terms:  NewTermAnalyzer(vocab),
		now:    time.Now,
		logger: logger,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

type namedRollup struct {
	name string
	run  rollupFunc
}

func (e *Engine) rollups() []namedRollup {
	return []namedRollup{
		{RollupDailySummary, e.dailySummary},
		{RollupSourceStats, e.sourceStats},
		{RollupTrendingTopics, e.trendingTopics},
		{RollupSentimentTimeline, e.sentimentTimeline},
		{RollupCategoryMatrix, e.categoryMatrix},
	}
}

// Run computes all five rollups over a single snapshot, in order. A failing
// rollup does not stop the others; their errors are joined.
func (e *Engine) Run(ctx context.Context, opts Options) (Report, error) {
	articles, opts, err := e.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	now := e.now().UTC()
	rollups := e.rollups()
	report := make(Report, len(rollups))

	var errs []error

	for _, r := range rollups {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("aggregate %s: %w", r.name, err))
			break
		}

		n, err := e.execute(ctx, r.name, r.run, articles, opts, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		report[r.name] = n
	}

	e.logger.Info().Int(logKeyRows, report.Total()).Int(logKeyArticles, len(articles)).Msg("aggregation finished")

	return report, apperrors.Join(errs...)
}

// DailySummary recomputes the daily summary rollup alone.
func (e *Engine) DailySummary(ctx context.Context, opts Options) (int, error) {
	return e.runSingle(ctx, RollupDailySummary, e.dailySummary, opts)
}

// SourceStats recomputes the per-source statistics alone.
func (e *Engine) SourceStats(ctx context.Context, opts Options) (int, error) {
	return e.runSingle(ctx, RollupSourceStats, e.sourceStats, opts)
}

// TrendingTopics recomputes the trending terms of one day alone.
func (e *Engine) TrendingTopics(ctx context.Context, opts Options) (int, error) {
	return e.runSingle(ctx, RollupTrendingTopics, e.trendingTopics, opts)
}

// SentimentTimeline recomputes the sentiment timeline alone.
func (e *Engine) SentimentTimeline(ctx context.Context, opts Options) (int, error) {
	return e.runSingle(ctx, RollupSentimentTimeline, e.sentimentTimeline, opts)
}

// CategoryMatrix recomputes the source by category matrix alone.
func (e *Engine) CategoryMatrix(ctx context.Context, opts Options) (int, error) {
	return e.runSingle(ctx, RollupCategoryMatrix, e.categoryMatrix, opts)
}

func (e *Engine) runSingle(ctx context.Context, name string, run rollupFunc, opts Options) (int, error) {
	articles, opts, err := e.prepare(ctx, opts)
	if err != nil {
		return 0, err
	}

	return e.execute(ctx, name, run, articles, opts, e.now().UTC())
}

func (e *Engine) prepare(ctx context.Context, opts Options) ([]*domain.EnrichedArticle, Options, error) {
	if err := opts.Validate(); err != nil {
		return nil, opts, err
	}

	snapshot, err := e.repo.ListEnrichedArticles(ctx)
	if err != nil {
		return nil, opts, fmt.Errorf("load enriched snapshot: %w", err)
	}

	return dated(snapshot), opts.withDefaults(), nil
}

func (e *Engine) execute(ctx context.Context, name string, run rollupFunc, articles []*domain.EnrichedArticle, opts Options, now time.Time) (int, error) {
	start := time.Now()

	n, err := run(ctx, articles, opts, now)

	observability.AggregateDurationSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		observability.AggregateFailures.WithLabelValues(name).Inc()
		e.logger.Error().Err(err).Str(logKeyRollup, name).Msg("rollup failed")

		return 0, fmt.Errorf("aggregate %s: %w", name, err)
	}

	observability.AggregateRowsWritten.WithLabelValues(name).Add(float64(n))
	e.logger.Info().Str(logKeyRollup, name).Int(logKeyRows, n).Msg("rollup written")

	return n, nil
}

func (e *Engine) dailySummary(ctx context.Context, articles []*domain.EnrichedArticle, opts Options, now time.Time) (int, error) {
	return e.repo.UpsertDailySummaries(ctx, computeDailySummaries(articles, opts, now))
}

func (e *Engine) sourceStats(ctx context.Context, articles []*domain.EnrichedArticle, opts Options, now time.Time) (int, error) {
	return e.repo.UpsertSourceStats(ctx, computeSourceStats(articles, opts, now))
}

func (e *Engine) trendingTopics(ctx context.Context, articles []*domain.EnrichedArticle, opts Options, now time.Time) (int, error) {
	day, ok := trendingDay(articles, opts)
	if !ok {
		return 0, nil
	}

	return e.repo.ReplaceTrendingTopics(ctx, day, domain.TermTypeWord, e.computeTrendingTopics(articles, opts, now))
}

func (e *Engine) sentimentTimeline(ctx context.Context, articles []*domain.EnrichedArticle, opts Options, now time.Time) (int, error) {
	return e.repo.UpsertSentimentTimeline(ctx, computeSentimentTimeline(articles, opts, now))
}

func (e *Engine) categoryMatrix(ctx context.Context, articles []*domain.EnrichedArticle, opts Options, now time.Time) (int, error) {
	return e.repo.UpsertCategoryMatrix(ctx, computeCategoryMatrix(articles, opts, now))
}
