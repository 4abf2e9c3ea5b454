package enrichment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/news-medallion/internal/core/domain"
	"github.com/lueurxax/news-medallion/internal/platform/observability"
	"github.com/lueurxax/news-medallion/internal/platform/worker"
)

// Repository is the storage the processor reads raw articles from and writes
// enriched articles to.
type Repository interface {
	// ListPendingRawArticles returns up to limit raw articles that have no
	// enriched record and whose id sorts after afterID, ordered by id.
	ListPendingRawArticles(ctx context.Context, afterID string, limit int) ([]domain.RawArticle, error)
	UpsertEnrichedArticle(ctx context.Context, article *domain.EnrichedArticle) error
	CountPendingRawArticles(ctx context.Context) (int64, error)
}

// ArticleEnricher builds the Silver record of one raw article.
type ArticleEnricher interface {
	Enrich(raw domain.RawArticle) (*domain.EnrichedArticle, error)
}

var _ ArticleEnricher = (*Enricher)(nil)

// Failure records one article that could not be enriched.
type Failure struct {
	ArticleID string
	Err       error
}

// Result summarizes one processor run.
type Result struct {
	Selected int
	Enriched int
	Failed   int
	Failures []Failure
}

// Processor enriches every raw article that has no Silver record yet.
type Processor struct {
	repo      Repository
	enricher  ArticleEnricher
	batchSize int
	logger    *zerolog.Logger
}

func NewProcessor(repo Repository, enricher ArticleEnricher, batchSize int, logger *zerolog.Logger) *Processor {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &Processor{
		repo:      repo,
		enricher:  enricher,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run pages through pending raw articles by id, so an article that fails is
// not selected again within the same run. A failing article is logged and
// skipped; only storage reads and context cancellation abort the run.
func (p *Processor) Run(ctx context.Context) (Result, error) {
	var (
		res    Result
		lastID string
	)

	for {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("enrichment run: %w", err)
		}

		batch, err := p.repo.ListPendingRawArticles(ctx, lastID, p.batchSize)
		if err != nil {
			return res, fmt.Errorf("list pending raw articles: %w", err)
		}

		if len(batch) == 0 {
			break
		}

		start := time.Now()

		for _, raw := range batch {
			if err := ctx.Err(); err != nil {
				return res, fmt.Errorf("enrichment run: %w", err)
			}

			lastID = raw.ArticleID
			res.Selected++

			if err := p.processOne(ctx, raw); err != nil {
				p.logger.Warn().Err(err).Str(logKeyArticleID, raw.ArticleID).Msg("article enrichment failed")
				observability.EnrichmentProcessed.WithLabelValues(observability.StatusFailed).Inc()

				res.Failed++
				res.Failures = append(res.Failures, Failure{ArticleID: raw.ArticleID, Err: err})

				continue
			}

			observability.EnrichmentProcessed.WithLabelValues(observability.StatusEnriched).Inc()

			res.Enriched++
		}

		observability.EnrichmentBatchDurationSeconds.Observe(time.Since(start).Seconds())

		if len(batch) < p.batchSize {
			break
		}
	}

	p.updateBacklog(ctx)

	p.logger.Info().
		Int(logKeySelected, res.Selected).
		Int(logKeyEnriched, res.Enriched).
		Int(logKeyFailed, res.Failed).
		Msg("enrichment run finished")

	return res, nil
}

func (p *Processor) processOne(ctx context.Context, raw domain.RawArticle) error {
	return worker.Guard(func() error {
		enriched, err := p.enricher.Enrich(raw)
		if err != nil {
			return err
		}

		if err := p.repo.UpsertEnrichedArticle(ctx, enriched); err != nil {
			return fmt.Errorf("upsert enriched article: %w", err)
		}

		return nil
	})
}

func (p *Processor) updateBacklog(ctx context.Context) {
	pending, err := p.repo.CountPendingRawArticles(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to count pending raw articles")
		return
	}

	observability.EnrichmentBacklog.Set(float64(pending))
}
