package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/news-medallion/internal/core/domain"
	"github.com/lueurxax/news-medallion/internal/core/vocabulary"
)

var testNow = time.Date(2026, 2, 12, 8, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}

	return d
}

type fixture struct {
	id, date, source, name, category, title string
	label                                   string
	polarity, subjectivity                  float64
	words, titleLen, contentLen             int
}

func (f fixture) article() domain.EnrichedArticle {
	a := domain.EnrichedArticle{
		ArticleID:             f.id,
		TitleClean:            f.title,
		SourceID:              f.source,
		SourceName:            f.name,
		CategoryPrimary:       f.category,
		SentimentPolarity:     f.polarity,
		SentimentSubjectivity: f.subjectivity,
		SentimentLabel:        f.label,
		WordCount:             f.words,
		TitleLength:           f.titleLen,
		ContentLength:         f.contentLen,
	}

	if f.date != "" {
		d := day(f.date)
		a.Published = domain.PublishDate{Valid: true, Date: d, Datetime: d, Year: d.Year(), Month: int(d.Month()), Day: d.Day()}
	}

	return a
}

// snapshot is a small Silver data set spanning three days and two named
// sources plus one article without a source and one without a date.
func snapshot() []domain.EnrichedArticle {
	fixtures := []fixture{
		{id: "a1", date: "2026-02-09", source: "publico", name: "Público", category: "sports", title: "Benfica vence clássico no Porto",
			label: domain.SentimentPositive, polarity: 0.5, subjectivity: 0.6, words: 100, titleLen: 31, contentLen: 500},
		{id: "a2", date: "2026-02-09", source: "publico", name: "Público", category: "sports", title: "Benfica prepara jogo europeu",
			label: domain.SentimentNeutral, polarity: 0, subjectivity: 0.2, words: 50, titleLen: 28},
		{id: "a3", date: "2026-02-09", category: "politics", title: "Governo aprova orçamento",
			label: domain.SentimentNegative, polarity: -0.4, subjectivity: 0.5, words: 80, titleLen: 24, contentLen: 200},
		{id: "a4", date: "2026-02-10", source: "publico", name: "Publico", category: "politics", title: "Parlamento debate orçamento",
			label: domain.SentimentPositive, polarity: 0.2, subjectivity: 0.4, words: 60, titleLen: 27, contentLen: 300},
		{id: "a5", date: "2026-02-11", source: "observador", name: "Observador", category: "sports", title: "Benfica perde em casa",
			label: domain.SentimentNegative, polarity: -0.2, subjectivity: 0.3, words: 40, titleLen: 21},
		{id: "a6", source: "publico", name: "Público", category: "sports", title: "Artigo sem data",
			label: domain.SentimentNeutral, words: 10, titleLen: 15},
	}

	out := make([]domain.EnrichedArticle, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, f.article())
	}

	return out
}

func testVocabulary(t *testing.T) *vocabulary.Vocabulary {
	t.Helper()

	v, err := vocabulary.Parse([]byte(`stopwords: [para, com, sem, the, and]`))
	require.NoError(t, err)

	return v
}

func newTestEngine(t *testing.T, repo Repository) *Engine {
	t.Helper()

	logger := zerolog.Nop()

	return NewEngine(repo, testVocabulary(t), &logger, WithClock(func() time.Time { return testNow }))
}

// memoryRepository upserts rows into maps keyed by their natural keys.
type memoryRepository struct {
	articles  []domain.EnrichedArticle
	listErr   error
	failOn    map[string]error
	listCalls int

	daily    map[string]domain.DailySummary
	sources  map[string]domain.SourceStats
	trending map[string]domain.TrendingTopic
	timeline map[string]domain.SentimentTimelineEntry
	matrix   map[string]domain.CategoryMatrixEntry
}

func newMemoryRepository(articles []domain.EnrichedArticle) *memoryRepository {
	return &memoryRepository{
		articles: articles,
		failOn:   make(map[string]error),
		daily:    make(map[string]domain.DailySummary),
		sources:  make(map[string]domain.SourceStats),
		trending: make(map[string]domain.TrendingTopic),
		timeline: make(map[string]domain.SentimentTimelineEntry),
		matrix:   make(map[string]domain.CategoryMatrixEntry),
	}
}

func (r *memoryRepository) ListEnrichedArticles(context.Context) ([]domain.EnrichedArticle, error) {
	r.listCalls++

	if r.listErr != nil {
		return nil, r.listErr
	}

	out := make([]domain.EnrichedArticle, len(r.articles))
	copy(out, r.articles)

	return out, nil
}

func upsertInto[T any](m map[string]T, rows []T, key func(T) string, err error) (int, error) {
	if err != nil {
		return 0, err
	}

	for _, row := range rows {
		m[key(row)] = row
	}

	return len(rows), nil
}

func (r *memoryRepository) UpsertDailySummaries(_ context.Context, rows []domain.DailySummary) (int, error) {
	return upsertInto(r.daily, rows, func(s domain.DailySummary) string {
		return s.Date.Format(domain.DateLayout) + "|" + s.SourceID + "|" + s.CategoryPrimary
	}, r.failOn[RollupDailySummary])
}

func (r *memoryRepository) UpsertSourceStats(_ context.Context, rows []domain.SourceStats) (int, error) {
	return upsertInto(r.sources, rows, func(s domain.SourceStats) string {
		return s.SourceID + "|" + s.PeriodStart.Format(domain.DateLayout) + "|" + s.PeriodEnd.Format(domain.DateLayout)
	}, r.failOn[RollupSourceStats])
}

func (r *memoryRepository) ReplaceTrendingTopics(_ context.Context, day time.Time, termType string, rows []domain.TrendingTopic) (int, error) {
	if err := r.failOn[RollupTrendingTopics]; err != nil {
		return 0, err
	}

	keep := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		keep[row.Term] = struct{}{}
	}

	for key, row := range r.trending {
		if !row.Date.Equal(day) || row.TermType != termType {
			continue
		}

		if _, ok := keep[row.Term]; !ok {
			delete(r.trending, key)
		}
	}

	return upsertInto(r.trending, rows, func(s domain.TrendingTopic) string {
		return s.Date.Format(domain.DateLayout) + "|" + s.Term + "|" + s.TermType
	}, nil)
}

func (r *memoryRepository) UpsertSentimentTimeline(_ context.Context, rows []domain.SentimentTimelineEntry) (int, error) {
	return upsertInto(r.timeline, rows, func(s domain.SentimentTimelineEntry) string {
		return s.Bucket + "|" + string(s.Granularity) + "|" + s.SourceID + "|" + s.CategoryPrimary
	}, r.failOn[RollupSentimentTimeline])
}

func (r *memoryRepository) UpsertCategoryMatrix(_ context.Context, rows []domain.CategoryMatrixEntry) (int, error) {
	return upsertInto(r.matrix, rows, func(s domain.CategoryMatrixEntry) string {
		return s.PeriodStart.Format(domain.DateLayout) + "|" + s.PeriodEnd.Format(domain.DateLayout) + "|" + s.SourceID + "|" + s.CategoryPrimary
	}, r.failOn[RollupCategoryMatrix])
}
