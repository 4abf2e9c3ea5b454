package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/news-medallion/internal/core/domain"
)

func TestComputeDailySummaries(t *testing.T) {
	rows := computeDailySummaries(dated(snapshot()), Options{}.withDefaults(), testNow)
	require.Len(t, rows, 4)

	first := rows[0]
	assert.Equal(t, day("2026-02-09"), first.Date)
	assert.Equal(t, "publico", first.SourceID)
	assert.Equal(t, "sports", first.CategoryPrimary)
	assert.Equal(t, 2, first.ArticleCount)
	assert.Equal(t, 1, first.UniqueSources)
	assert.Equal(t, 1, first.PositiveCount)
	assert.Equal(t, 0, first.NegativeCount)
	assert.Equal(t, 1, first.NeutralCount)
	assert.InDelta(t, 0.25, first.AvgSentimentPolarity, 1e-9)
	assert.InDelta(t, 0.4, first.AvgSentimentSubjectivity, 1e-9)
	assert.InDelta(t, 75, first.AvgWordCount, 1e-9)
	assert.Equal(t, 150, first.TotalWordCount)
	assert.Equal(t, testNow, first.CalculatedAt)

	unknown := rows[1]
	assert.Equal(t, domain.UnknownSource, unknown.SourceID)
	assert.Equal(t, "politics", unknown.CategoryPrimary)
	assert.Equal(t, 0, unknown.UniqueSources)

	assert.Equal(t, day("2026-02-10"), rows[2].Date)
	assert.Equal(t, "observador", rows[3].SourceID)
}

func TestComputeDailySummaries_DateFilter(t *testing.T) {
	rows := computeDailySummaries(dated(snapshot()), Options{Date: "2026-02-09"}.withDefaults(), testNow)
	require.Len(t, rows, 2)

	for _, r := range rows {
		assert.Equal(t, day("2026-02-09"), r.Date)
	}
}

func TestComputeSourceStats_AutoPeriod(t *testing.T) {
	rows := computeSourceStats(dated(snapshot()), Options{}.withDefaults(), testNow)
	require.Len(t, rows, 3)

	byID := make(map[string]domain.SourceStats, len(rows))
	for _, r := range rows {
		assert.Equal(t, day("2026-02-09"), r.PeriodStart)
		assert.Equal(t, day("2026-02-11"), r.PeriodEnd)

		byID[r.SourceID] = r
	}

	publico := byID["publico"]
	assert.Equal(t, "Público", publico.SourceName)
	assert.Equal(t, 3, publico.TotalArticles)
	assert.InDelta(t, 1.5, publico.ArticlesPerDay, 1e-9)
	assert.Equal(t, "politics,sports", publico.CategoriesCovered)
	assert.Equal(t, 2, publico.CategoryCount)
	assert.Equal(t, "sports", publico.PrimaryCategory)
	assert.InDelta(t, 0.7/3, publico.AvgSentimentPolarity, 1e-9)
	assert.InDelta(t, 0.205480, publico.SentimentStdDev, 1e-5)
	assert.InDelta(t, 86.0/3, publico.AvgTitleLength, 1e-9)
	assert.InDelta(t, 800.0/3, publico.AvgContentLength, 1e-9)
	assert.Equal(t, 2, publico.ArticlesWithContent)
	assert.InDelta(t, 2.0/3, publico.ContentRatio, 1e-9)

	observador := byID["observador"]
	assert.Equal(t, 1, observador.TotalArticles)
	assert.InDelta(t, 0.5, observador.ArticlesPerDay, 1e-9)
	assert.Zero(t, observador.SentimentStdDev)
	assert.Zero(t, observador.ContentRatio)

	assert.Contains(t, byID, domain.UnknownSource)
}

func TestComputeSourceStats_SingleDayPeriod(t *testing.T) {
	opts := Options{PeriodStart: "2026-02-09", PeriodEnd: "2026-02-09"}.withDefaults()

	rows := computeSourceStats(dated(snapshot()), opts, testNow)
	require.Len(t, rows, 2)

	assert.Equal(t, "publico", rows[0].SourceID)
	assert.Equal(t, 2, rows[0].TotalArticles)
	assert.InDelta(t, 2, rows[0].ArticlesPerDay, 1e-9)
	assert.Equal(t, domain.UnknownSource, rows[1].SourceID)
}

func TestComputeSourceStats_PrimaryCategoryTie(t *testing.T) {
	articles := []domain.EnrichedArticle{
		fixture{id: "x1", date: "2026-03-01", source: "s", category: "sports"}.article(),
		fixture{id: "x2", date: "2026-03-01", source: "s", category: "business"}.article(),
	}

	rows := computeSourceStats(dated(articles), Options{}.withDefaults(), testNow)
	require.Len(t, rows, 1)
	assert.Equal(t, "business", rows[0].PrimaryCategory)
	assert.Equal(t, "business,sports", rows[0].CategoriesCovered)
}

func TestComputeSourceStats_EmptySnapshotUsesToday(t *testing.T) {
	start, end := resolvePeriod(Options{}, nil, testNow)
	assert.Equal(t, day("2026-02-12"), start)
	assert.Equal(t, day("2026-02-12"), end)

	assert.Empty(t, computeSourceStats(nil, Options{}.withDefaults(), testNow))
}

func TestComputeTrendingTopics(t *testing.T) {
	e := newTestEngine(t, newMemoryRepository(nil))
	opts := Options{Date: "2026-02-09", TopN: 3}.withDefaults()

	rows := e.computeTrendingTopics(dated(snapshot()), opts, testNow)
	require.Len(t, rows, 3)

	top := rows[0]
	assert.Equal(t, "benfica", top.Term)
	assert.Equal(t, domain.TermTypeWord, top.TermType)
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, 2, top.Frequency)
	assert.Equal(t, 2, top.ArticleCount)
	assert.Equal(t, []string{"Benfica vence clássico no Porto", "Benfica prepara jogo europeu"}, top.SampleTitles)
	assert.Equal(t, []string{"publico"}, top.Sources)
	assert.Equal(t, []string{"sports"}, top.Categories)
	assert.InDelta(t, 0.25, top.AvgSentiment, 1e-9)
	assert.Equal(t, day("2026-02-09"), top.Date)

	assert.Equal(t, "aprova", rows[1].Term)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Empty(t, rows[1].Sources)
	assert.Equal(t, "clássico", rows[2].Term)
	assert.Equal(t, 3, rows[2].Rank)
}

func TestComputeTrendingTopics_DefaultsToLatestDate(t *testing.T) {
	e := newTestEngine(t, newMemoryRepository(nil))

	rows := e.computeTrendingTopics(dated(snapshot()), Options{}.withDefaults(), testNow)
	require.Len(t, rows, 3)

	terms := make([]string, 0, len(rows))
	for _, r := range rows {
		assert.Equal(t, day("2026-02-11"), r.Date)
		terms = append(terms, r.Term)
	}

	assert.Equal(t, []string{"benfica", "casa", "perde"}, terms)
}

func TestComputeTrendingTopics_ArticleLevelCounts(t *testing.T) {
	e := newTestEngine(t, newMemoryRepository(nil))
	articles := []domain.EnrichedArticle{
		fixture{id: "r1", date: "2026-03-01", title: "Greve greve GREVE nacional"}.article(),
		fixture{id: "r2", date: "2026-03-01", title: "Nacional marca greve"}.article(),
	}

	rows := e.computeTrendingTopics(dated(articles), Options{}.withDefaults(), testNow)
	require.Len(t, rows, 3)

	assert.Equal(t, "greve", rows[0].Term)
	assert.Equal(t, 2, rows[0].Frequency)
	assert.Equal(t, "nacional", rows[1].Term)
	assert.Equal(t, 2, rows[1].Frequency)
	assert.Equal(t, "marca", rows[2].Term)
	assert.Equal(t, 1, rows[2].Frequency)
}

func TestComputeTrendingTopics_NoDatedArticles(t *testing.T) {
	e := newTestEngine(t, newMemoryRepository(nil))
	assert.Empty(t, e.computeTrendingTopics(nil, Options{}.withDefaults(), testNow))
}

func TestBucket(t *testing.T) {
	tests := []struct {
		date        string
		granularity domain.Granularity
		want        string
	}{
		{"2024-12-31", domain.GranularityDaily, "2024-12-31"},
		{"2024-12-31", domain.GranularityMonthly, "2024-12"},
		{"2024-12-31", domain.GranularityWeekly, "2024-W53"},
		{"2024-01-01", domain.GranularityWeekly, "2024-W01"},
		{"2023-01-01", domain.GranularityWeekly, "2023-W00"},
		{"2023-01-02", domain.GranularityWeekly, "2023-W01"},
		{"2026-02-09", domain.GranularityWeekly, "2026-W06"},
		{"2026-02-15", domain.GranularityWeekly, "2026-W06"},
		{"2026-02-16", domain.GranularityWeekly, "2026-W07"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Bucket(day(tt.date), tt.granularity), "%s %s", tt.date, tt.granularity)
	}
}

func TestComputeSentimentTimeline(t *testing.T) {
	rows := computeSentimentTimeline(dated(snapshot()), Options{}.withDefaults(), testNow)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, "2026-02-09", first.Bucket)
	assert.Equal(t, domain.GranularityDaily, first.Granularity)
	assert.Equal(t, domain.FilterAll, first.SourceID)
	assert.Equal(t, domain.FilterAll, first.CategoryPrimary)
	assert.Equal(t, 3, first.ArticleCount)
	assert.InDelta(t, 0.1/3, first.AvgPolarity, 1e-9)
	assert.InDelta(t, -0.4, first.MinPolarity, 1e-9)
	assert.InDelta(t, 0.5, first.MaxPolarity, 1e-9)
	assert.InDelta(t, 100.0/3, first.PositivePct, 1e-9)

	for _, r := range rows {
		assert.LessOrEqual(t, r.MinPolarity, r.AvgPolarity)
		assert.LessOrEqual(t, r.AvgPolarity, r.MaxPolarity)
		assert.InDelta(t, 100, r.PositivePct+r.NegativePct+r.NeutralPct, 1)
		assert.GreaterOrEqual(t, r.StdPolarity, 0.0)
	}
}

func TestComputeSentimentTimeline_Granularity(t *testing.T) {
	weekly := computeSentimentTimeline(dated(snapshot()), Options{Granularity: domain.GranularityWeekly}.withDefaults(), testNow)
	require.Len(t, weekly, 1)
	assert.Equal(t, "2026-W06", weekly[0].Bucket)
	assert.Equal(t, 5, weekly[0].ArticleCount)

	monthly := computeSentimentTimeline(dated(snapshot()), Options{Granularity: domain.GranularityMonthly}.withDefaults(), testNow)
	require.Len(t, monthly, 1)
	assert.Equal(t, "2026-02", monthly[0].Bucket)
	assert.Equal(t, domain.GranularityMonthly, monthly[0].Granularity)
}

func TestComputeSentimentTimeline_Filters(t *testing.T) {
	rows := computeSentimentTimeline(dated(snapshot()), Options{SourceFilter: "publico"}.withDefaults(), testNow)
	require.Len(t, rows, 2)

	for _, r := range rows {
		assert.Equal(t, "publico", r.SourceID)
		assert.Equal(t, domain.FilterAll, r.CategoryPrimary)
	}

	assert.Equal(t, 2, rows[0].ArticleCount)

	rows = computeSentimentTimeline(dated(snapshot()), Options{SourceFilter: "publico", CategoryFilter: "politics"}.withDefaults(), testNow)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-02-10", rows[0].Bucket)
	assert.Equal(t, "politics", rows[0].CategoryPrimary)

	rows = computeSentimentTimeline(dated(snapshot()), Options{SourceFilter: domain.UnknownSource}.withDefaults(), testNow)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].ArticleCount)
}

func TestComputeCategoryMatrix(t *testing.T) {
	rows := computeCategoryMatrix(dated(snapshot()), Options{}.withDefaults(), testNow)
	require.Len(t, rows, 4)

	want := []struct {
		source, category string
		count            int
		pctSource        float64
		pctCategory      float64
	}{
		{"observador", "sports", 1, 100, 100.0 / 3},
		{"publico", "politics", 1, 100.0 / 3, 50},
		{"publico", "sports", 2, 200.0 / 3, 200.0 / 3},
		{domain.UnknownSource, "politics", 1, 100, 50},
	}

	for i, w := range want {
		r := rows[i]
		assert.Equal(t, w.source, r.SourceID)
		assert.Equal(t, w.category, r.CategoryPrimary)
		assert.Equal(t, w.count, r.ArticleCount)
		assert.InDelta(t, w.pctSource, r.PctOfSource, 1e-9)
		assert.InDelta(t, w.pctCategory, r.PctOfCategory, 1e-9)
		assert.Equal(t, day("2026-02-09"), r.PeriodStart)
		assert.Equal(t, day("2026-02-11"), r.PeriodEnd)
	}

	assert.Equal(t, "Público", rows[1].SourceName)

	perSource := make(map[string]float64)
	for _, r := range rows {
		assert.Greater(t, r.PctOfSource, 0.0)
		perSource[r.SourceID] += r.PctOfSource
	}

	for source, total := range perSource {
		assert.InDelta(t, 100, total, 1e-9, source)
	}
}

func TestComputeCategoryMatrix_ExplicitPeriod(t *testing.T) {
	opts := Options{PeriodStart: "2026-02-10", PeriodEnd: "2026-02-11"}.withDefaults()

	rows := computeCategoryMatrix(dated(snapshot()), opts, testNow)
	require.Len(t, rows, 2)

	for _, r := range rows {
		assert.InDelta(t, 100, r.PctOfSource, 1e-9)
		assert.InDelta(t, 100, r.PctOfCategory, 1e-9)
		assert.True(t, r.PeriodStart.Equal(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)))
	}
}
