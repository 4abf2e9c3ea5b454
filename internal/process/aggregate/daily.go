package aggregate

import (
	"sort"
	"time"

	"github.com/lueurxax/news-medallion/internal/core/domain"
)

type dailyKey struct {
	date     time.Time
	source   string
	category string
}

// computeDailySummaries groups dated articles by (date, source, category),
// optionally restricted to one date.
func computeDailySummaries(articles []*domain.EnrichedArticle, opts Options, now time.Time) []domain.DailySummary {
	only, filtered := opts.date()

	keys, groups := groupBy(articles, func(a *domain.EnrichedArticle) (dailyKey, bool) {
		if filtered && !a.Published.Date.Equal(only) {
			return dailyKey{}, false
		}

		return dailyKey{date: a.Published.Date, source: sourceKey(a), category: a.CategoryPrimary}, true
	})

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}

		if a.source != b.source {
			return a.source < b.source
		}

		return a.category < b.category
	})

	rows := make([]domain.DailySummary, 0, len(keys))

	for _, k := range keys {
		group := groups[k]

		var (
			subjectivity moments
			words        int
			sources      []string
		)

		for _, a := range group {
			subjectivity.add(a.SentimentSubjectivity)
			words += a.WordCount
			sources = append(sources, a.SourceID)
		}

		polarity := polarityMoments(group)
		positive, negative, neutral := labelCounts(group)

		rows = append(rows, domain.DailySummary{
			Date:                     k.date,
			SourceID:                 k.source,
			CategoryPrimary:          k.category,
			ArticleCount:             len(group),
			UniqueSources:            len(sortedDistinct(sources)),
			AvgSentimentPolarity:     polarity.mean(),
			AvgSentimentSubjectivity: subjectivity.mean(),
			PositiveCount:            positive,
			NegativeCount:            negative,
			NeutralCount:             neutral,
			AvgWordCount:             float64(words) / float64(len(group)),
			TotalWordCount:           words,
			CalculatedAt:             now,
		})
	}

	return rows
}
