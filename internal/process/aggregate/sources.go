package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/lueurxax/news-medallion/internal/core/domain"
)

// computeSourceStats summarizes each source over the resolved period.
func computeSourceStats(articles []*domain.EnrichedArticle, opts Options, now time.Time) []domain.SourceStats {
	start, end := resolvePeriod(opts, articles, now)
	inPeriod := within(articles, start, end)
	days := spanDays(start, end)
	names := sourceNames(inPeriod)

	keys, groups := groupBy(inPeriod, func(a *domain.EnrichedArticle) (string, bool) {
		return sourceKey(a), true
	})
	sort.Strings(keys)

	rows := make([]domain.SourceStats, 0, len(keys))

	for _, source := range keys {
		group := groups[source]

		var (
			titleLen, contentLen moments
			withContent          int
		)

		categoryCounts := make(map[string]int)

		for _, a := range group {
			categoryCounts[a.CategoryPrimary]++
			titleLen.add(float64(a.TitleLength))
			contentLen.add(float64(a.ContentLength))

			if a.ContentLength > 0 {
				withContent++
			}
		}

		categories := make([]string, 0, len(categoryCounts))
		for c := range categoryCounts {
			categories = append(categories, c)
		}

		sort.Strings(categories)

		polarity := polarityMoments(group)
		total := len(group)

		rows = append(rows, domain.SourceStats{
			SourceID:             source,
			SourceName:           names[source],
			PeriodStart:          start,
			PeriodEnd:            end,
			TotalArticles:        total,
			ArticlesPerDay:       float64(total) / float64(days),
			CategoriesCovered:    strings.Join(categories, ","),
			CategoryCount:        len(categories),
			PrimaryCategory:      dominantCategory(categories, categoryCounts),
			AvgSentimentPolarity: polarity.mean(),
			SentimentStdDev:      polarity.std(),
			AvgTitleLength:       titleLen.mean(),
			AvgContentLength:     contentLen.mean(),
			ArticlesWithContent:  withContent,
			ContentRatio:         float64(withContent) / float64(total),
			CalculatedAt:         now,
		})
	}

	return rows
}

// dominantCategory picks the most frequent category; sorted input makes the
// alphabetically first one win ties.
func dominantCategory(sorted []string, counts map[string]int) string {
	best, bestCount := "", -1

	for _, c := range sorted {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}

	return best
}
