package aggregate

import (
	"sort"
	"time"

	"github.com/lueurxax/news-medallion/internal/core/domain"
)

type matrixKey struct {
	source   string
	category string
}

// computeCategoryMatrix counts every (source, category) pair in the resolved
// period. Source and category totals are grouped separately and used as the
// denominators of the two shares.
func computeCategoryMatrix(articles []*domain.EnrichedArticle, opts Options, now time.Time) []domain.CategoryMatrixEntry {
	start, end := resolvePeriod(opts, articles, now)
	inPeriod := within(articles, start, end)
	names := sourceNames(inPeriod)

	sourceTotals := make(map[string]int)
	categoryTotals := make(map[string]int)

	for _, a := range inPeriod {
		sourceTotals[sourceKey(a)]++
		categoryTotals[a.CategoryPrimary]++
	}

	keys, groups := groupBy(inPeriod, func(a *domain.EnrichedArticle) (matrixKey, bool) {
		return matrixKey{source: sourceKey(a), category: a.CategoryPrimary}, true
	})

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].source != keys[j].source {
			return keys[i].source < keys[j].source
		}

		return keys[i].category < keys[j].category
	})

	rows := make([]domain.CategoryMatrixEntry, 0, len(keys))

	for _, k := range keys {
		group := groups[k]
		polarity := polarityMoments(group)

		rows = append(rows, domain.CategoryMatrixEntry{
			PeriodStart:     start,
			PeriodEnd:       end,
			SourceID:        k.source,
			SourceName:      names[k.source],
			CategoryPrimary: k.category,
			ArticleCount:    len(group),
			PctOfSource:     pct(len(group), sourceTotals[k.source]),
			PctOfCategory:   pct(len(group), categoryTotals[k.category]),
			AvgSentiment:    polarity.mean(),
			CalculatedAt:    now,
		})
	}

	return rows
}
