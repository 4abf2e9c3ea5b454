package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/lueurxax/news-medallion/internal/core/domain"
)

const daysPerWeek = 7

// Bucket formats the timeline bucket of a date: YYYY-MM-DD for daily,
// YYYY-Www for weekly and YYYY-MM for monthly. Weeks start on Monday; days
// before the first Monday of the year fall in week 00.
func Bucket(d time.Time, g domain.Granularity) string {
	switch g {
	case domain.GranularityWeekly:
		mondayIndex := (int(d.Weekday()) + daysPerWeek - 1) % daysPerWeek
		week := (d.YearDay() - 1 + daysPerWeek - mondayIndex) / daysPerWeek

		return fmt.Sprintf("%04d-W%02d", d.Year(), week)
	case domain.GranularityMonthly:
		return d.Format("2006-01")
	default:
		return d.Format(domain.DateLayout)
	}
}

// computeSentimentTimeline buckets dated articles by the chosen granularity,
// after applying the optional source and category filters.
func computeSentimentTimeline(articles []*domain.EnrichedArticle, opts Options, now time.Time) []domain.SentimentTimelineEntry {
	sourceLabel, categoryLabel := domain.FilterAll, domain.FilterAll
	if opts.SourceFilter != "" {
		sourceLabel = opts.SourceFilter
	}

	if opts.CategoryFilter != "" {
		categoryLabel = opts.CategoryFilter
	}

	buckets, groups := groupBy(articles, func(a *domain.EnrichedArticle) (string, bool) {
		if opts.SourceFilter != "" && sourceKey(a) != opts.SourceFilter {
			return "", false
		}

		if opts.CategoryFilter != "" && a.CategoryPrimary != opts.CategoryFilter {
			return "", false
		}

		return Bucket(a.Published.Date, opts.Granularity), true
	})
	sort.Strings(buckets)

	rows := make([]domain.SentimentTimelineEntry, 0, len(buckets))

	for _, bucket := range buckets {
		group := groups[bucket]

		var subjectivity moments
		for _, a := range group {
			subjectivity.add(a.SentimentSubjectivity)
		}

		polarity := polarityMoments(group)
		positive, negative, neutral := labelCounts(group)
		n := len(group)

		rows = append(rows, domain.SentimentTimelineEntry{
			Bucket:          bucket,
			Granularity:     opts.Granularity,
			SourceID:        sourceLabel,
			CategoryPrimary: categoryLabel,
			AvgPolarity:     polarity.mean(),
			AvgSubjectivity: subjectivity.mean(),
			MinPolarity:     polarity.min,
			MaxPolarity:     polarity.max,
			StdPolarity:     polarity.std(),
			PositivePct:     pct(positive, n),
			NegativePct:     pct(negative, n),
			NeutralPct:      pct(neutral, n),
			ArticleCount:    n,
			CalculatedAt:    now,
		})
	}

	return rows
}
