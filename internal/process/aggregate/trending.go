package aggregate

import (
	"sort"
	"time"

	"github.com/lueurxax/news-medallion/internal/core/domain"
)

const maxSampleTitles = 5

// trendingDay is the Date option or, when unset, the latest publish date
// present.
func trendingDay(articles []*domain.EnrichedArticle, opts Options) (time.Time, bool) {
	if day, ok := opts.date(); ok {
		return day, true
	}

	_, latest, found := dateRange(articles)

	return latest, found
}

// computeTrendingTopics ranks the title terms of the trending day. A term
// counts once per article. Ties in frequency are broken alphabetically.
func (e *Engine) computeTrendingTopics(articles []*domain.EnrichedArticle, opts Options, now time.Time) []domain.TrendingTopic {
	day, ok := trendingDay(articles, opts)
	if !ok {
		return nil
	}

	contributors := make(map[string][]*domain.EnrichedArticle)

	for _, a := range articles {
		if !a.Published.Date.Equal(day) {
			continue
		}

		seen := make(map[string]struct{})

		for _, term := range e.terms.Terms(a.TitleClean) {
			if _, dup := seen[term]; dup {
				continue
			}

			seen[term] = struct{}{}
			contributors[term] = append(contributors[term], a)
		}
	}

	terms := make([]string, 0, len(contributors))
	for term := range contributors {
		terms = append(terms, term)
	}

	sort.Slice(terms, func(i, j int) bool {
		fi, fj := len(contributors[terms[i]]), len(contributors[terms[j]])
		if fi != fj {
			return fi > fj
		}

		return terms[i] < terms[j]
	})

	if len(terms) > opts.TopN {
		terms = terms[:opts.TopN]
	}

	rows := make([]domain.TrendingTopic, 0, len(terms))

	for i, term := range terms {
		group := contributors[term]

		samples := make([]string, 0, maxSampleTitles)
		sources := make([]string, 0, len(group))
		categories := make([]string, 0, len(group))

		for _, a := range group {
			if len(samples) < maxSampleTitles {
				samples = append(samples, a.TitleClean)
			}

			sources = append(sources, a.SourceID)
			categories = append(categories, a.CategoryPrimary)
		}

		polarity := polarityMoments(group)

		rows = append(rows, domain.TrendingTopic{
			Date:         day,
			Term:         term,
			TermType:     domain.TermTypeWord,
			Frequency:    len(group),
			ArticleCount: len(group),
			SampleTitles: samples,
			Sources:      sortedDistinct(sources),
			Categories:   sortedDistinct(categories),
			AvgSentiment: round4(polarity.mean()),
			Rank:         i + 1,
			CalculatedAt: now,
		})
	}

	return rows
}
