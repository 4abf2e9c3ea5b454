package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/lueurxax/news-medallion/internal/core/domain"
)

const (
	hoursPerDay = 24
	percent     = 100
	precision   = 10000
)

// sourceKey is the source id used in aggregate keys.
func sourceKey(a *domain.EnrichedArticle) string {
	if a.SourceID == "" {
		return domain.UnknownSource
	}

	return a.SourceID
}

// groupBy buckets articles by key and returns the keys in first-seen order.
// Articles for which key reports false are skipped.
func groupBy[K comparable](articles []*domain.EnrichedArticle, key func(*domain.EnrichedArticle) (K, bool)) ([]K, map[K][]*domain.EnrichedArticle) {
	var order []K

	groups := make(map[K][]*domain.EnrichedArticle)

	for _, a := range articles {
		k, ok := key(a)
		if !ok {
			continue
		}

		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}

		groups[k] = append(groups[k], a)
	}

	return order, groups
}

// moments accumulates a sample for mean, min, max and population standard
// deviation.
type moments struct {
	n        int
	sum      float64
	sumSq    float64
	min, max float64
}

func (m *moments) add(x float64) {
	if m.n == 0 || x < m.min {
		m.min = x
	}

	if m.n == 0 || x > m.max {
		m.max = x
	}

	m.n++
	m.sum += x
	m.sumSq += x * x
}

func (m *moments) mean() float64 {
	if m.n == 0 {
		return 0
	}

	return m.sum / float64(m.n)
}

// std is sqrt(E[x²] - E[x]²), clamped at zero against rounding error.
func (m *moments) std() float64 {
	if m.n == 0 {
		return 0
	}

	mean := m.mean()

	return math.Sqrt(math.Max(0, m.sumSq/float64(m.n)-mean*mean))
}

func polarityMoments(articles []*domain.EnrichedArticle) moments {
	var m moments
	for _, a := range articles {
		m.add(a.SentimentPolarity)
	}

	return m
}

func labelCounts(articles []*domain.EnrichedArticle) (positive, negative, neutral int) {
	for _, a := range articles {
		switch a.SentimentLabel {
		case domain.SentimentPositive:
			positive++
		case domain.SentimentNegative:
			negative++
		default:
			neutral++
		}
	}

	return positive, negative, neutral
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(part) * percent / float64(total)
}

func round4(v float64) float64 {
	return math.Round(v*precision) / precision
}

// dated keeps the articles with a publish date, optionally within [start, end].
func dated(articles []domain.EnrichedArticle) []*domain.EnrichedArticle {
	out := make([]*domain.EnrichedArticle, 0, len(articles))

	for i := range articles {
		if articles[i].Published.Valid {
			out = append(out, &articles[i])
		}
	}

	return out
}

func within(articles []*domain.EnrichedArticle, start, end time.Time) []*domain.EnrichedArticle {
	out := make([]*domain.EnrichedArticle, 0, len(articles))

	for _, a := range articles {
		d := a.Published.Date
		if !d.Before(start) && !d.After(end) {
			out = append(out, a)
		}
	}

	return out
}

// dateRange returns the earliest and latest publish dates. ok is false when
// no article is dated.
func dateRange(articles []*domain.EnrichedArticle) (minDate, maxDate time.Time, ok bool) {
	for _, a := range articles {
		d := a.Published.Date

		if !ok || d.Before(minDate) {
			minDate = d
		}

		if !ok || d.After(maxDate) {
			maxDate = d
		}

		ok = true
	}

	return minDate, maxDate, ok
}

// resolvePeriod uses the explicit period when set, else the data range, else
// the day of now.
func resolvePeriod(opts Options, articles []*domain.EnrichedArticle, now time.Time) (start, end time.Time) {
	if start, end, ok := opts.period(); ok {
		return start, end
	}

	if start, end, ok := dateRange(articles); ok {
		return start, end
	}

	today := truncateDay(now)

	return today, today
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// spanDays is the whole number of days from start to end, at least one.
func spanDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / hoursPerDay)
	if days < 1 {
		return 1
	}

	return days
}

// sourceNames maps each source key to the greatest non-empty source name.
func sourceNames(articles []*domain.EnrichedArticle) map[string]string {
	names := make(map[string]string)

	for _, a := range articles {
		k := sourceKey(a)
		if a.SourceName > names[k] {
			names[k] = a.SourceName
		}
	}

	return names
}

func sortedDistinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))

	for _, v := range values {
		if v == "" {
			continue
		}

		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	sort.Strings(out)

	return out
}
