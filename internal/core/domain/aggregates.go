package domain

import "time"

// Gold key sentinels.
const (
	// UnknownSource replaces a missing source id in aggregate keys.
	UnknownSource = "unknown"
	// FilterAll marks an unfiltered dimension in sentiment timeline keys.
	FilterAll = "ALL"
	// TermTypeWord is the term type produced by the title tokenizer.
	TermTypeWord = "word"
)

// Granularity selects the date bucket of the sentiment timeline.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// DailySummary is keyed by (Date, SourceID, CategoryPrimary).
type DailySummary struct {
	Date                     time.Time
	SourceID                 string
	CategoryPrimary          string
	ArticleCount             int
	UniqueSources            int
	AvgSentimentPolarity     float64
	AvgSentimentSubjectivity float64
	PositiveCount            int
	NegativeCount            int
	NeutralCount             int
	AvgWordCount             float64
	TotalWordCount           int
	CalculatedAt             time.Time
}

// SourceStats is keyed by (SourceID, PeriodStart, PeriodEnd).
type SourceStats struct {
	SourceID             string
	SourceName           string
	PeriodStart          time.Time
	PeriodEnd            time.Time
	TotalArticles        int
	ArticlesPerDay       float64
	CategoriesCovered    string
	CategoryCount        int
	PrimaryCategory      string
	AvgSentimentPolarity float64
	SentimentStdDev      float64
	AvgTitleLength       float64
	AvgContentLength     float64
	ArticlesWithContent  int
	ContentRatio         float64
	CalculatedAt         time.Time
}

// TrendingTopic is keyed by (Date, Term, TermType).
type TrendingTopic struct {
	Date         time.Time
	Term         string
	TermType     string
	Frequency    int
	ArticleCount int
	SampleTitles []string
	Sources      []string
	Categories   []string
	AvgSentiment float64
	Rank         int
	CalculatedAt time.Time
}

// SentimentTimelineEntry is keyed by (Bucket, Granularity, SourceID, CategoryPrimary).
type SentimentTimelineEntry struct {
	Bucket          string
	Granularity     Granularity
	SourceID        string
	CategoryPrimary string
	AvgPolarity     float64
	AvgSubjectivity float64
	MinPolarity     float64
	MaxPolarity     float64
	StdPolarity     float64
	PositivePct     float64
	NegativePct     float64
	NeutralPct      float64
	ArticleCount    int
	CalculatedAt    time.Time
}

// CategoryMatrixEntry is keyed by (PeriodStart, PeriodEnd, SourceID, CategoryPrimary).
type CategoryMatrixEntry struct {
	PeriodStart     time.Time
	PeriodEnd       time.Time
	SourceID        string
	SourceName      string
	CategoryPrimary string
	ArticleCount    int
	PctOfSource     float64
	PctOfCategory   float64
	AvgSentiment    float64
	CalculatedAt    time.Time
}
