package domain

import "time"

// RawArticle is a news article as captured by the ingestion collaborator.
// Empty strings stand for absent values.
type RawArticle struct {
	ArticleID   string
	Title       string
	Description string
	Content     string
	SourceID    string
	SourceName  string
	SourceURL   string
	Creator     string
	PubDate     string
	Category    string
	Country     string
	Language    string
	Link        string
	ImageURL    string
	Endpoint    string
	LoadedAt    time.Time
}

// PublishDate is a decomposed publish date. Valid is false when the raw
// string could not be parsed, in which case every other field is zero.
type PublishDate struct {
	Valid    bool
	Date     time.Time
	Datetime time.Time
	Year     int
	Month    int
	Day      int
	Hour     int
}

// DateString returns the calendar date as YYYY-MM-DD, or "" when invalid.
func (p PublishDate) DateString() string {
	if !p.Valid {
		return ""
	}

	return p.Date.Format(DateLayout)
}

// EnrichedArticle is the Silver record produced for one raw article.
type EnrichedArticle struct {
	ArticleID string

	TitleClean       string
	DescriptionClean string
	ContentClean     string

	Published PublishDate

	SourceID   string
	SourceName string

	CategoryPrimary string
	CategoryList    []string
	CategoryCount   int

	Link       string
	LinkValid  bool
	LinkDomain string

	Language         string
	LanguageDetected string
	LanguageMatch    bool

	SentimentPolarity     float64
	SentimentSubjectivity float64
	SentimentLabel        string

	EntitiesPersons   []string
	EntitiesOrgs      []string
	EntitiesLocations []string
	EntityCount       int

	TitleLength       int
	DescriptionLength int
	ContentLength     int
	WordCount         int

	Country     string
	Endpoint    string
	ProcessedAt time.Time
}

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// DateLayout is the calendar date format shared by Silver and Gold tables.
const DateLayout = "2006-01-02"

// CategoryGeneral is the primary category used when none is known.
const CategoryGeneral = "general"
