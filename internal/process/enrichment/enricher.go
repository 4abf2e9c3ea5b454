package enrichment

import (
	"fmt"
	"strings"
	"time"

	"github.com/lueurxax/news-medallion/internal/core/domain"
	apperrors "github.com/lueurxax/news-medallion/internal/core/errors"
	"github.com/lueurxax/news-medallion/internal/core/vocabulary"
	"github.com/lueurxax/news-medallion/internal/platform/textnorm"
)

// Enricher turns one raw article into its Silver record. It holds no state
// besides its components and is safe for concurrent use.
type Enricher struct {
	categories *CategoryNormalizer
	sentiment  *SentimentScorer
	entities   EntityExtractor
	language   *LanguageVerifier
	now        func() time.Time
}

// EnricherOption customizes an Enricher.
type EnricherOption func(*Enricher)

// WithClock sets the source of processed_at timestamps.
func WithClock(now func() time.Time) EnricherOption {
	return func(e *Enricher) {
		e.now = now
	}
}

// WithEntityExtractor replaces the heuristic entity extractor.
func WithEntityExtractor(x EntityExtractor) EnricherOption {
	return func(e *Enricher) {
		e.entities = x
	}
}

// NewEnricher wires the enrichment components around one vocabulary. A nil
// detector disables language detection.
func NewEnricher(vocab *vocabulary.Vocabulary, detector LanguageDetector, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		categories: NewCategoryNormalizer(vocab),
		sentiment:  NewSentimentScorer(vocab),
		entities:   NewHeuristicEntityExtractor(vocab),
		language:   NewLanguageVerifier(detector, vocab),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Enrich cleans the text fields and derives every Silver attribute. The
// text signals run over the non-empty cleaned title, description and
// content joined by spaces.
func (e *Enricher) Enrich(raw domain.RawArticle) (*domain.EnrichedArticle, error) {
	if strings.TrimSpace(raw.ArticleID) == "" {
		return nil, fmt.Errorf("enrich article: empty article id: %w", apperrors.ErrInvalidInput)
	}

	title := textnorm.Clean(raw.Title)
	description := textnorm.Clean(raw.Description)
	content := textnorm.Clean(raw.Content)
	text := joinNonEmpty(title, description, content)

	categories := e.categories.Normalize(raw.Category)
	link := ValidateLink(raw.Link)
	sentiment := e.sentiment.Score(text)
	entities := e.entities.Extract(text)
	language := e.language.Verify(text, raw.Language)
	metrics := ComputeTextMetrics(title, description, content)

	return &domain.EnrichedArticle{
		ArticleID: raw.ArticleID,

		TitleClean:       title,
		DescriptionClean: description,
		ContentClean:     content,

		Published: DecomposeDate(raw.PubDate),

		SourceID:   raw.SourceID,
		SourceName: raw.SourceName,

		CategoryPrimary: categories.Primary,
		CategoryList:    categories.List,
		CategoryCount:   categories.Count,

		Link:       raw.Link,
		LinkValid:  link.Valid,
		LinkDomain: link.Domain,

		Language:         raw.Language,
		LanguageDetected: language.Detected,
		LanguageMatch:    language.Match,

		SentimentPolarity:     sentiment.Polarity,
		SentimentSubjectivity: sentiment.Subjectivity,
		SentimentLabel:        sentiment.Label,

		EntitiesPersons:   entities.Persons,
		EntitiesOrgs:      entities.Orgs,
		EntitiesLocations: entities.Locations,
		EntityCount:       entities.Count(),

		TitleLength:       metrics.TitleLength,
		DescriptionLength: metrics.DescriptionLength,
		ContentLength:     metrics.ContentLength,
		WordCount:         metrics.WordCount,

		Country:     raw.Country,
		Endpoint:    raw.Endpoint,
		ProcessedAt: e.now().UTC(),
	}, nil
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))

	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, " ")
}
