package enrichment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/news-medallion/internal/core/domain"
	apperrors "github.com/lueurxax/news-medallion/internal/core/errors"
	"github.com/lueurxax/news-medallion/internal/core/vocabulary"
)

var fixedNow = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

func newTestEnricher(detector LanguageDetector, opts ...EnricherOption) *Enricher {
	opts = append([]EnricherOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewEnricher(vocabulary.Default(), detector, opts...)
}

func TestEnricher_Enrich(t *testing.T) {
	e := newTestEnricher(&fakeDetector{code: "pt"})

	raw := domain.RawArticle{
		ArticleID:   "test123",
		Title:       "  <b>Título</b>  ",
		Description: "a descrição",
		Content:     "o conteúdo excelente sobre Lisboa",
		PubDate:     "2026-02-09 14:00:00",
		Category:    "technology",
		Link:        "https://teste.pt/artigo",
		Language:    "portuguese",
		SourceID:    "teste",
		SourceName:  "Teste",
		Country:     "portugal",
		Endpoint:    "test",
	}

	got, err := e.Enrich(raw)
	require.NoError(t, err)

	assert.Equal(t, "test123", got.ArticleID)
	assert.Equal(t, "Título", got.TitleClean)
	assert.Equal(t, "a descrição", got.DescriptionClean)
	assert.Equal(t, "2026-02-09", got.Published.DateString())
	assert.Equal(t, 14, got.Published.Hour)
	assert.Equal(t, "technology", got.CategoryPrimary)
	assert.Equal(t, []string{"technology"}, got.CategoryList)
	assert.True(t, got.LinkValid)
	assert.Equal(t, "teste.pt", got.LinkDomain)
	assert.Equal(t, "pt", got.LanguageDetected)
	assert.True(t, got.LanguageMatch)
	assert.Equal(t, domain.SentimentPositive, got.SentimentLabel)
	assert.Equal(t, []string{"Lisboa"}, got.EntitiesLocations)
	assert.Equal(t, 1, got.EntityCount)
	assert.Equal(t, 6, got.TitleLength)
	assert.Equal(t, 8, got.WordCount)
	assert.Empty(t, got.EntitiesPersons)
	assert.Equal(t, "portugal", got.Country)
	assert.Equal(t, "test", got.Endpoint)
	assert.Equal(t, fixedNow, got.ProcessedAt)
}

func TestEnricher_SparseArticle(t *testing.T) {
	e := newTestEnricher(nil)

	got, err := e.Enrich(domain.RawArticle{ArticleID: "only-id"})
	require.NoError(t, err)

	assert.Empty(t, got.TitleClean)
	assert.False(t, got.Published.Valid)
	assert.Equal(t, domain.CategoryGeneral, got.CategoryPrimary)
	assert.Empty(t, got.CategoryList)
	assert.False(t, got.LinkValid)
	assert.Empty(t, got.LinkDomain)
	assert.Empty(t, got.LanguageDetected)
	assert.False(t, got.LanguageMatch)
	assert.Equal(t, domain.SentimentNeutral, got.SentimentLabel)
	assert.Zero(t, got.EntityCount)
	assert.Zero(t, got.WordCount)
}

func TestEnricher_RejectsEmptyID(t *testing.T) {
	e := newTestEnricher(nil)

	_, err := e.Enrich(domain.RawArticle{Title: "Sem identificador"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

type stubExtractor struct{}

func (stubExtractor) Extract(string) Entities {
	return Entities{Persons: []string{"Stub Person"}, Orgs: []string{}, Locations: []string{}}
}

func TestEnricher_WithEntityExtractor(t *testing.T) {
	e := newTestEnricher(nil, WithEntityExtractor(stubExtractor{}))

	got, err := e.Enrich(domain.RawArticle{ArticleID: "a1", Title: "Qualquer coisa"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Stub Person"}, got.EntitiesPersons)
	assert.Equal(t, 1, got.EntityCount)
}

func TestEnricher_Deterministic(t *testing.T) {
	e := newTestEnricher(&fakeDetector{code: "en"})
	raw := domain.RawArticle{
		ArticleID: "det",
		Title:     "Great growth for Apple Inc in London",
		Content:   "Analysts said the results were not bad at all.",
		Category:  "business, tech",
	}

	first, err := e.Enrich(raw)
	require.NoError(t, err)

	second, err := e.Enrich(raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
