// Package vocabulary holds the static word lists the enrichment and
// aggregation stages depend on: bilingual stopwords, place gazetteers,
// corporate suffixes, the category synonym table, language names and the
// sentiment lexicon.
//
// A Vocabulary is immutable once built and is injected into components at
// construction, so tests can substitute their own word lists.
package vocabulary

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	apperrors "github.com/lueurxax/news-medallion/internal/core/errors"
)

//go:embed default.yaml
var defaultDocument []byte

const lexiconTupleSize = 2

// Score is the polarity and subjectivity of a lexicon word.
type Score struct {
	Polarity     float64
	Subjectivity float64
}

// Vocabulary is a read-only set of word lists.
type Vocabulary struct {
	stopwords     map[string]struct{}
	countries     map[string]struct{}
	cities        map[string]struct{}
	particles     map[string]struct{}
	negations     map[string]struct{}
	orgSuffixes   []string
	categories    map[string]string
	languages     map[string]string
	lexicon       map[string]Score
	intensifiers  map[string]float64
	placesOrdered []string
}

type document struct {
	Stopwords     []string          `yaml:"stopwords"`
	Countries     []string          `yaml:"countries"`
	Cities        []string          `yaml:"cities"`
	OrgSuffixes   []string          `yaml:"org_suffixes"`
	NameParticles []string          `yaml:"name_particles"`
	Categories    map[string]string `yaml:"categories"`
	Languages     map[string]string `yaml:"languages"`
	Sentiment     sentimentDocument `yaml:"sentiment"`
}

type sentimentDocument struct {
	Lexicon      map[string][]float64 `yaml:"lexicon"`
	Intensifiers map[string]float64   `yaml:"intensifiers"`
	Negations    []string             `yaml:"negations"`
}

var defaultVocabulary = sync.OnceValues(func() (*Vocabulary, error) {
	return Parse(defaultDocument)
})

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	v, err := defaultVocabulary()
	if err != nil {
		panic(fmt.Sprintf("built-in vocabulary is malformed: %v", err))
	}

	return v
}

// Parse builds a vocabulary from a YAML document only, without the built-in
// lists.
func Parse(data []byte) (*Vocabulary, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}

	return build(doc)
}

// Load reads a YAML file and layers it over the built-in vocabulary. List
// sections are appended, map sections add or replace individual entries.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var base, overlay document
	if err := yaml.Unmarshal(defaultDocument, &base); err != nil {
		return nil, fmt.Errorf("decode built-in vocabulary: %w", err)
	}

	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("decode vocabulary file %s: %w", path, err)
	}

	return build(merge(base, overlay))
}

func merge(base, overlay document) document {
	base.Stopwords = append(base.Stopwords, overlay.Stopwords...)
	base.Countries = append(base.Countries, overlay.Countries...)
	base.Cities = append(base.Cities, overlay.Cities...)
	base.OrgSuffixes = append(base.OrgSuffixes, overlay.OrgSuffixes...)
	base.NameParticles = append(base.NameParticles, overlay.NameParticles...)
	base.Sentiment.Negations = append(base.Sentiment.Negations, overlay.Sentiment.Negations...)

	base.Categories = mergeMap(base.Categories, overlay.Categories)
	base.Languages = mergeMap(base.Languages, overlay.Languages)
	base.Sentiment.Lexicon = mergeMap(base.Sentiment.Lexicon, overlay.Sentiment.Lexicon)
	base.Sentiment.Intensifiers = mergeMap(base.Sentiment.Intensifiers, overlay.Sentiment.Intensifiers)

	return base
}

func mergeMap[V any](base, overlay map[string]V) map[string]V {
	if base == nil {
		base = make(map[string]V, len(overlay))
	}

	for k, v := range overlay {
		base[k] = v
	}

	return base
}

func build(doc document) (*Vocabulary, error) {
	v := &Vocabulary{
		stopwords:    toSet(doc.Stopwords),
		countries:    toSet(doc.Countries),
		cities:       toSet(doc.Cities),
		particles:    toSet(doc.NameParticles),
		negations:    toSet(doc.Sentiment.Negations),
		orgSuffixes:  uniqueLower(doc.OrgSuffixes),
		categories:   lowerKeys(doc.Categories),
		languages:    lowerKeys(doc.Languages),
		lexicon:      make(map[string]Score, len(doc.Sentiment.Lexicon)),
		intensifiers: make(map[string]float64, len(doc.Sentiment.Intensifiers)),
	}

	for word, tuple := range doc.Sentiment.Lexicon {
		if len(tuple) != lexiconTupleSize {
			return nil, fmt.Errorf("lexicon entry %q needs [polarity, subjectivity]: %w", word, apperrors.ErrInvalidInput)
		}

		v.lexicon[strings.ToLower(word)] = Score{Polarity: tuple[0], Subjectivity: tuple[1]}
	}

	for word, factor := range doc.Sentiment.Intensifiers {
		v.intensifiers[strings.ToLower(word)] = factor
	}

	v.placesOrdered = make([]string, 0, len(v.countries)+len(v.cities))
	for place := range v.countries {
		v.placesOrdered = append(v.placesOrdered, place)
	}

	for place := range v.cities {
		v.placesOrdered = append(v.placesOrdered, place)
	}

	sort.Strings(v.placesOrdered)

	return v, nil
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))

	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}

	return set
}

func uniqueLower(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))

	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}

		if _, ok := seen[w]; ok {
			continue
		}

		seen[w] = struct{}{}
		out = append(out, w)
	}

	return out
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))

	for k, v := range m {
		out[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}

	return out
}

// IsStopword reports whether the lower-case word is a stopword.
func (v *Vocabulary) IsStopword(word string) bool {
	_, ok := v.stopwords[word]
	return ok
}

// IsPlace reports whether the lower-case phrase is a known country or city.
func (v *Vocabulary) IsPlace(phrase string) bool {
	if _, ok := v.countries[phrase]; ok {
		return true
	}

	_, ok := v.cities[phrase]

	return ok
}

// Places returns every country and city, sorted.
func (v *Vocabulary) Places() []string {
	return v.placesOrdered
}

// IsNameParticle reports whether the word joins the parts of a personal name.
func (v *Vocabulary) IsNameParticle(word string) bool {
	_, ok := v.particles[word]
	return ok
}

// IsOrgSuffix reports whether the lower-case token is a corporate suffix.
func (v *Vocabulary) IsOrgSuffix(token string) bool {
	for _, s := range v.orgSuffixes {
		if s == token {
			return true
		}
	}

	return false
}

// Category maps a raw category token to its canonical name.
func (v *Vocabulary) Category(token string) (string, bool) {
	c, ok := v.categories[token]
	return c, ok
}

// LanguageCode maps a full language name to its two-letter code.
func (v *Vocabulary) LanguageCode(name string) (string, bool) {
	c, ok := v.languages[name]
	return c, ok
}

// Sentiment returns the lexicon score of a lower-case word.
func (v *Vocabulary) Sentiment(word string) (Score, bool) {
	s, ok := v.lexicon[word]
	return s, ok
}

// Intensifier returns the multiplier of a lower-case intensifier word.
func (v *Vocabulary) Intensifier(word string) (float64, bool) {
	f, ok := v.intensifiers[word]
	return f, ok
}

// IsNegation reports whether the lower-case word negates what follows.
func (v *Vocabulary) IsNegation(word string) bool {
	_, ok := v.negations[word]
	return ok
}
