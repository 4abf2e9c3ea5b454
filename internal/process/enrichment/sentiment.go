package enrichment

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lueurxax/news-medallion/internal/core/domain"
	"github.com/lueurxax/news-medallion/internal/core/vocabulary"
)

// SentimentResult is the polarity in [-1, 1], the subjectivity in [0, 1]
// and the derived label of a text.
type SentimentResult struct {
	Polarity     float64
	Subjectivity float64
	Label        string
}

var neutralSentiment = SentimentResult{Label: domain.SentimentNeutral}

// SentimentScorer is a lexicon scorer over the bilingual word list of the
// vocabulary.
type SentimentScorer struct {
	vocab *vocabulary.Vocabulary
}

func NewSentimentScorer(vocab *vocabulary.Vocabulary) *SentimentScorer {
	return &SentimentScorer{vocab: vocab}
}

// Score averages the lexicon scores of the words found in text. A word
// right after an intensifier is amplified, and a negation within the two
// previous tokens flips and halves its polarity. Short text is neutral.
func (s *SentimentScorer) Score(text string) (result SentimentResult) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minSentimentTextLen {
		return neutralSentiment
	}

	defer func() {
		if r := recover(); r != nil {
			result = neutralSentiment
		}
	}()

	tokens := sentimentTokens(text)

	var polaritySum, subjectivitySum float64

	matched := 0

	for i, tok := range tokens {
		score, ok := s.vocab.Sentiment(tok)
		if !ok {
			continue
		}

		polarity, subjectivity := score.Polarity, score.Subjectivity

		if i > 0 {
			if factor, ok := s.vocab.Intensifier(tokens[i-1]); ok {
				polarity *= factor
				subjectivity *= factor
			}
		}

		if s.negated(tokens, i) {
			polarity *= negationFactor
		}

		polaritySum += clamp(polarity, -1, 1)
		subjectivitySum += clamp(subjectivity, 0, 1)
		matched++
	}

	if matched == 0 {
		return neutralSentiment
	}

	polarity := round4(polaritySum / float64(matched))

	return SentimentResult{
		Polarity:     polarity,
		Subjectivity: round4(subjectivitySum / float64(matched)),
		Label:        SentimentLabel(polarity),
	}
}

func (s *SentimentScorer) negated(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
		if s.vocab.IsNegation(tokens[j]) || strings.HasSuffix(tokens[j], "n't") {
			return true
		}
	}

	return false
}

// SentimentLabel classifies a polarity: above 0.1 is positive, below -0.1
// negative, anything else neutral.
func SentimentLabel(polarity float64) string {
	switch {
	case polarity > sentimentThreshold:
		return domain.SentimentPositive
	case polarity < -sentimentThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func sentimentTokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round4(v float64) float64 {
	return math.Round(v*scorePrecision) / scorePrecision
}
