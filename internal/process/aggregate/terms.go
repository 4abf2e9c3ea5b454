package aggregate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lueurxax/news-medallion/internal/core/vocabulary"
)

const minTermLen = 3

// TermAnalyzer extracts significant terms from titles.
type TermAnalyzer struct {
	vocab *vocabulary.Vocabulary
}

func NewTermAnalyzer(vocab *vocabulary.Vocabulary) *TermAnalyzer {
	return &TermAnalyzer{vocab: vocab}
}

// Terms lower-cases text, replaces every rune that is neither a word rune
// nor whitespace with a space and returns the remaining tokens that are not
// stopwords and have at least three characters, in text order.
func (a *TermAnalyzer) Terms(text string) []string {
	if text == "" {
		return nil
	}

	text = cases.Lower(language.Und).String(text)
	text = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}

		return ' '
	}, text)

	fields := strings.Fields(text)
	terms := make([]string, 0, len(fields))

	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTermLen || a.vocab.IsStopword(f) {
			continue
		}

		terms = append(terms, f)
	}

	return terms
}
