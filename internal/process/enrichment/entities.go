package enrichment

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lueurxax/news-medallion/internal/core/vocabulary"
)

// Entities are the named entities found in a text. Every list holds at most
// ten distinct values in order of first appearance.
type Entities struct {
	Persons   []string
	Orgs      []string
	Locations []string
}

// Count is the total number of entities across the three lists.
func (e Entities) Count() int {
	return len(e.Persons) + len(e.Orgs) + len(e.Locations)
}

// EntityExtractor finds persons, organizations and locations in free text.
type EntityExtractor interface {
	Extract(text string) Entities
}

// HeuristicEntityExtractor recognizes entities from capitalization, corporate
// suffixes and the place gazetteer of the vocabulary.
type HeuristicEntityExtractor struct {
	vocab *vocabulary.Vocabulary
}

var _ EntityExtractor = (*HeuristicEntityExtractor)(nil)

func NewHeuristicEntityExtractor(vocab *vocabulary.Vocabulary) *HeuristicEntityExtractor {
	return &HeuristicEntityExtractor{vocab: vocab}
}

// Extract returns empty lists for empty text.
func (x *HeuristicEntityExtractor) Extract(text string) Entities {
	out := Entities{
		Persons:   []string{},
		Orgs:      []string{},
		Locations: []string{},
	}

	if strings.TrimSpace(text) == "" {
		return out
	}

	words := splitWords(text)

	out.Persons = x.persons(text, words)
	out.Orgs = x.orgs(text, words)
	out.Locations = x.locations(text)

	return out
}

// word is a maximal run of letters, digits, marks or underscores, located by
// its byte offsets in the source text.
type word struct {
	text       string
	start, end int
}

func splitWords(text string) []word {
	var (
		words []word
		start = -1
	)

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}

			continue
		}

		if start >= 0 {
			words = append(words, word{text: text[start:i], start: start, end: i})
			start = -1
		}
	}

	if start >= 0 {
		words = append(words, word{text: text[start:], start: start, end: len(text)})
	}

	return words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}

// isCapitalized reports an upper-case letter followed by at least one
// lower-case letter and nothing else.
func isCapitalized(w string) bool {
	first := true
	n := 0

	for _, r := range w {
		n++

		if first {
			if !unicode.IsUpper(r) {
				return false
			}

			first = false

			continue
		}

		if !unicode.IsLower(r) && !unicode.IsMark(r) {
			return false
		}
	}

	return n > 1
}

// spaced reports whether only whitespace separates two adjacent words.
func spaced(text string, a, b word) bool {
	gap := text[a.end:b.start]
	return gap != "" && strings.TrimSpace(gap) == ""
}

func (x *HeuristicEntityExtractor) persons(text string, words []word) []string {
	out := newEntityList()

	for i := 0; i < len(words); {
		if !x.isNameWord(words[i].text) {
			i++
			continue
		}

		last, count := x.personRun(text, words, i)

		if count >= minPersonWords {
			candidate := text[words[i].start:words[last].end]
			if !x.vocab.IsPlace(foldPhrase(candidate)) {
				out.add(candidate)
			}
		}

		i = last + 1
	}

	return out.values
}

// personRun extends a run of capitalized words starting at words[i], allowing
// one name particle between two capitalized words. It stops after
// maxPersonWords capitalized words and returns the index of the last word.
func (x *HeuristicEntityExtractor) personRun(text string, words []word, i int) (last, count int) {
	last, count = i, 1

	for count < maxPersonWords {
		next := last + 1
		if next >= len(words) || !spaced(text, words[last], words[next]) {
			break
		}

		if x.isNameWord(words[next].text) {
			last = next
			count++

			continue
		}

		after := next + 1
		if after < len(words) &&
			x.vocab.IsNameParticle(words[next].text) &&
			spaced(text, words[next], words[after]) &&
			x.isNameWord(words[after].text) {
			last = after
			count++

			continue
		}

		break
	}

	return last, count
}

// isNameWord is a capitalized word that is not a corporate suffix such as
// "Inc" or "Corp".
func (x *HeuristicEntityExtractor) isNameWord(w string) bool {
	return isCapitalized(w) && !x.vocab.IsOrgSuffix(strings.ToLower(w))
}

func (x *HeuristicEntityExtractor) orgs(text string, words []word) []string {
	out := newEntityList()

	for k := 1; k < len(words); k++ {
		if !x.vocab.IsOrgSuffix(strings.ToLower(words[k].text)) {
			continue
		}

		if first := x.orgStart(text, words, k); first < k {
			out.add(text[words[first].start:words[k].end])
		}
	}

	return out.values
}

// orgStart walks back from the suffix at words[k] over up to maxOrgWords
// capitalized words, which may be joined by a name particle.
func (x *HeuristicEntityExtractor) orgStart(text string, words []word, k int) int {
	first, count := k, 0

	for j := k - 1; j >= 0 && count < maxOrgWords; j-- {
		if !spaced(text, words[j], words[first]) {
			break
		}

		if isCapitalized(words[j].text) {
			first = j
			count++

			continue
		}

		if count > 0 && j > 0 && x.vocab.IsNameParticle(words[j].text) &&
			spaced(text, words[j-1], words[j]) && isCapitalized(words[j-1].text) {
			first = j - 1
			count++
			j--

			continue
		}

		break
	}

	return first
}

// locations finds every gazetteer entry as a whole word, case-insensitively,
// and reports it with the casing used in the text, ordered by position.
func (x *HeuristicEntityExtractor) locations(text string) []string {
	runes := []rune(text)
	lower := make([]rune, len(runes))

	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	type hit struct {
		pos  int
		text string
	}

	var hits []hit

	for _, place := range x.vocab.Places() {
		if pos := indexWholeWord(lower, []rune(place)); pos >= 0 {
			hits = append(hits, hit{pos: pos, text: string(runes[pos : pos+len([]rune(place))])})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := newEntityList()
	for _, h := range hits {
		out.add(h.text)
	}

	return out.values
}

func indexWholeWord(haystack, needle []rune) int {
	if len(needle) == 0 {
		return -1
	}

	for i := 0; i+len(needle) <= len(haystack); i++ {
		if !runesEqual(haystack[i:i+len(needle)], needle) {
			continue
		}

		if i > 0 && isWordRune(haystack[i-1]) {
			continue
		}

		if end := i + len(needle); end < len(haystack) && isWordRune(haystack[end]) {
			continue
		}

		return i
	}

	return -1
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func foldPhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

type entityList struct {
	values []string
	seen   map[string]struct{}
}

func newEntityList() *entityList {
	return &entityList{values: []string{}, seen: make(map[string]struct{})}
}

func (l *entityList) add(v string) {
	if len(l.values) >= maxEntitiesPerType {
		return
	}

	if _, ok := l.seen[v]; ok {
		return
	}

	l.seen[v] = struct{}{}
	l.values = append(l.values, v)
}
