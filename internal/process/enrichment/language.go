package enrichment

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"

	apperrors "github.com/lueurxax/news-medallion/internal/core/errors"
	"github.com/lueurxax/news-medallion/internal/core/vocabulary"
)

const declaredCodeLen = 2

// LanguageDetector guesses the ISO 639-1 code of a text. ok is false when no
// language could be determined.
type LanguageDetector interface {
	Detect(text string) (code string, ok bool)
}

var linguaLanguages = map[string]lingua.Language{
	"pt": lingua.Portuguese,
	"en": lingua.English,
	"es": lingua.Spanish,
	"fr": lingua.French,
	"de": lingua.German,
	"it": lingua.Italian,
	"nl": lingua.Dutch,
	"ca": lingua.Catalan,
	"ro": lingua.Romanian,
	"pl": lingua.Polish,
	"ru": lingua.Russian,
	"uk": lingua.Ukrainian,
	"sv": lingua.Swedish,
	"da": lingua.Danish,
	"fi": lingua.Finnish,
	"cs": lingua.Czech,
	"hu": lingua.Hungarian,
	"el": lingua.Greek,
	"tr": lingua.Turkish,
	"zh": lingua.Chinese,
	"ja": lingua.Japanese,
	"ar": lingua.Arabic,
}

// LinguaDetector detects languages with lingua-go, restricted to a fixed set
// of candidates.
type LinguaDetector struct {
	detector lingua.LanguageDetector
	codes    map[lingua.Language]string
}

var _ LanguageDetector = (*LinguaDetector)(nil)

// NewLinguaDetector builds a detector for the given ISO 639-1 codes. At least
// two supported codes are required.
func NewLinguaDetector(codes []string) (*LinguaDetector, error) {
	languages := make([]lingua.Language, 0, len(codes))
	byLanguage := make(map[lingua.Language]string, len(codes))

	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}

		lang, ok := linguaLanguages[code]
		if !ok {
			return nil, fmt.Errorf("unsupported detection language %q: %w", code, apperrors.ErrInvalidConfig)
		}

		if _, dup := byLanguage[lang]; dup {
			continue
		}

		byLanguage[lang] = code
		languages = append(languages, lang)
	}

	if len(languages) < 2 {
		return nil, fmt.Errorf("language detection needs at least two languages: %w", apperrors.ErrInvalidConfig)
	}

	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().FromLanguages(languages...).Build(),
		codes:    byLanguage,
	}, nil
}

func (d *LinguaDetector) Detect(text string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}

	code, ok := d.codes[lang]

	return code, ok
}

// LanguageResult holds the detected code ("" when unknown) and whether it
// equals the declared language.
type LanguageResult struct {
	Detected string
	Match    bool
}

// LanguageVerifier checks the declared language of an article against the
// language detected in its text.
type LanguageVerifier struct {
	detector LanguageDetector
	vocab    *vocabulary.Vocabulary
}

func NewLanguageVerifier(detector LanguageDetector, vocab *vocabulary.Vocabulary) *LanguageVerifier {
	return &LanguageVerifier{detector: detector, vocab: vocab}
}

// Verify skips detection for text under 20 characters. A panicking detector
// counts as no detection.
func (v *LanguageVerifier) Verify(text, declared string) (result LanguageResult) {
	if v.detector == nil || utf8.RuneCountInString(strings.TrimSpace(text)) < minLanguageTextLen {
		return LanguageResult{}
	}

	defer func() {
		if r := recover(); r != nil {
			result = LanguageResult{}
		}
	}()

	detected, ok := v.detector.Detect(text)
	if !ok || detected == "" {
		return LanguageResult{}
	}

	return LanguageResult{
		Detected: detected,
		Match:    detected == v.DeclaredCode(declared),
	}
}

// DeclaredCode maps a declared language name such as "portuguese" to its
// two-letter code, falling back to the first two lower-case characters.
func (v *LanguageVerifier) DeclaredCode(declared string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared == "" {
		return ""
	}

	if code, ok := v.vocab.LanguageCode(declared); ok {
		return code
	}

	if utf8.RuneCountInString(declared) <= declaredCodeLen {
		return declared
	}

	return string([]rune(declared)[:declaredCodeLen])
}
