// Package textnorm cleans free text captured from news feeds.
//
// Clean applies, in order:
//   - HTML entity decoding
//   - markup tag stripping (each tag becomes a space)
//   - Unicode NFC normalization
//   - removal of control characters other than tab and newline
//   - folding of smart quotes, en/em dashes and the ellipsis glyph to ASCII
//   - whitespace collapsing and trimming
package textnorm

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	tagRegex        = regexp.MustCompile(`<[^>]+>`)
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

var punctuationFolder = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"‘", "'",
	"’", "'",
	"‚", "'",
	"–", "-",
	"—", "-",
	"…", "...",
)

// Clean runs the full normalization pipeline. Empty input is returned as is.
func Clean(text string) string {
	if text == "" {
		return text
	}

	text = StripHTML(text)
	text = NormalizeCharacters(text)

	return NormalizeSpaces(text)
}

// StripHTML decodes HTML entities and then replaces every tag with a space,
// so encoded markup such as "&lt;b&gt;" is removed as well.
func StripHTML(text string) string {
	if text == "" {
		return text
	}

	text = html.UnescapeString(text)

	return tagRegex.ReplaceAllString(text, " ")
}

// NormalizeCharacters composes the text to NFC, drops control characters and
// folds typographic punctuation to its ASCII form.
func NormalizeCharacters(text string) string {
	if text == "" {
		return text
	}

	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}

	text = norm.NFC.String(text)
	text = strings.Map(dropControl, text)

	return punctuationFolder.Replace(text)
}

// NormalizeSpaces collapses runs of spaces and tabs, limits blank lines to one
// and trims the result.
func NormalizeSpaces(text string) string {
	if text == "" {
		return text
	}

	text = horizontalSpace.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

func dropControl(r rune) rune {
	switch {
	case r == '\t', r == '\n':
		return r
	case r <= 0x1f, r >= 0x7f && r <= 0x9f:
		return -1
	default:
		return r
	}
}
