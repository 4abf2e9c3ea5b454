package enrichment

import (
	"strings"
	"unicode/utf8"
)

// TextMetrics are rune lengths of the cleaned fields and the word count of
// their concatenation.
type TextMetrics struct {
	TitleLength       int
	DescriptionLength int
	ContentLength     int
	WordCount         int
}

func ComputeTextMetrics(title, description, content string) TextMetrics {
	return TextMetrics{
		TitleLength:       utf8.RuneCountInString(title),
		DescriptionLength: utf8.RuneCountInString(description),
		ContentLength:     utf8.RuneCountInString(content),
		WordCount:         len(strings.Fields(title + " " + description + " " + content)),
	}
}
