package enrichment

import (
	"strings"

	"github.com/lueurxax/news-medallion/internal/core/domain"
	"github.com/lueurxax/news-medallion/internal/core/vocabulary"
)

// CategoryResult is the normalized category set of an article.
type CategoryResult struct {
	Primary string
	List    []string
	Count   int
}

// CategoryNormalizer maps comma-separated category strings onto the
// canonical category names of the vocabulary.
type CategoryNormalizer struct {
	vocab *vocabulary.Vocabulary
}

func NewCategoryNormalizer(vocab *vocabulary.Vocabulary) *CategoryNormalizer {
	return &CategoryNormalizer{vocab: vocab}
}

// Normalize splits raw on commas, lower-cases and trims each token, maps
// known synonyms and keeps the first occurrence of every category. Unknown
// tokens pass through unchanged.
func (n *CategoryNormalizer) Normalize(raw string) CategoryResult {
	parts := strings.Split(raw, ",")
	list := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}

		if canonical, ok := n.vocab.Category(token); ok {
			token = canonical
		}

		if _, dup := seen[token]; dup {
			continue
		}

		seen[token] = struct{}{}
		list = append(list, token)
	}

	primary := domain.CategoryGeneral
	if len(list) > 0 {
		primary = list[0]
	}

	return CategoryResult{Primary: primary, List: list, Count: len(list)}
}
