// Package nlp provides the text capabilities the extraction cascades lean on:
// fuzzy string similarity, named-entity recognition and natural-language
// calendar parsing. Each type satisfies the matching interface declared by
// the extraction package.
package nlp

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Levenshtein scores candidates by edit distance normalised to 0..100.
type Levenshtein struct{}

// Similarity returns 100 for identical strings and 0 for strings that share
// nothing. Comparison is case-insensitive. Fractional scores round up, so a
// strict "score > floor" check accepts anything above the floor.
func (Levenshtein) Similarity(a, b string) int {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist >= total {
		return 0
	}
	return ((total-dist)*100 + total - 1) / total
}

// ExtractOne returns the best-scoring choice for query. Ties keep the earlier
// choice. An empty choice list yields ("", 0).
func (l Levenshtein) ExtractOne(query string, choices []string) (string, int) {
	best, bestScore := "", 0
	for _, choice := range choices {
		if score := l.Similarity(query, choice); score > bestScore {
			best, bestScore = choice, score
		}
	}
	return best, bestScore
}
