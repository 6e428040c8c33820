package faq

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Similarity returns a normalized similarity score in [0, 1] between two
// strings. Both inputs are lower-cased before comparison, so the metric is
// symmetric under case folding. The score is 1 - d/maxLen where d is the
// Levenshtein distance and maxLen the longer rune length; identical inputs
// (including two empty strings) score 1.0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}

	maxLen := len([]rune(a))
	if n := len([]rune(b)); n > maxLen {
		maxLen = n
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}
