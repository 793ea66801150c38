package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)
var punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N} ]+`)

// NormalizeName lowercases name, strips punctuation and collapses whitespace.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = punctuationRegex.ReplaceAllString(name, " ")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// ClosestLabel returns the index of the candidate most similar to text
// (Jaro-Winkler over normalized names) along with its similarity.
// It returns -1 when there are no candidates.
func ClosestLabel(text string, candidates []string) (int, float64) {
	text = NormalizeName(text)

	best := -1
	var bestScore float64
	for i, c := range candidates {
		c = NormalizeName(c)
		var score float64
		if c != "" && strings.Contains(text, c) {
			score = 1
		} else {
			score = matchr.JaroWinkler(text, c, true)
		}
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best, bestScore
}
