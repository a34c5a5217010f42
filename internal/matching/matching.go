// Package matching resolves free-text product names, as heard by the
// recognizer, to catalog entries. Matching is deterministic: same query and
// same catalog always give the same answer.
package matching

import (
	"regexp"
	"strings"

	"bodega_voz/internal/catalog"
)

// similarityThreshold is the acceptance bar: a candidate is only taken when
// 1 - distance/max(len) is strictly above it. A query at exactly the
// threshold is a miss.
const similarityThreshold = 0.6

var annotations = regexp.MustCompile(`\s*\([^)]*\)\s*`)

// Normalize lowercases, strips parenthetical unit annotations and trims.
// Both the query and the catalog names go through it before comparison.
func Normalize(s string) string {
	return strings.TrimSpace(annotations.ReplaceAllString(strings.ToLower(s), ""))
}

// Distance is the character-level Levenshtein distance with unit costs for
// substitution, insertion and deletion. Operates on runes so accented
// Spanish names compare per character, not per byte.
func Distance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	prev := make([]int, len(ar)+1)
	curr := make([]int, len(ar)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(br); j++ {
		curr[0] = j
		for i := 1; i <= len(ar); i++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[i] = minOf(curr[i-1]+1, prev[i]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(ar)]
}

// Similarity converts a distance into a score in [0,1] relative to the
// longer of the two normalized strings.
func Similarity(a, b string) float64 {
	d := Distance(a, b)
	n := maxOf(len([]rune(a)), len([]rune(b)))
	if n == 0 {
		return 0
	}
	return 1 - float64(d)/float64(n)
}

// BestIndex finds the candidate with the lowest edit distance to the query
// whose similarity clears the threshold. Ties keep the first-encountered
// candidate. Returns false when nothing clears the bar.
func BestIndex(query string, names []string) (int, bool) {
	q := Normalize(query)
	if q == "" {
		return 0, false
	}

	best := -1
	bestDistance := 0
	for i, name := range names {
		n := Normalize(name)
		d := Distance(q, n)
		longest := maxOf(len([]rune(q)), len([]rune(n)))
		if longest == 0 {
			continue
		}
		similarity := 1 - float64(d)/float64(longest)
		if similarity > similarityThreshold && (best == -1 || d < bestDistance) {
			best = i
			bestDistance = d
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// BestMatch resolves a spoken product name against the catalog.
func BestMatch(query string, entries []catalog.Entry) (catalog.Entry, bool) {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	i, ok := BestIndex(query, names)
	if !ok {
		return catalog.Entry{}, false
	}
	return entries[i], true
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
