package layout

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	maxSuggestions      = 3
	similarityThreshold = 0.5
)

// Similarity returns 1 - d/max(len(a), len(b)) where d is the
// case-insensitive Levenshtein distance. Identical strings score 1.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// Suggest returns up to limit candidates whose similarity to input exceeds
// 0.5, most similar first. Ties keep candidate order.
func Suggest(input string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}
	var matches []scored
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if seen[c] || c == input {
			continue
		}
		seen[c] = true
		if s := Similarity(input, c); s > similarityThreshold {
			matches = append(matches, scored{c, s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}
