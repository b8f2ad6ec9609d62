// ABOUTME: Fuzzy matching of event labels over sahilm/fuzzy
// ABOUTME: Filter keeps labels that match a pattern; Rank orders candidate labels best first

package fuzzy

import "github.com/sahilm/fuzzy"

// Match is one ranked label.
type Match struct {
	Label string
	Index int
	Score int
}

// Rank returns the labels matching pattern, best score first. Matching is
// case-insensitive and characters of pattern must appear in order.
func Rank(pattern string, labels []string) []Match {
	results := fuzzy.Find(pattern, labels)
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{Label: r.Str, Index: r.Index, Score: r.Score}
	}
	return matches
}

// Filter decides whether a label is of interest. The zero Filter keeps everything.
type Filter struct {
	pattern string
}

// NewFilter returns a Filter for pattern.
func NewFilter(pattern string) Filter {
	return Filter{pattern: pattern}
}

// Keep reports whether label matches the pattern.
func (f Filter) Keep(label string) bool {
	if f.pattern == "" {
		return true
	}
	return len(Rank(f.pattern, []string{label})) > 0
}
