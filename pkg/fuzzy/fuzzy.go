package fuzzy

import (
	"sort"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// LevenshteinDistance calculates the edit distance between two strings
// after normalization. Distance is counted in runes.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(Normalize(s1))
	r2 := []rune(Normalize(s2))
	return distance(r1, r2)
}

func distance(r1, r2 []rune) int {
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// two rows are enough
	prev := make([]int, len(r2)+1)
	cur := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(r1); i++ {
		cur[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			cur[j] = min(
				prev[j]+1,      // deletion
				cur[j-1]+1,     // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, cur = cur, prev
	}
	return prev[len(r2)]
}

// Threshold is the edit distance tolerated for a query of this length
func Threshold(query string) int {
	n := len([]rune(Normalize(query)))
	switch {
	case n <= 3:
		return 1
	case n >= 8:
		return 3
	default:
		return 2
	}
}

// Match checks if query fuzzy-matches text within threshold edits
func Match(query, text string, threshold int) bool {
	query = Normalize(query)
	text = Normalize(text)
	if query == "" {
		return true
	}
	if strings.Contains(text, query) {
		return true
	}

	q := []rune(query)
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, query) {
			return true
		}
		if distance(q, []rune(word)) <= threshold {
			return true
		}
	}
	return false
}

// Field is one searchable attribute of a record with its weight
type Field struct {
	Text   string
	Weight float64
}

// Score rates how well query matches the fields. Zero means no match.
// Substring hits score the full weight plus a whole-word bonus; near
// misses score less the further away they are.
func Score(query string, fields ...Field) float64 {
	query = Normalize(query)
	if query == "" {
		return 0
	}
	q := []rune(query)
	threshold := Threshold(query)

	score := 0.0
	for _, f := range fields {
		text := Normalize(f.Text)
		if text == "" {
			continue
		}
		if strings.Contains(text, query) {
			score += f.Weight
			if containsWord(text, query) {
				score += f.Weight / 2
			}
			continue
		}
		best := 0.0
		for _, word := range strings.Fields(text) {
			if strings.HasPrefix(word, query) {
				best = max(best, f.Weight*0.8)
			}
			if d := distance(q, []rune(word)); d <= threshold {
				best = max(best, f.Weight*0.5-float64(d)*f.Weight*0.1)
			}
		}
		score += best
	}
	return score
}

// Rank returns the indexes of the items whose score is positive, best first.
// Ties keep their original order.
func Rank[T any](query string, items []T, fields func(T) []Field) []int {
	type hit struct {
		index int
		score float64
	}
	var hits []hit
	for i, item := range items {
		if s := Score(query, fields(item)...); s > 0 {
			hits = append(hits, hit{i, s})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })

	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.index
	}
	return out
}

// combining diacritical marks (U+0300..U+036F); kana voicing marks are kept
func isDiacritic(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}

// Normalize lowercases s, strips diacritics, folds full-width forms to
// their narrow equivalents and collapses whitespace
func Normalize(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isDiacritic)), norm.NFC, width.Fold)
	folded, _, err := transform.String(folder, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}

func containsWord(text, query string) bool {
	for _, word := range strings.Fields(text) {
		if word == query {
			return true
		}
	}
	return false
}
