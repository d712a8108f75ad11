package services

import (
	"strings"
	"unicode/utf8"
)

// Relevance scores. Higher is better.
const (
	ScoreExact     = 100.0
	ScorePrefix    = 90.0
	ScoreSubstring = 70.0

	// ScoreSubsequenceScale is multiplied by the share of the candidate
	// text covered by a subsequence match.
	ScoreSubsequenceScale = 50.0

	// ScoreSubsequenceFloor is the lowest score a subsequence match gets.
	ScoreSubsequenceFloor = 10.0

	// ScoreEmptyQuery is the equal rank every candidate gets for an empty query.
	ScoreEmptyQuery = 1.0

	// ParentAliasFactor discounts a child's score when it is credited to
	// its parent candidate.
	ParentAliasFactor = 0.8
)

// Relevance scores candidate text against a query, case-insensitively:
// exact 100, prefix 90, substring 70, in-order subsequence
// max(10, 50*matched/len(text)), otherwise 0.
func Relevance(text, query string) float64 {
	t := strings.ToLower(strings.TrimSpace(text))
	q := strings.ToLower(strings.TrimSpace(query))
	if t == "" || q == "" {
		return 0
	}

	switch {
	case t == q:
		return ScoreExact
	case strings.HasPrefix(t, q):
		return ScorePrefix
	case strings.Contains(t, q):
		return ScoreSubstring
	}

	matched := subsequenceMatch(t, q)
	if matched == 0 {
		return 0
	}
	score := ScoreSubsequenceScale * float64(matched) / float64(utf8.RuneCountInString(t))
	if score < ScoreSubsequenceFloor {
		return ScoreSubsequenceFloor
	}
	return score
}

// subsequenceMatch returns how many runes of q were found in t in order,
// or 0 if q is not a full subsequence of t.
func subsequenceMatch(t, q string) int {
	qr := []rune(q)
	i := 0
	for _, r := range t {
		if i < len(qr) && r == qr[i] {
			i++
		}
	}
	if i < len(qr) {
		return 0
	}
	return i
}
