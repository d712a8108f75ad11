package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevance(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  float64
	}{
		{"exact", "Overtime", "overtime", ScoreExact},
		{"exact ignores surrounding space", " Overtime ", "OVERTIME  ", ScoreExact},
		{"prefix", "Overtime Pay", "over", ScorePrefix},
		{"substring", "Overtime Pay", "pay", ScoreSubstring},
		{"subsequence", "Overtime", "ovt", 50.0 * 3 / 8},
		{"subsequence floor", "Wrongful Termination Claims", "wc", ScoreSubsequenceFloor},
		{"subsequence counts runes", "Café", "cé", 50.0 * 2 / 4},
		{"missing character", "Paid Leave", "pay", 0},
		{"no match", "Retaliation", "pay", 0},
		{"empty query", "Overtime", "", 0},
		{"empty text", "", "pay", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Relevance(tt.text, tt.query), 1e-9)
		})
	}
}

func TestRelevance_Ordering(t *testing.T) {
	exact := Relevance("pay", "pay")
	prefix := Relevance("payroll", "pay")
	substring := Relevance("back pay", "pay")
	subsequence := Relevance("peak day", "pay")

	assert.Greater(t, exact, prefix)
	assert.Greater(t, prefix, substring)
	assert.Greater(t, substring, subsequence)
	assert.Greater(t, subsequence, 0.0)
}
