// Package scoring extracts outfit scores from model text and decides when a
// score is shown to the user.
package scoring

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultScore is used when the model output carries no score.
const DefaultScore = 7.0

const (
	minScore = 1
	maxScore = 10
)

// Matches "8/10", "Score: 8.5/10", "**Score: 7,5 / 10**".
var scorePattern = regexp.MustCompile(`(?i)(?:score\s*:?\s*)?(\d{1,2}(?:[.,]\d+)?)\s*/\s*10\b`)

// ExtractScore returns the first "<number>/10" rating in text.
func ExtractScore(text string) (float64, bool) {
	for _, loc := range scorePattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		if start > 0 {
			if prev := text[start-1]; (prev >= '0' && prev <= '9') || prev == '.' || prev == ',' {
				continue
			}
		}
		v, err := strconv.ParseFloat(strings.Replace(text[start:end], ",", ".", 1), 64)
		if err != nil || v > maxScore {
			continue
		}
		return Round(v), true
	}
	return 0, false
}

// Round clamps a score to [1, 10] and rounds it to the nearest half point.
func Round(score float64) float64 {
	two := decimal.NewFromInt(2)
	d := decimal.NewFromFloat(score).Mul(two).Round(0).Div(two)

	switch {
	case d.LessThan(decimal.NewFromInt(minScore)):
		d = decimal.NewFromInt(minScore)
	case d.GreaterThan(decimal.NewFromInt(maxScore)):
		d = decimal.NewFromInt(maxScore)
	}

	f, _ := d.Float64()
	return f
}

// ScorePtr returns a pointer to the extracted score, or nil when absent.
func ScorePtr(text string) *float64 {
	if v, ok := ExtractScore(text); ok {
		return &v
	}
	return nil
}
