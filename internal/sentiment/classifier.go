// Package sentiment scores free text with a fixed keyword lexicon.
package sentiment

import (
	"strings"

	"token-pulse/internal/domain"
)

var (
	positiveTerms = []string{"bullish", "surge", "rise", "gain", "success", "growth", "adoption"}
	negativeTerms = []string{"bearish", "crash", "drop", "decline", "loss", "scam", "hack"}
)

// Score returns positive hits minus negative hits. Each term counts once no
// matter how often it appears, and matching is by substring, so "risen" hits
// "rise" and "dropshipping" hits "drop".
func Score(title, description string) int {
	text := strings.ToLower(title + " " + description)
	return countMatches(text, positiveTerms) - countMatches(text, negativeTerms)
}

// Analyze classifies title and description into positive, negative or neutral.
func Analyze(title, description string) domain.Sentiment {
	score := Score(title, description)
	switch {
	case score > 0:
		return domain.SentimentPositive
	case score < 0:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func countMatches(text string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			count++
		}
	}
	return count
}
