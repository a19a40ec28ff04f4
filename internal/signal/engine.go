// Package signal maps a token snapshot and its news into a discrete trading
// suggestion using fixed threshold rules.
package signal

import (
	"fmt"
	"math"

	"token-pulse/internal/domain"
	"token-pulse/internal/market"

	"github.com/shopspring/decimal"
)

const (
	// Articles above this relevance feed the sentiment score.
	relevanceCutoff = 80

	degradedConfidence = 10
)

// Inputs are the intermediate metrics a suggestion is derived from.
type Inputs struct {
	SupportDistance    float64 `json:"support_distance"`
	ResistanceDistance float64 `json:"resistance_distance"`
	SentimentScore     float64 `json:"sentiment_score"`
	RelevantArticles   int     `json:"relevant_articles"`
}

// SentimentScore is (positive - negative) / count over articles with
// relevance above the cutoff, and exactly 0 when none qualify.
func SentimentScore(articles []domain.NewsArticle) (float64, int) {
	var positive, negative, relevant int
	for _, a := range articles {
		if a.Relevance <= relevanceCutoff {
			continue
		}
		relevant++
		switch a.Sentiment {
		case domain.SentimentPositive:
			positive++
		case domain.SentimentNegative:
			negative++
		}
	}
	if relevant == 0 {
		return 0, 0
	}
	return float64(positive-negative) / float64(relevant), relevant
}

// Evaluate computes the rule inputs for token and articles.
func Evaluate(token domain.Token, articles []domain.NewsArticle) Inputs {
	score, relevant := SentimentScore(articles)
	in := Inputs{SentimentScore: score, RelevantArticles: relevant}
	if token.Price > 0 {
		in.SupportDistance = (token.Price - token.Support) / token.Price * 100
		in.ResistanceDistance = (token.Resistance - token.Price) / token.Price * 100
	}
	return in
}

// Suggest applies the rules in order; the first match wins. It is a pure
// function of its arguments.
func Suggest(token domain.Token, articles []domain.NewsArticle) domain.TradingSuggestion {
	if !consistent(token) {
		return domain.TradingSuggestion{
			Action:      domain.ActionHold,
			Confidence:  degradedConfidence,
			PriceTarget: safePrice(token.Price),
			StopLoss:    safePrice(token.Price) * 0.95,
			Reasoning:   "Market data inconsistent. Holding until a clean snapshot arrives.",
			Timeframe:   domain.TimeframeHold,
		}
	}

	in := Evaluate(token, articles)
	price := token.Price
	change := token.ChangePercent

	var s domain.TradingSuggestion
	switch {
	case change > 2 && in.SupportDistance > 5 && in.SentimentScore > 0.2:
		s = domain.TradingSuggestion{
			Action:      domain.ActionBuy,
			Confidence:  math.Min(85, 60+change*2+in.SentimentScore*20),
			PriceTarget: token.Resistance * 0.95,
			StopLoss:    token.Support * 1.02,
			Reasoning: fmt.Sprintf("Strong upward momentum (+%s%%) with positive sentiment. Price well above support level.",
				decimal.NewFromFloat(change).StringFixed(1)),
		}
	case change < -1.5 && in.ResistanceDistance < 3:
		s = domain.TradingSuggestion{
			Action:      domain.ActionSell,
			Confidence:  math.Min(80, 55+math.Abs(change)*1.5),
			PriceTarget: token.Support * 1.05,
			StopLoss:    token.Resistance * 0.98,
			Reasoning:   "Negative price action near resistance. Consider taking profits or reducing position.",
		}
	case in.SupportDistance < 2:
		s = domain.TradingSuggestion{
			Action:      domain.ActionBuy,
			Confidence:  70,
			PriceTarget: price * 1.08,
			StopLoss:    token.Support * 0.98,
			Reasoning:   "Price approaching strong support level. Good risk/reward opportunity.",
		}
	default:
		s = domain.TradingSuggestion{
			Action:      domain.ActionHold,
			Confidence:  50,
			PriceTarget: price,
			StopLoss:    price * 0.95,
			Reasoning: fmt.Sprintf("Price in neutral zone. Wait for clearer signals near support ($%s) or resistance ($%s).",
				market.FormatNumber(token.Support, 3), market.FormatNumber(token.Resistance, 3)),
		}
	}

	s.Confidence = clamp(s.Confidence, 0, 100)
	s.Timeframe = domain.TimeframeActive
	if s.Action == domain.ActionHold {
		s.Timeframe = domain.TimeframeHold
	}
	return s
}

// consistent rejects snapshots the rules cannot reason about: missing or
// non-finite numbers, unset levels and inverted 24h ranges. A null 24h
// high/low from upstream decodes to 0 and yields zero levels.
func consistent(t domain.Token) bool {
	for _, v := range []float64{t.Price, t.ChangePercent, t.Support, t.Resistance, t.High24h, t.Low24h} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if t.Price <= 0 || t.Support <= 0 || t.Resistance <= 0 {
		return false
	}
	if t.High24h < t.Low24h {
		return false
	}
	return t.Support <= t.Resistance
}

func safePrice(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
