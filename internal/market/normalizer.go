// Package market turns raw price quotes into Token snapshots with derived
// support and resistance levels.
package market

import (
	"fmt"
	"math"
	"strings"
	"time"

	"token-pulse/internal/domain"
)

const (
	supportFactor    = 0.98
	resistanceFactor = 1.02
)

// Support is the heuristic floor below the 24h low.
func Support(low24h float64) float64 { return low24h * supportFactor }

// Resistance is the heuristic ceiling above the 24h high.
func Resistance(high24h float64) float64 { return high24h * resistanceFactor }

// NormalizeQuote converts one raw quote into a Token. Records without a
// usable price are rejected with domain.ErrMalformedRecord. Inconsistent
// highs and lows are passed through; the signal engine handles them.
func NormalizeQuote(q domain.MarketQuote, fetchedAt time.Time) (domain.Token, error) {
	if !finite(q.CurrentPrice) || q.CurrentPrice <= 0 {
		return domain.Token{}, fmt.Errorf("%w: %s has no usable price", domain.ErrMalformedRecord, q.ID)
	}

	symbol := strings.ToUpper(q.Symbol)
	name := q.Name
	if a, ok := domain.AssetByID(q.ID); ok {
		symbol = a.Symbol
		if name == "" {
			name = a.Name
		}
	}
	if symbol == "" {
		return domain.Token{}, fmt.Errorf("%w: record %q has no symbol", domain.ErrMalformedRecord, q.ID)
	}

	lastUpdated := fetchedAt
	if t, err := time.Parse(time.RFC3339, q.LastUpdated); err == nil {
		lastUpdated = t.UTC()
	}

	return domain.Token{
		Symbol:           symbol,
		Name:             name,
		Price:            q.CurrentPrice,
		PriceDisplay:     FormatUSD(q.CurrentPrice),
		Change:           FormatChange(q.PriceChangePercentage24h),
		ChangePercent:    q.PriceChangePercentage24h,
		Volume24h:        q.TotalVolume,
		Volume24hDisplay: FormatBillions(q.TotalVolume),
		MarketCap:        q.MarketCap,
		MarketCapDisplay: FormatBillions(q.MarketCap),
		Support:          Support(q.Low24h),
		Resistance:       Resistance(q.High24h),
		High24h:          q.High24h,
		Low24h:           q.Low24h,
		LastUpdated:      lastUpdated,
	}, nil
}

// NormalizeQuotes converts a batch in input order. Malformed records are
// skipped and returned alongside so the caller can log them.
func NormalizeQuotes(quotes []domain.MarketQuote, fetchedAt time.Time) ([]domain.Token, []error) {
	tokens := make([]domain.Token, 0, len(quotes))
	var skipped []error
	for _, q := range quotes {
		tok, err := NormalizeQuote(q, fetchedAt)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, skipped
}

// Placeholder is served when the very first fetch fails so consumers never
// see an empty board.
func Placeholder(now time.Time) domain.Token {
	return domain.Token{
		Symbol:           "BTC",
		Name:             "Bitcoin",
		Price:            67234,
		PriceDisplay:     "$67,234",
		Change:           "+2.34%",
		ChangePercent:    2.34,
		Volume24h:        28.5e9,
		Volume24hDisplay: "$28.5B",
		MarketCap:        1.32e12,
		MarketCapDisplay: "$1.32T",
		Support:          65000,
		Resistance:       69000,
		High24h:          68000,
		Low24h:           65500,
		LastUpdated:      now,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
