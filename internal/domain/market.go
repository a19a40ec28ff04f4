package domain

import "time"

// MarketQuote is one raw record of the CoinGecko /coins/markets response.
type MarketQuote struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	TotalVolume              float64 `json:"total_volume"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	High24h                  float64 `json:"high_24h"`
	Low24h                   float64 `json:"low_24h"`
	LastUpdated              string  `json:"last_updated"`
}

// Token is the derived market snapshot for one asset. Tokens are rebuilt on
// every fetch cycle and never mutated after publication.
type Token struct {
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name"`
	Price            float64   `json:"price"`
	PriceDisplay     string    `json:"price_display"`
	Change           string    `json:"change"`
	ChangePercent    float64   `json:"change_percent"`
	Volume24h        float64   `json:"volume_24h"`
	Volume24hDisplay string    `json:"volume_24h_display"`
	MarketCap        float64   `json:"market_cap"`
	MarketCapDisplay string    `json:"market_cap_display"`
	Support          float64   `json:"support"`
	Resistance       float64   `json:"resistance"`
	High24h          float64   `json:"high_24h"`
	Low24h           float64   `json:"low_24h"`
	LastUpdated      time.Time `json:"last_updated"`
}
