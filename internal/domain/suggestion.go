package domain

import "time"

type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

const (
	TimeframeActive = "1-7 days"
	TimeframeHold   = "Wait for setup"
)

// TradingSuggestion is recomputed on demand and never stored.
type TradingSuggestion struct {
	Action      Action  `json:"action"`
	Confidence  float64 `json:"confidence"`
	PriceTarget float64 `json:"price_target"`
	StopLoss    float64 `json:"stop_loss"`
	Reasoning   string  `json:"reasoning"`
	Timeframe   string  `json:"timeframe"`
}

// RefreshStatus is a read-only view of the orchestrator's liveness state.
type RefreshStatus struct {
	IsLive     bool      `json:"is_live"`
	IsLoading  bool      `json:"is_loading"`
	LastUpdate time.Time `json:"last_update"`
}
