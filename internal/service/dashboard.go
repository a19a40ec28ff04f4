package service

import (
	"context"
	"time"

	"token-pulse/internal/domain"
)

// Refresher is the orchestrator surface the dashboard needs.
type Refresher interface {
	RefreshNow(ctx context.Context) error
	Status() domain.RefreshStatus
	Interval() time.Duration
}

// Status is the consumer-facing liveness view with any active advisories.
type Status struct {
	domain.RefreshStatus
	Interval      string   `json:"interval"`
	Advisories    []string `json:"advisories,omitempty"`
	TrackedAssets []string `json:"tracked_assets"`
}

// Dashboard is the single read/refresh entry point shared by the HTTP API,
// the Telegram bot, the SSH dashboard and the MCP server.
type Dashboard struct {
	market  *MarketService
	news    *NewsService
	signals *SignalService
	refresh Refresher
}

func NewDashboard(market *MarketService, news *NewsService, signals *SignalService, refresh Refresher) *Dashboard {
	return &Dashboard{market: market, news: news, signals: signals, refresh: refresh}
}

func (d *Dashboard) GetTokens(ctx context.Context) []domain.Token {
	return d.market.GetTokens(ctx)
}

func (d *Dashboard) GetToken(ctx context.Context, symbol string) (domain.Token, error) {
	return d.market.GetToken(ctx, symbol)
}

func (d *Dashboard) GetNews(ctx context.Context, asset string, filter domain.NewsFilter) []domain.NewsArticle {
	return d.news.GetNews(ctx, asset, filter)
}

func (d *Dashboard) GetSuggestion(ctx context.Context, symbol string) (*Suggestion, error) {
	return d.signals.GetSuggestion(ctx, symbol)
}

// RefreshNow runs a manual liveness probe and token refresh.
func (d *Dashboard) RefreshNow(ctx context.Context) error {
	return d.refresh.RefreshNow(ctx)
}

// Status reports liveness plus the advisories for tokens and the asset's news.
func (d *Dashboard) Status(asset string) Status {
	st := Status{
		RefreshStatus: d.refresh.Status(),
		Interval:      d.refresh.Interval().String(),
		TrackedAssets: domain.TrackedSymbols(),
	}
	if msg := d.market.Advisory(); msg != "" {
		st.Advisories = append(st.Advisories, msg)
	}
	if msg := d.news.Advisory(asset); msg != "" {
		st.Advisories = append(st.Advisories, msg)
	}
	return st
}
