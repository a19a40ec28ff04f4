package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"token-pulse/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches market quotes and serves as the connectivity probe.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
	retry   retryPolicy
}

// NewCoinGeckoProvider creates a provider limited to 8 requests per minute
// (one token every 7.5 seconds), enough for a 30s price cycle plus probes.
func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
		retry:   defaultRetry,
	}
}

// FetchMarkets fetches one quote per id in a single call.
func (p *CoinGeckoProvider) FetchMarkets(ctx context.Context, ids []string) ([]domain.MarketQuote, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-markets")
	defer span.End()
	span.SetAttributes(attribute.Int("ids", len(ids)))

	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("ids", strings.Join(ids, ","))
	q.Set("order", "market_cap_desc")
	q.Set("per_page", "10")
	q.Set("page", "1")
	q.Set("sparkline", "false")
	q.Set("price_change_percentage", "24h")
	endpoint := fmt.Sprintf("%s/coins/markets?%s", p.baseURL, q.Encode())

	body, err := getWithRetry(ctx, p.client, p.limiter, p.retry, "coingecko", endpoint, "application/json")
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetch markets: %w", err)
	}

	var quotes []domain.MarketQuote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return nil, fmt.Errorf("%w: parse markets: %w", domain.ErrFetchFailure, err)
	}
	return quotes, nil
}

// Ping hits the lightweight /ping endpoint once, without retries. Any 2xx
// response counts as live.
func (p *CoinGeckoProvider) Ping(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "coingecko.ping")
	defer span.End()

	_, err := getWithRetry(ctx, p.client, nil, noRetry, "coingecko", p.baseURL+"/ping", "application/json")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProbeFailure, err)
	}
	return nil
}
