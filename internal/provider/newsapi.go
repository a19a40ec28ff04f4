package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"token-pulse/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const newsAPIBaseURL = "https://newsapi.org/v2"

// ErrMissingAPIKey is returned without touching the network when no key is configured.
var ErrMissingAPIKey = errors.New("news api key not configured")

type NewsAPIProvider struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	pageSize int
	tracer   trace.Tracer
	limiter  *RateLimiter
	retry    retryPolicy
}

func NewNewsAPIProvider(tracer trace.Tracer, apiKey string) *NewsAPIProvider {
	return &NewsAPIProvider{
		client:   &http.Client{Timeout: 20 * time.Second},
		baseURL:  newsAPIBaseURL,
		apiKey:   strings.TrimSpace(apiKey),
		pageSize: 10,
		tracer:   tracer,
		limiter:  NewRateLimiter(4, 15*time.Second),
		retry:    defaultRetry,
	}
}

// FetchEverything returns the newest English articles for query.
func (p *NewsAPIProvider) FetchEverything(ctx context.Context, query string) ([]domain.RawArticle, error) {
	ctx, span := p.tracer.Start(ctx, "newsapi.fetch-everything")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailure, ErrMissingAPIKey)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", fmt.Sprintf("%d", p.pageSize))
	q.Set("apiKey", p.apiKey)
	endpoint := fmt.Sprintf("%s/everything?%s", p.baseURL, q.Encode())

	body, err := getWithRetry(ctx, p.client, p.limiter, p.retry, "newsapi", endpoint, "application/json")
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetch news for %q: %w", query, err)
	}

	var payload struct {
		Status   string              `json:"status"`
		Code     string              `json:"code"`
		Message  string              `json:"message"`
		Articles []domain.RawArticle `json:"articles"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: parse news: %w", domain.ErrFetchFailure, err)
	}
	if payload.Status == "error" {
		return nil, fmt.Errorf("%w: newsapi %s: %s", domain.ErrFetchFailure, payload.Code, payload.Message)
	}
	return payload.Articles, nil
}
