package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"token-pulse/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type fakeRedis struct {
	mu     sync.Mutex
	data   map[string][]byte
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

type mockMarketProvider struct {
	mu    sync.Mutex
	calls int
	fetch func(ctx context.Context, ids []string) ([]domain.MarketQuote, error)
}

func (m *mockMarketProvider) FetchMarkets(ctx context.Context, ids []string) ([]domain.MarketQuote, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.fetch(ctx, ids)
}

func quotesOK(quotes ...domain.MarketQuote) *mockMarketProvider {
	return &mockMarketProvider{fetch: func(context.Context, []string) ([]domain.MarketQuote, error) {
		return quotes, nil
	}}
}

func quotesErr(err error) *mockMarketProvider {
	return &mockMarketProvider{fetch: func(context.Context, []string) ([]domain.MarketQuote, error) {
		return nil, err
	}}
}

type mockTokenStore struct {
	saved   [][]domain.Token
	stored  []domain.Token
	loadErr error
	saveErr error
}

func (m *mockTokenStore) SaveTokens(ctx context.Context, tokens []domain.Token) error {
	m.saved = append(m.saved, tokens)
	return m.saveErr
}

func (m *mockTokenStore) LoadTokens(ctx context.Context) ([]domain.Token, error) {
	return m.stored, m.loadErr
}

type mockNewsProvider struct {
	mu      sync.Mutex
	queries []string
	fetch   func(ctx context.Context, query string) ([]domain.RawArticle, error)
}

func (m *mockNewsProvider) FetchEverything(ctx context.Context, query string) ([]domain.RawArticle, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	return m.fetch(ctx, query)
}

func (m *mockNewsProvider) calledWith() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

func articlesOK(raws ...domain.RawArticle) *mockNewsProvider {
	return &mockNewsProvider{fetch: func(context.Context, string) ([]domain.RawArticle, error) {
		return raws, nil
	}}
}

func articlesErr(err error) *mockNewsProvider {
	return &mockNewsProvider{fetch: func(context.Context, string) ([]domain.RawArticle, error) {
		return nil, err
	}}
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func btcQuote() domain.MarketQuote {
	return domain.MarketQuote{
		ID: "bitcoin", Symbol: "btc", Name: "Bitcoin",
		CurrentPrice: 67234, MarketCap: 1.32e12, TotalVolume: 28.5e9,
		PriceChangePercentage24h: 2.34, High24h: 68000, Low24h: 65500,
		LastUpdated: "2026-03-01T11:59:00Z",
	}
}

func ethQuote() domain.MarketQuote {
	return domain.MarketQuote{
		ID: "ethereum", Symbol: "eth", Name: "Ethereum",
		CurrentPrice: 3400, MarketCap: 4.1e11, TotalVolume: 1.2e10,
		PriceChangePercentage24h: -0.8, High24h: 3500, Low24h: 3300,
	}
}
