package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"token-pulse/internal/cache"
	"token-pulse/internal/domain"
)

func newTestMarketService(p MarketProvider, store TokenStore, r RedisClient) *MarketService {
	svc := NewMarketService(testTracer, p, store, r)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

var errUpstream = fmt.Errorf("%w: coingecko status 503", domain.ErrFetchFailure)

func TestMarketService_RefreshPublishesNormalizedSet(t *testing.T) {
	t.Parallel()

	redis := newFakeRedis()
	store := &mockTokenStore{}
	svc := newTestMarketService(quotesOK(btcQuote(), ethQuote()), store, redis)

	if err := svc.RefreshTokens(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokens := svc.GetTokens(context.Background())
	if len(tokens) != 2 || tokens[0].Symbol != "BTC" || tokens[1].Symbol != "ETH" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
	if tokens[0].Support != 65500*0.98 || tokens[0].Resistance != 68000*1.02 {
		t.Fatalf("unexpected levels: %+v", tokens[0])
	}
	if svc.Advisory() != "" {
		t.Fatalf("expected no advisory, got %q", svc.Advisory())
	}
	if _, ok := redis.data[cache.TokensKey]; !ok {
		t.Fatal("tokens not cached in redis")
	}
	if len(store.saved) != 1 || len(store.saved[0]) != 2 {
		t.Fatalf("tokens not persisted: %+v", store.saved)
	}
}

func TestMarketService_MalformedRecordSkipped(t *testing.T) {
	t.Parallel()

	bad := ethQuote()
	bad.CurrentPrice = 0
	svc := newTestMarketService(quotesOK(btcQuote(), bad), nil, nil)

	if err := svc.RefreshTokens(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tokens := svc.GetTokens(context.Background())
	if len(tokens) != 1 || tokens[0].Symbol != "BTC" {
		t.Fatalf("expected only BTC, got %+v", tokens)
	}
}

func TestMarketService_FirstFailureServesPlaceholder(t *testing.T) {
	t.Parallel()

	svc := newTestMarketService(quotesErr(errUpstream), nil, nil)

	err := svc.RefreshTokens(context.Background())
	if !errors.Is(err, domain.ErrFetchFailure) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
	tokens := svc.GetTokens(context.Background())
	if len(tokens) != 1 {
		t.Fatalf("expected placeholder only, got %+v", tokens)
	}
	p := tokens[0]
	if p.Symbol != "BTC" || p.Price != 67234 || p.Support != 65000 || p.Resistance != 69000 {
		t.Fatalf("unexpected placeholder: %+v", p)
	}
	if svc.Advisory() != TokenFetchAdvisory {
		t.Fatalf("unexpected advisory %q", svc.Advisory())
	}
}

func TestMarketService_FailureKeepsLastKnownGood(t *testing.T) {
	t.Parallel()

	provider := quotesOK(btcQuote(), ethQuote())
	svc := newTestMarketService(provider, nil, nil)
	if err := svc.RefreshTokens(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	provider.fetch = quotesErr(errUpstream).fetch
	_ = svc.RefreshTokens(context.Background())

	tokens := svc.GetTokens(context.Background())
	if len(tokens) != 2 || tokens[0].Price != 67234 {
		t.Fatalf("expected last known good set, got %+v", tokens)
	}
	if svc.Advisory() != TokenFetchAdvisory {
		t.Fatalf("expected advisory, got %q", svc.Advisory())
	}

	provider.fetch = quotesOK(btcQuote()).fetch
	if err := svc.RefreshTokens(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Advisory() != "" {
		t.Fatal("advisory should clear after a successful fetch")
	}
}

func TestMarketService_AllMalformedFallsBack(t *testing.T) {
	t.Parallel()

	bad := btcQuote()
	bad.CurrentPrice = -1
	svc := newTestMarketService(quotesOK(bad), nil, nil)

	if err := svc.RefreshTokens(context.Background()); !errors.Is(err, domain.ErrFetchFailure) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
	if tokens := svc.GetTokens(context.Background()); len(tokens) != 1 || tokens[0].Price != 67234 {
		t.Fatalf("expected placeholder, got %+v", tokens)
	}
}

func TestMarketService_FirstFailureRecoversFromRedis(t *testing.T) {
	t.Parallel()

	redis := newFakeRedis()
	cached := []domain.Token{{Symbol: "SOL", Price: 150}}
	data, _ := json.Marshal(cached)
	_ = redis.Set(context.Background(), cache.TokensKey, data, 0)

	store := &mockTokenStore{stored: []domain.Token{{Symbol: "ADA", Price: 0.5}}}
	svc := newTestMarketService(quotesErr(errUpstream), store, redis)
	_ = svc.RefreshTokens(context.Background())

	tokens := svc.GetTokens(context.Background())
	if len(tokens) != 1 || tokens[0].Symbol != "SOL" {
		t.Fatalf("expected redis set, got %+v", tokens)
	}
}

func TestMarketService_FirstFailureRecoversFromStore(t *testing.T) {
	t.Parallel()

	redis := newFakeRedis()
	redis.getErr = errors.New("redis down")
	store := &mockTokenStore{stored: []domain.Token{{Symbol: "ADA", Price: 0.5}}}
	svc := newTestMarketService(quotesErr(errUpstream), store, redis)
	_ = svc.RefreshTokens(context.Background())

	tokens := svc.GetTokens(context.Background())
	if len(tokens) != 1 || tokens[0].Symbol != "ADA" {
		t.Fatalf("expected stored set, got %+v", tokens)
	}
	if svc.Advisory() != TokenFetchAdvisory {
		t.Fatalf("expected advisory, got %q", svc.Advisory())
	}
}

func TestMarketService_WarmSeedsEmptyService(t *testing.T) {
	t.Parallel()

	store := &mockTokenStore{stored: []domain.Token{{Symbol: "XRP", Price: 0.6}}}
	svc := newTestMarketService(quotesOK(btcQuote()), store, nil)

	if !svc.Warm(context.Background()) {
		t.Fatal("expected warm to seed tokens")
	}
	if tokens := svc.GetTokens(context.Background()); len(tokens) != 1 || tokens[0].Symbol != "XRP" {
		t.Fatalf("unexpected warm set: %+v", tokens)
	}
	if svc.Advisory() != "" {
		t.Fatal("warm should not set an advisory")
	}
	if svc.Warm(context.Background()) {
		t.Fatal("warm should not overwrite a populated set")
	}
}

func TestMarketService_StaleFetchDiscarded(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	slowQuote := btcQuote()
	slowQuote.CurrentPrice = 1000
	fastQuote := btcQuote()
	fastQuote.CurrentPrice = 2000

	calls := 0
	provider := &mockMarketProvider{}
	provider.fetch = func(ctx context.Context, ids []string) ([]domain.MarketQuote, error) {
		calls++
		if calls == 1 {
			close(started)
			<-release
			return []domain.MarketQuote{slowQuote}, nil
		}
		return []domain.MarketQuote{fastQuote}, nil
	}
	svc := newTestMarketService(provider, nil, nil)

	done := make(chan struct{})
	go func() {
		_ = svc.RefreshTokens(context.Background())
		close(done)
	}()
	<-started
	if err := svc.RefreshTokens(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(release)
	<-done

	tokens := svc.GetTokens(context.Background())
	if len(tokens) != 1 || tokens[0].Price != 2000 {
		t.Fatalf("stale fetch overwrote newer set: %+v", tokens)
	}
}

func TestMarketService_GetTokensReturnsCopy(t *testing.T) {
	t.Parallel()

	svc := newTestMarketService(quotesOK(btcQuote()), nil, nil)
	_ = svc.RefreshTokens(context.Background())

	tokens := svc.GetTokens(context.Background())
	tokens[0].Price = 1
	if svc.GetTokens(context.Background())[0].Price != 67234 {
		t.Fatal("mutating a returned slice changed the published set")
	}
}

func TestMarketService_GetToken(t *testing.T) {
	t.Parallel()

	svc := newTestMarketService(quotesOK(btcQuote(), ethQuote()), nil, nil)
	_ = svc.RefreshTokens(context.Background())

	for _, in := range []string{"BTC", "btc", "bitcoin"} {
		tok, err := svc.GetToken(context.Background(), in)
		if err != nil || tok.Symbol != "BTC" {
			t.Fatalf("%s: expected BTC, got %+v err=%v", in, tok, err)
		}
	}
	if _, err := svc.GetToken(context.Background(), "SOL"); !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("expected no data for SOL, got %v", err)
	}
	if _, err := svc.GetToken(context.Background(), "DOGE"); !errors.Is(err, domain.ErrUnsupportedSymbol) {
		t.Fatalf("expected unsupported for DOGE, got %v", err)
	}
	if _, err := svc.GetToken(context.Background(), ""); !IsUnavailable(err) {
		t.Fatalf("expected unavailable for empty symbol, got %v", err)
	}
}

func TestMarketService_PersistFailuresAreAbsorbed(t *testing.T) {
	t.Parallel()

	redis := newFakeRedis()
	redis.setErr = errors.New("readonly")
	store := &mockTokenStore{saveErr: errors.New("disk full")}
	svc := newTestMarketService(quotesOK(btcQuote()), store, redis)

	if err := svc.RefreshTokens(context.Background()); err != nil {
		t.Fatalf("persistence errors should not fail the refresh: %v", err)
	}
	if len(svc.GetTokens(context.Background())) != 1 {
		t.Fatal("token set should still be published")
	}
}
