package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"token-pulse/internal/cache"
	"token-pulse/internal/domain"
	"token-pulse/internal/market"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	tokenCacheTTL = 24 * time.Hour

	// TokenFetchAdvisory is reported while cached or placeholder tokens are served.
	TokenFetchAdvisory = "Failed to fetch cryptocurrency data. Using cached data."
)

type MarketProvider interface {
	FetchMarkets(ctx context.Context, ids []string) ([]domain.MarketQuote, error)
}

// TokenStore is the durable last-known-good store.
type TokenStore interface {
	SaveTokens(ctx context.Context, tokens []domain.Token) error
	LoadTokens(ctx context.Context) ([]domain.Token, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// MarketService owns the published token set. The set is replaced as a
// whole and handed out as copies.
type MarketService struct {
	tracer   trace.Tracer
	provider MarketProvider
	store    TokenStore
	redis    RedisClient
	now      func() time.Time
	logger   zerolog.Logger

	issued atomic.Uint64

	mu       sync.RWMutex
	tokens   []domain.Token
	applied  uint64
	advisory string
}

// NewMarketService wires the price provider with optional caches; store and
// redisClient may be nil.
func NewMarketService(
	tracer trace.Tracer,
	provider MarketProvider,
	store TokenStore,
	redisClient RedisClient,
) *MarketService {
	return &MarketService{
		tracer:   tracer,
		provider: provider,
		store:    store,
		redis:    redisClient,
		now:      time.Now,
		logger:   log.With().Str("component", "market-service").Logger(),
	}
}

// RefreshTokens fetches every tracked asset and publishes the normalized set.
// On failure the previous set, a cached set or the placeholder stays
// published and the fetch error is returned to the caller.
func (s *MarketService) RefreshTokens(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "market-service.refresh-tokens")
	defer span.End()

	gen := s.issued.Add(1)
	fetchedAt := s.now()

	quotes, err := s.provider.FetchMarkets(ctx, domain.TrackedIDs())
	if err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).Msg("token fetch failed")
		s.fallback(ctx, gen)
		return err
	}

	tokens, skipped := market.NormalizeQuotes(quotes, fetchedAt)
	for _, skipErr := range skipped {
		s.logger.Warn().Err(skipErr).Msg("skipping market record")
	}
	if len(tokens) == 0 {
		err := fmt.Errorf("%w: no usable market records", domain.ErrFetchFailure)
		s.logger.Warn().Int("records", len(quotes)).Msg("token fetch returned no usable records")
		s.fallback(ctx, gen)
		return err
	}
	span.SetAttributes(attribute.Int("tokens", len(tokens)))

	if !s.publish(gen, tokens) {
		s.logger.Debug().Uint64("generation", gen).Msg("discarding superseded token fetch")
		return nil
	}
	s.persist(ctx, tokens)
	s.logger.Info().Int("tokens", len(tokens)).Msg("refreshed tokens")
	return nil
}

// publish swaps in a fetched set unless a newer fetch already completed.
func (s *MarketService) publish(gen uint64, tokens []domain.Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.applied {
		return false
	}
	s.tokens = tokens
	s.applied = gen
	s.advisory = ""
	return true
}

func (s *MarketService) fallback(ctx context.Context, gen uint64) {
	s.mu.RLock()
	haveSet := len(s.tokens) > 0
	s.mu.RUnlock()

	var recovered []domain.Token
	if !haveSet {
		recovered = s.loadLastKnownGood(ctx)
		if len(recovered) == 0 {
			recovered = []domain.Token{market.Placeholder(s.now())}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.applied {
		return
	}
	if len(s.tokens) == 0 {
		s.tokens = recovered
	}
	s.advisory = TokenFetchAdvisory
}

func (s *MarketService) persist(ctx context.Context, tokens []domain.Token) {
	if s.redis != nil {
		if err := cache.SetJSON(ctx, s.redis, cache.TokensKey, tokens, tokenCacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("redis token cache write failed")
		}
	}
	if s.store != nil {
		if err := s.store.SaveTokens(ctx, tokens); err != nil {
			s.logger.Warn().Err(err).Msg("token snapshot save failed")
		}
	}
}

func (s *MarketService) loadLastKnownGood(ctx context.Context) []domain.Token {
	if s.redis != nil {
		var cached []domain.Token
		ok, err := cache.GetJSON(ctx, s.redis, cache.TokensKey, &cached)
		if err != nil {
			s.logger.Warn().Err(err).Msg("redis token cache read failed")
		}
		if ok && len(cached) > 0 {
			return cached
		}
	}
	if s.store != nil {
		stored, err := s.store.LoadTokens(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("token snapshot load failed")
		}
		if len(stored) > 0 {
			return stored
		}
	}
	return nil
}

// Warm seeds an empty service from the caches so consumers have data before
// the first fetch completes. It does not set the advisory.
func (s *MarketService) Warm(ctx context.Context) bool {
	_, span := s.tracer.Start(ctx, "market-service.warm")
	defer span.End()

	recovered := s.loadLastKnownGood(ctx)
	if len(recovered) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tokens) > 0 {
		return false
	}
	s.tokens = recovered
	return true
}

// GetTokens returns a copy of the published set.
func (s *MarketService) GetTokens(ctx context.Context) []domain.Token {
	_, span := s.tracer.Start(ctx, "market-service.get-tokens")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// GetToken resolves a symbol or CoinGecko id against the published set.
func (s *MarketService) GetToken(ctx context.Context, symbol string) (domain.Token, error) {
	_, span := s.tracer.Start(ctx, "market-service.get-token")
	defer span.End()

	want := strings.ToUpper(strings.TrimSpace(symbol))
	if a, ok := domain.AssetBySymbol(symbol); ok {
		want = a.Symbol
	} else if want == "" {
		return domain.Token{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedSymbol, symbol)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tokens {
		if t.Symbol == want {
			return t, nil
		}
	}
	if _, ok := domain.AssetBySymbol(want); !ok {
		return domain.Token{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedSymbol, symbol)
	}
	return domain.Token{}, fmt.Errorf("%s: %w", want, domain.ErrNoData)
}

// Advisory is empty while live data is published.
func (s *MarketService) Advisory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.advisory
}

// IsUnavailable reports lookup errors that map to "not found" for callers.
func IsUnavailable(err error) bool {
	return errors.Is(err, domain.ErrUnsupportedSymbol) || errors.Is(err, domain.ErrNoData)
}
