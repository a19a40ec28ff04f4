package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"token-pulse/internal/cache"
	"token-pulse/internal/domain"
	"token-pulse/internal/news"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	newsCacheTTL = 6 * time.Hour

	// NewsFetchAdvisory is reported while cached or fallback news is served.
	NewsFetchAdvisory = "Failed to fetch news data. Using cached news."
)

type NewsProvider interface {
	FetchEverything(ctx context.Context, query string) ([]domain.RawArticle, error)
}

type newsCollection struct {
	articles []domain.NewsArticle
	applied  uint64
	advisory string
	loaded   bool
}

// NewsService keeps one article collection per news query. Queries become
// active once requested and are refreshed by the poller from then on.
type NewsService struct {
	tracer   trace.Tracer
	provider NewsProvider
	redis    RedisClient
	now      func() time.Time
	logger   zerolog.Logger

	issued atomic.Uint64

	mu          sync.RWMutex
	collections map[string]*newsCollection
}

func NewNewsService(tracer trace.Tracer, provider NewsProvider, redisClient RedisClient) *NewsService {
	s := &NewsService{
		tracer:      tracer,
		provider:    provider,
		redis:       redisClient,
		now:         time.Now,
		logger:      log.With().Str("component", "news-service").Logger(),
		collections: make(map[string]*newsCollection),
	}
	s.Activate(domain.NewsQueryFor(domain.DefaultAsset))
	return s
}

// Activate registers a query for polling without fetching it.
func (s *NewsService) Activate(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[query]; !ok {
		s.collections[query] = &newsCollection{}
	}
}

// ActiveQueries lists the polled queries in a stable order.
func (s *NewsService) ActiveQueries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	queries := make([]string, 0, len(s.collections))
	for q := range s.collections {
		queries = append(queries, q)
	}
	sort.Strings(queries)
	return queries
}

// RefreshNews fetches one query and publishes the normalized batch. On
// failure the previous batch, a cached batch or the fallback article stays
// published and the fetch error is returned.
func (s *NewsService) RefreshNews(ctx context.Context, query string) error {
	ctx, span := s.tracer.Start(ctx, "news-service.refresh-news")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	s.Activate(query)
	gen := s.issued.Add(1)
	fetchedAt := s.now()

	raws, err := s.provider.FetchEverything(ctx, query)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).Str("query", query).Msg("news fetch failed")
		s.fallback(ctx, query, gen)
		return err
	}

	articles := news.NormalizeBatch(raws, query, fetchedAt)
	if !s.publish(query, gen, articles) {
		s.logger.Debug().Str("query", query).Uint64("generation", gen).Msg("discarding superseded news fetch")
		return nil
	}
	if s.redis != nil {
		if err := cache.SetJSON(ctx, s.redis, cache.NewsKey(query), articles, newsCacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("redis news cache write failed")
		}
	}
	s.logger.Info().Str("query", query).Int("articles", len(articles)).Msg("refreshed news")
	return nil
}

// RefreshActive refreshes every active query. Individual failures are
// already absorbed into fallbacks; the last one is returned.
func (s *NewsService) RefreshActive(ctx context.Context) error {
	var lastErr error
	for _, q := range s.ActiveQueries() {
		if err := s.RefreshNews(ctx, q); err != nil {
			lastErr = fmt.Errorf("refresh %s: %w", q, err)
		}
	}
	return lastErr
}

func (s *NewsService) publish(query string, gen uint64, articles []domain.NewsArticle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(query)
	if gen < c.applied {
		return false
	}
	c.articles = articles
	c.applied = gen
	c.advisory = ""
	c.loaded = true
	return true
}

func (s *NewsService) fallback(ctx context.Context, query string, gen uint64) {
	s.mu.RLock()
	empty := len(s.collection(query).articles) == 0
	s.mu.RUnlock()

	var recovered []domain.NewsArticle
	if empty {
		if s.redis != nil {
			ok, err := cache.GetJSON(ctx, s.redis, cache.NewsKey(query), &recovered)
			if err != nil {
				s.logger.Warn().Err(err).Msg("redis news cache read failed")
			}
			if !ok {
				recovered = nil
			}
		}
		if len(recovered) == 0 {
			recovered = []domain.NewsArticle{news.Fallback(s.now())}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(query)
	if gen < c.applied {
		return
	}
	// An empty board gets the recovered set even after an empty success.
	if len(c.articles) == 0 && len(recovered) > 0 {
		c.articles = recovered
	}
	c.loaded = true
	c.advisory = NewsFetchAdvisory
}

// collection must be called with mu held.
func (s *NewsService) collection(query string) *newsCollection {
	c, ok := s.collections[query]
	if !ok {
		c = &newsCollection{}
		s.collections[query] = c
	}
	return c
}

// GetNews returns the filtered articles for the selected asset, fetching the
// asset's query on first use.
func (s *NewsService) GetNews(ctx context.Context, asset string, filter domain.NewsFilter) []domain.NewsArticle {
	ctx, span := s.tracer.Start(ctx, "news-service.get-news")
	defer span.End()

	query := domain.NewsQueryFor(asset)
	span.SetAttributes(attribute.String("query", query), attribute.String("filter", string(filter)))

	s.mu.RLock()
	c, ok := s.collections[query]
	loaded := ok && c.loaded
	s.mu.RUnlock()
	if !loaded {
		_ = s.RefreshNews(ctx, query)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return news.Filter(s.collections[query].articles, filter)
}

// Advisory returns the advisory for the selected asset's query.
func (s *NewsService) Advisory(asset string) string {
	query := domain.NewsQueryFor(asset)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.collections[query]; ok {
		return c.advisory
	}
	return ""
}
