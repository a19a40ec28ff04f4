package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"token-pulse/internal/domain"
	"token-pulse/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type stubDashboard struct {
	mu           sync.Mutex
	tokens       []domain.Token
	articles     []domain.NewsArticle
	suggestion   *service.Suggestion
	refreshErr   error
	refreshCalls int
	status       service.Status
	statusAsset  string
	newsAsset    string
	newsFilter   domain.NewsFilter
}

func (s *stubDashboard) GetTokens(ctx context.Context) []domain.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Token(nil), s.tokens...)
}

func (s *stubDashboard) GetToken(ctx context.Context, symbol string) (domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Symbol == symbol {
			return t, nil
		}
	}
	if _, ok := domain.AssetBySymbol(symbol); !ok {
		return domain.Token{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedSymbol, symbol)
	}
	return domain.Token{}, fmt.Errorf("%s: %w", symbol, domain.ErrNoData)
}

func (s *stubDashboard) GetNews(ctx context.Context, asset string, filter domain.NewsFilter) []domain.NewsArticle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newsAsset, s.newsFilter = asset, filter
	return s.articles
}

func (s *stubDashboard) GetSuggestion(ctx context.Context, symbol string) (*service.Suggestion, error) {
	if _, err := s.GetToken(ctx, symbol); err != nil {
		return nil, err
	}
	return s.suggestion, nil
}

func (s *stubDashboard) RefreshNow(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshCalls++
	return s.refreshErr
}

func (s *stubDashboard) Status(asset string) service.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusAsset = asset
	return s.status
}

func newTestHandler(d Dashboard) *Handler {
	return New(trace.NewNoopTracerProvider().Tracer("handler-test"), d, 20*time.Millisecond)
}

func newTestRouter(d Dashboard, apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	newTestHandler(d).RegisterRoutes(r, apiKey)
	return r
}
