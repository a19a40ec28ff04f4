package handler

import (
	"context"
	"time"

	"token-pulse/internal/domain"
	"token-pulse/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// Dashboard is the read and refresh surface the HTTP API exposes.
type Dashboard interface {
	GetTokens(ctx context.Context) []domain.Token
	GetToken(ctx context.Context, symbol string) (domain.Token, error)
	GetNews(ctx context.Context, asset string, filter domain.NewsFilter) []domain.NewsArticle
	GetSuggestion(ctx context.Context, symbol string) (*service.Suggestion, error)
	RefreshNow(ctx context.Context) error
	Status(asset string) service.Status
}

type Handler struct {
	tracer         trace.Tracer
	dashboard      Dashboard
	streamInterval time.Duration
}

func New(tracer trace.Tracer, dashboard Dashboard, streamInterval time.Duration) *Handler {
	if streamInterval <= 0 {
		streamInterval = 30 * time.Second
	}
	return &Handler{
		tracer:         tracer,
		dashboard:      dashboard,
		streamInterval: streamInterval,
	}
}

// RegisterRoutes mounts the API. apiKey guards the mutating route only.
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/status", h.GetStatus)
	api.GET("/tokens", h.GetTokens)
	api.GET("/tokens/:symbol", h.GetToken)
	api.GET("/tokens/:symbol/suggestion", h.GetSuggestion)
	api.GET("/news", h.GetNews)
	api.GET("/stream", h.Stream)
	api.POST("/refresh", APIKeyAuth(apiKey), h.Refresh)
}
