package service

import (
	"context"

	"token-pulse/internal/domain"
	"token-pulse/internal/signal"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type TokenReader interface {
	GetToken(ctx context.Context, symbol string) (domain.Token, error)
}

type NewsReader interface {
	GetNews(ctx context.Context, asset string, filter domain.NewsFilter) []domain.NewsArticle
}

// Suggestion pairs a recommendation with the snapshot it was derived from.
type Suggestion struct {
	Token      domain.Token             `json:"token"`
	Suggestion domain.TradingSuggestion `json:"suggestion"`
	Articles   int                      `json:"articles_considered"`
}

// SignalService combines the published token and news sets into a trading
// suggestion for one asset.
type SignalService struct {
	tracer trace.Tracer
	tokens TokenReader
	news   NewsReader
}

func NewSignalService(tracer trace.Tracer, tokens TokenReader, news NewsReader) *SignalService {
	return &SignalService{tracer: tracer, tokens: tokens, news: news}
}

func (s *SignalService) GetSuggestion(ctx context.Context, symbol string) (*Suggestion, error) {
	ctx, span := s.tracer.Start(ctx, "signal-service.get-suggestion")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	token, err := s.tokens.GetToken(ctx, symbol)
	if err != nil {
		return nil, err
	}
	articles := s.news.GetNews(ctx, token.Symbol, domain.FilterAll)
	suggestion := signal.Suggest(token, articles)
	span.SetAttributes(attribute.String("action", string(suggestion.Action)))

	return &Suggestion{Token: token, Suggestion: suggestion, Articles: len(articles)}, nil
}
