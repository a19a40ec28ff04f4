// Package mcpserver exposes the dashboard as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"token-pulse/internal/domain"
	"token-pulse/internal/service"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServerName     = "token-pulse"
	ServerVersion  = "1.0.0"
	DefaultTimeout = 5 * time.Second
)

type Dashboard interface {
	GetTokens(ctx context.Context) []domain.Token
	GetNews(ctx context.Context, asset string, filter domain.NewsFilter) []domain.NewsArticle
	GetSuggestion(ctx context.Context, symbol string) (*service.Suggestion, error)
	RefreshNow(ctx context.Context) error
	Status(asset string) service.Status
}

type (
	NoInput struct{}

	NewsInput struct {
		Asset  string `json:"asset,omitempty" jsonschema:"tracked symbol such as BTC; unknown values use the generic cryptocurrency feed"`
		Filter string `json:"filter,omitempty" jsonschema:"one of all, positive, negative, trending"`
	}

	SymbolInput struct {
		Symbol string `json:"symbol" jsonschema:"tracked symbol such as BTC or ETH"`
	}

	StatusInput struct {
		Asset string `json:"asset,omitempty" jsonschema:"asset whose news advisory is included"`
	}
)

type TokensOutput struct {
	Tokens []domain.Token `json:"tokens"`
}

type NewsOutput struct {
	Asset    string               `json:"asset"`
	Query    string               `json:"query"`
	Filter   domain.NewsFilter    `json:"filter"`
	Articles []domain.NewsArticle `json:"articles"`
}

type RefreshOutput struct {
	Refreshed bool           `json:"refreshed"`
	Error     string         `json:"error,omitempty"`
	Status    service.Status `json:"status"`
}

type tools struct {
	tracer    trace.Tracer
	dashboard Dashboard
	timeout   time.Duration
}

// NewServer registers every dashboard tool on a fresh MCP server. Each tool
// call runs under timeout.
func NewServer(tracer trace.Tracer, dashboard Dashboard, timeout time.Duration) *mcp.Server {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := &tools{tracer: tracer, dashboard: dashboard, timeout: timeout}

	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: ServerVersion}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_tokens",
		Description: "Latest market snapshot for every tracked asset with support and resistance levels",
	}, t.getTokens)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_news",
		Description: "Scored news articles for an asset, optionally filtered by sentiment or trending",
	}, t.getNews)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_suggestion",
		Description: "Buy, sell or hold recommendation for one asset with confidence, target and stop loss",
	}, t.getSuggestion)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "refresh_now",
		Description: "Run a liveness probe and token refresh immediately",
	}, t.refreshNow)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_status",
		Description: "Upstream liveness, last update time and cached-data advisories",
	}, t.getStatus)
	return server
}

func (t *tools) start(ctx context.Context, name string) (context.Context, context.CancelFunc, trace.Span) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	ctx, span := t.tracer.Start(ctx, "mcp."+name)
	return ctx, cancel, span
}

func (t *tools) getTokens(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
	ctx, cancel, span := t.start(ctx, "get-tokens")
	defer cancel()
	defer span.End()

	tokens := t.dashboard.GetTokens(ctx)
	span.SetAttributes(attribute.Int("tokens.count", len(tokens)))
	return jsonResult(TokensOutput{Tokens: tokens})
}

func (t *tools) getNews(ctx context.Context, _ *mcp.CallToolRequest, in NewsInput) (*mcp.CallToolResult, any, error) {
	ctx, cancel, span := t.start(ctx, "get-news")
	defer cancel()
	defer span.End()

	filter, ok := domain.ParseNewsFilter(strings.ToLower(strings.TrimSpace(in.Filter)))
	if !ok {
		return errorResult(fmt.Errorf("invalid filter %q: use all, positive, negative or trending", in.Filter))
	}
	asset := strings.TrimSpace(in.Asset)
	if asset == "" {
		asset = domain.DefaultAsset
	}
	span.SetAttributes(attribute.String("news.asset", asset), attribute.String("news.filter", string(filter)))

	return jsonResult(NewsOutput{
		Asset:    strings.ToUpper(asset),
		Query:    domain.NewsQueryFor(asset),
		Filter:   filter,
		Articles: t.dashboard.GetNews(ctx, asset, filter),
	})
}

func (t *tools) getSuggestion(ctx context.Context, _ *mcp.CallToolRequest, in SymbolInput) (*mcp.CallToolResult, any, error) {
	ctx, cancel, span := t.start(ctx, "get-suggestion")
	defer cancel()
	defer span.End()

	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	span.SetAttributes(attribute.String("token.symbol", symbol))

	s, err := t.dashboard.GetSuggestion(ctx, symbol)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, domain.ErrUnsupportedSymbol) {
			return errorResult(fmt.Errorf("%s is not a tracked asset", symbol))
		}
		return errorResult(err)
	}
	return jsonResult(s)
}

func (t *tools) refreshNow(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
	ctx, cancel, span := t.start(ctx, "refresh-now")
	defer cancel()
	defer span.End()

	out := RefreshOutput{Refreshed: true}
	if err := t.dashboard.RefreshNow(ctx); err != nil {
		span.RecordError(err)
		out.Refreshed = false
		out.Error = err.Error()
	}
	out.Status = t.dashboard.Status(domain.DefaultAsset)
	return jsonResult(out)
}

func (t *tools) getStatus(ctx context.Context, _ *mcp.CallToolRequest, in StatusInput) (*mcp.CallToolResult, any, error) {
	_, cancel, span := t.start(ctx, "get-status")
	defer cancel()
	defer span.End()

	asset := strings.TrimSpace(in.Asset)
	if asset == "" {
		asset = domain.DefaultAsset
	}
	return jsonResult(t.dashboard.Status(asset))
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil, nil
}

func errorResult(err error) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}, nil, nil
}
