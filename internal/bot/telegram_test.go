package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"token-pulse/internal/domain"
	"token-pulse/internal/service"

	tele "gopkg.in/telebot.v3"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	b, err := StartTelegramBot(context.Background(), "", nil)
	if err != nil || b != nil {
		t.Fatalf("expected no bot without token, got %v %v", b, err)
	}
}

func TestStartTelegramBotCreateError(t *testing.T) {
	orig := newBot
	newBot = func(tele.Settings) (*tele.Bot, error) { return nil, errors.New("unauthorized") }
	defer func() { newBot = orig }()

	if _, err := StartTelegramBot(context.Background(), "token", nil); err == nil {
		t.Fatal("expected create error")
	}
}

type fakeContext struct {
	tele.Context
	args []string
	sent []string
}

func (f *fakeContext) Args() []string { return f.args }

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.sent = append(f.sent, fmt.Sprint(what))
	return nil
}

func (f *fakeContext) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type stubDashboard struct {
	refreshErr error
	refreshed  int
	newsAsset  string
	newsFilter domain.NewsFilter
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func (s *stubDashboard) GetToken(ctx context.Context, symbol string) (domain.Token, error) {
	switch symbol {
	case "BTC":
		return domain.Token{
			Symbol: "BTC", Name: "Bitcoin", PriceDisplay: "$67,234", Change: "+2.34%",
			Volume24hDisplay: "$28.5B", MarketCapDisplay: "$1320.0B",
			Support: 65000, Resistance: 69000,
		}, nil
	case "SOL":
		return domain.Token{}, fmt.Errorf("SOL: %w", domain.ErrNoData)
	}
	return domain.Token{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedSymbol, symbol)
}

func (s *stubDashboard) GetNews(ctx context.Context, asset string, filter domain.NewsFilter) []domain.NewsArticle {
	s.newsAsset, s.newsFilter = asset, filter
	return []domain.NewsArticle{
		{Title: "Bitcoin adoption grows", Source: "CoinDesk", Sentiment: domain.SentimentPositive, URL: "https://a", PublishedAt: testNow.Add(-2 * time.Hour)},
		{Title: "Quiet day", Source: "Unknown Source", Sentiment: domain.SentimentNeutral, URL: "#", PublishedAt: testNow.Add(-5 * time.Minute)},
	}
}

func (s *stubDashboard) GetSuggestion(ctx context.Context, symbol string) (*service.Suggestion, error) {
	tok, err := s.GetToken(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &service.Suggestion{
		Token: tok,
		Suggestion: domain.TradingSuggestion{
			Action: domain.ActionHold, Confidence: 50, PriceTarget: 67234, StopLoss: 63872.3,
			Timeframe: domain.TimeframeHold, Reasoning: "Price in neutral zone.",
		},
	}, nil
}

func (s *stubDashboard) RefreshNow(ctx context.Context) error {
	s.refreshed++
	return s.refreshErr
}

func (s *stubDashboard) Status(asset string) service.Status {
	st := service.Status{Interval: "30s"}
	st.IsLive = true
	st.LastUpdate = testNow.Add(-3 * time.Minute)
	return st
}

func newTestCommands(d Dashboard) *commands {
	return &commands{dashboard: d, now: func() time.Time { return testNow }}
}

func TestPing(t *testing.T) {
	ctx := &fakeContext{}
	_ = newTestCommands(&stubDashboard{}).ping(ctx)
	if ctx.last() != "pong" {
		t.Fatalf("unexpected reply %q", ctx.last())
	}
}

func TestPriceCommand(t *testing.T) {
	c := newTestCommands(&stubDashboard{})

	tests := []struct {
		args []string
		want string
	}{
		{nil, "Usage: /price BTC"},
		{[]string{"btc"}, "Price: $67,234"},
		{[]string{"DOGE"}, "Unknown symbol: DOGE"},
		{[]string{"sol"}, "No market data for SOL"},
	}
	for _, tt := range tests {
		ctx := &fakeContext{args: tt.args}
		if err := c.price(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(ctx.last(), tt.want) {
			t.Fatalf("args %v: expected %q in %q", tt.args, tt.want, ctx.last())
		}
	}
}

func TestSignalCommand(t *testing.T) {
	ctx := &fakeContext{args: []string{"BTC"}}
	_ = newTestCommands(&stubDashboard{}).signal(ctx)

	msg := ctx.last()
	for _, want := range []string{"BTC: HOLD (50% confidence)", "Target: $67,234", "Stop loss: $63,872.3", "Wait for setup"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestNewsCommand(t *testing.T) {
	stub := &stubDashboard{}
	c := newTestCommands(stub)

	ctx := &fakeContext{args: []string{"eth", "POSITIVE"}}
	_ = c.news(ctx)
	if stub.newsAsset != "ETH" || stub.newsFilter != domain.FilterPositive {
		t.Fatalf("unexpected call: %q %q", stub.newsAsset, stub.newsFilter)
	}
	msg := ctx.last()
	if !strings.Contains(msg, "News for ETH (Ethereum)") || !strings.Contains(msg, "2 hours ago") || !strings.Contains(msg, "5 minutes ago") {
		t.Fatalf("unexpected news message: %q", msg)
	}
	if strings.Contains(msg, "\n#") {
		t.Fatalf("placeholder url should not be shown: %q", msg)
	}

	ctx = &fakeContext{args: []string{"BTC", "spicy"}}
	_ = c.news(ctx)
	if !strings.HasPrefix(ctx.last(), "Usage: /news") {
		t.Fatalf("expected usage, got %q", ctx.last())
	}
}

func TestRefreshCommand(t *testing.T) {
	stub := &stubDashboard{refreshErr: errors.New("fetch failure")}
	ctx := &fakeContext{}
	_ = newTestCommands(stub).refresh(ctx)

	if stub.refreshed != 1 {
		t.Fatalf("expected one refresh, got %d", stub.refreshed)
	}
	if !strings.HasPrefix(ctx.last(), "Refresh finished with errors: fetch failure") || !strings.Contains(ctx.last(), "Status: Live") {
		t.Fatalf("unexpected reply %q", ctx.last())
	}
}

func TestFormatStatus(t *testing.T) {
	st := service.Status{Interval: "30s", Advisories: []string{"Failed to fetch news data. Using cached news."}}
	msg := FormatStatus(st, testNow)
	if !strings.Contains(msg, "Status: Offline") || !strings.Contains(msg, "Last update: never") || !strings.Contains(msg, "Using cached news.") {
		t.Fatalf("unexpected status %q", msg)
	}

	st.IsLive, st.IsLoading = true, true
	st.LastUpdate = testNow.Add(-90 * time.Minute)
	msg = FormatStatus(st, testNow)
	if !strings.Contains(msg, "Status: Live (refreshing)") || !strings.Contains(msg, "1 hour ago") {
		t.Fatalf("unexpected status %q", msg)
	}
}

func TestFormatNewsEmpty(t *testing.T) {
	if got := FormatNews("BTC", nil, testNow); got != "No news for BTC." {
		t.Fatalf("unexpected %q", got)
	}
}
