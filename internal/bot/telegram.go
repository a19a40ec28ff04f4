package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"token-pulse/internal/domain"
	"token-pulse/internal/market"
	"token-pulse/internal/news"
	"token-pulse/internal/service"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

const maxNewsItems = 5

type Dashboard interface {
	GetToken(ctx context.Context, symbol string) (domain.Token, error)
	GetNews(ctx context.Context, asset string, filter domain.NewsFilter) []domain.NewsArticle
	GetSuggestion(ctx context.Context, symbol string) (*service.Suggestion, error)
	RefreshNow(ctx context.Context) error
	Status(asset string) service.Status
}

var newBot = tele.NewBot

// StartTelegramBot starts long polling in the background and stops it when
// ctx is cancelled. An empty token disables the bot.
func StartTelegramBot(ctx context.Context, token string, dashboard Dashboard) (*tele.Bot, error) {
	if strings.TrimSpace(token) == "" {
		log.Info().Msg("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil, nil
	}
	b, err := newBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	registerCommands(b, &commands{dashboard: dashboard, now: time.Now})

	go b.Start()
	go func() {
		<-ctx.Done()
		b.Stop()
	}()
	log.Info().Msg("Telegram bot started")
	return b, nil
}

type commands struct {
	dashboard Dashboard
	now       func() time.Time
}

func registerCommands(b *tele.Bot, c *commands) {
	b.Handle("/ping", c.ping)
	b.Handle("/price", c.price)
	b.Handle("/signal", c.signal)
	b.Handle("/news", c.news)
	b.Handle("/status", c.status)
	b.Handle("/refresh", c.refresh)
}

func (c *commands) ping(ctx tele.Context) error {
	return ctx.Send("pong")
}

func (c *commands) price(ctx tele.Context) error {
	symbol, ok := symbolArg(ctx.Args())
	if !ok {
		return ctx.Send(usage("/price BTC"))
	}
	token, err := c.dashboard.GetToken(context.Background(), symbol)
	if err != nil {
		return ctx.Send(lookupError(symbol, err))
	}
	return ctx.Send(FormatToken(token))
}

func (c *commands) signal(ctx tele.Context) error {
	symbol, ok := symbolArg(ctx.Args())
	if !ok {
		return ctx.Send(usage("/signal BTC"))
	}
	s, err := c.dashboard.GetSuggestion(context.Background(), symbol)
	if err != nil {
		return ctx.Send(lookupError(symbol, err))
	}
	return ctx.Send(FormatSuggestion(s))
}

func (c *commands) news(ctx tele.Context) error {
	args := ctx.Args()
	asset := domain.DefaultAsset
	if len(args) > 0 {
		asset = strings.ToUpper(args[0])
	}
	filter := domain.FilterAll
	if len(args) > 1 {
		f, ok := domain.ParseNewsFilter(strings.ToLower(args[1]))
		if !ok {
			return ctx.Send("Usage: /news BTC [all|positive|negative|trending]")
		}
		filter = f
	}
	articles := c.dashboard.GetNews(context.Background(), asset, filter)
	return ctx.Send(FormatNews(asset, articles, c.now()))
}

func (c *commands) status(ctx tele.Context) error {
	return ctx.Send(FormatStatus(c.dashboard.Status(domain.DefaultAsset), c.now()))
}

func (c *commands) refresh(ctx tele.Context) error {
	err := c.dashboard.RefreshNow(context.Background())
	msg := FormatStatus(c.dashboard.Status(domain.DefaultAsset), c.now())
	if err != nil {
		msg = "Refresh finished with errors: " + err.Error() + "\n\n" + msg
	}
	return ctx.Send(msg)
}

func symbolArg(args []string) (string, bool) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", false
	}
	return strings.ToUpper(strings.TrimSpace(args[0])), true
}

func usage(example string) string {
	return fmt.Sprintf("Usage: %s\nSupported: %s", example, strings.Join(domain.TrackedSymbols(), ", "))
}

func lookupError(symbol string, err error) string {
	if errors.Is(err, domain.ErrUnsupportedSymbol) {
		return fmt.Sprintf("Unknown symbol: %s\nSupported: %s", symbol, strings.Join(domain.TrackedSymbols(), ", "))
	}
	if errors.Is(err, domain.ErrNoData) {
		return fmt.Sprintf("No market data for %s yet, try again shortly.", symbol)
	}
	return fmt.Sprintf("Error fetching %s: %v", symbol, err)
}

func FormatToken(t domain.Token) string {
	return fmt.Sprintf(
		"%s (%s)\nPrice: %s\n24h Change: %s\n24h Volume: %s\nMarket Cap: %s\nSupport: $%s\nResistance: $%s",
		t.Symbol, t.Name, t.PriceDisplay, t.Change, t.Volume24hDisplay, t.MarketCapDisplay,
		market.FormatNumber(t.Support, 2), market.FormatNumber(t.Resistance, 2),
	)
}

func FormatSuggestion(s *service.Suggestion) string {
	sg := s.Suggestion
	return fmt.Sprintf(
		"%s: %s (%.0f%% confidence)\nTarget: $%s\nStop loss: $%s\nTimeframe: %s\n\n%s",
		s.Token.Symbol, strings.ToUpper(string(sg.Action)), sg.Confidence,
		market.FormatNumber(sg.PriceTarget, 2), market.FormatNumber(sg.StopLoss, 2),
		sg.Timeframe, sg.Reasoning,
	)
}

func FormatNews(asset string, articles []domain.NewsArticle, now time.Time) string {
	if len(articles) == 0 {
		return fmt.Sprintf("No news for %s.", asset)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "News for %s (%s)\n", asset, domain.NewsQueryFor(asset))
	for i, a := range articles {
		if i == maxNewsItems {
			break
		}
		fmt.Fprintf(&b, "\n[%s] %s\n%s · %s", a.Sentiment, a.Title, a.Source, news.TimeAgo(a.PublishedAt, now))
		if a.URL != "" && a.URL != "#" {
			fmt.Fprintf(&b, "\n%s", a.URL)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatStatus(st service.Status, now time.Time) string {
	state := "Offline"
	if st.IsLive {
		state = "Live"
	}
	if st.IsLoading {
		state += " (refreshing)"
	}
	last := "never"
	if !st.LastUpdate.IsZero() {
		last = news.TimeAgo(st.LastUpdate, now)
	}
	msg := fmt.Sprintf("Status: %s\nLast update: %s\nInterval: %s", state, last, st.Interval)
	for _, a := range st.Advisories {
		msg += "\n⚠ " + a
	}
	return msg
}
