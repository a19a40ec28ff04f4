package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// DefaultNewsInterval matches the NewsAPI free tier budget.
const DefaultNewsInterval = 300 * time.Second

type NewsRefresher interface {
	RefreshActive(ctx context.Context) error
}

// NewsPoller refreshes every active news query on a cron schedule,
// independently of the liveness ticker.
type NewsPoller struct {
	tracer   trace.Tracer
	news     NewsRefresher
	interval time.Duration
	logger   zerolog.Logger
}

func NewNewsPoller(tracer trace.Tracer, news NewsRefresher, pollIntervalSecs int) *NewsPoller {
	interval := time.Duration(pollIntervalSecs) * time.Second
	if interval <= 0 {
		interval = DefaultNewsInterval
	}
	return &NewsPoller{
		tracer:   tracer,
		news:     news,
		interval: interval,
		logger:   log.With().Str("component", "news-poller").Logger(),
	}
}

// Spec is the cron schedule the poller registers.
func (p *NewsPoller) Spec() string {
	return fmt.Sprintf("@every %s", p.interval)
}

// Start runs one refresh immediately, then on schedule. Blocks until ctx is
// cancelled and waits for a running refresh to finish.
func (p *NewsPoller) Start(ctx context.Context) error {
	p.logger.Info().Dur("interval", p.interval).Msg("news poller starting")

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(p.Spec(), func() { p.run(ctx) }); err != nil {
		return fmt.Errorf("schedule news poller: %w", err)
	}

	p.run(ctx)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	p.logger.Info().Msg("news poller stopped")
	return nil
}

func (p *NewsPoller) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, span := p.tracer.Start(ctx, "news-poller.run")
	defer span.End()

	if err := p.news.RefreshActive(ctx); err != nil {
		p.logger.Warn().Err(err).Msg("news refresh error")
	}
}
