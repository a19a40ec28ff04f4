// Package app wires providers, caches, services and background loops into
// the runtime shared by every entry point.
package app

import (
	"context"
	"sync"
	"time"

	"token-pulse/internal/cache"
	"token-pulse/internal/config"
	"token-pulse/internal/db"
	"token-pulse/internal/job"
	"token-pulse/internal/provider"
	"token-pulse/internal/refresh"
	"token-pulse/internal/repository"
	"token-pulse/internal/service"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Deps are the external collaborators. Redis and Store are optional.
type Deps struct {
	Market service.MarketProvider
	News   service.NewsProvider
	Prober refresh.Prober
	Redis  service.RedisClient
	Store  service.TokenStore
}

type App struct {
	Market       *service.MarketService
	News         *service.NewsService
	Signals      *service.SignalService
	Orchestrator *refresh.Orchestrator
	Dashboard    *service.Dashboard
	Poller       *job.NewsPoller
}

var (
	initRedis    = cache.InitRedis
	initPostgres = db.InitPostgres
)

// Build connects the optional caches and the upstream providers, then wires
// the application. Cache failures are logged and the app runs without them.
func Build(ctx context.Context, cfg *config.Config, tracer trace.Tracer) *App {
	deps := Deps{}

	if err := initRedis(ctx, cfg.RedisURL); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, continuing without hot cache")
	} else if cache.Client != nil {
		deps.Redis = cache.Client
	}

	if err := initPostgres(ctx, cfg.DatabaseURL); err != nil {
		log.Warn().Err(err).Msg("postgres unavailable, continuing without durable token store")
	} else if db.Pool != nil {
		repo := repository.NewTokenRepository(db.Pool, tracer)
		if err := repo.RunMigrations(ctx); err != nil {
			log.Warn().Err(err).Msg("token snapshot migration failed, durable store disabled")
		} else {
			deps.Store = repo
		}
	}

	coingecko := provider.NewCoinGeckoProvider(tracer)
	deps.Market = coingecko
	deps.Prober = coingecko
	deps.News = provider.NewNewsAPIProvider(tracer, cfg.NewsAPIKey)

	return New(cfg, tracer, deps)
}

// New wires the services around the given collaborators without touching
// the network.
func New(cfg *config.Config, tracer trace.Tracer, deps Deps) *App {
	market := service.NewMarketService(tracer, deps.Market, deps.Store, deps.Redis)
	news := service.NewNewsService(tracer, deps.News, deps.Redis)
	signals := service.NewSignalService(tracer, market, news)
	orchestrator := refresh.New(tracer, deps.Prober, time.Duration(cfg.PricePollSecs)*time.Second)

	return &App{
		Market:       market,
		News:         news,
		Signals:      signals,
		Orchestrator: orchestrator,
		Dashboard:    service.NewDashboard(market, news, signals, orchestrator),
		Poller:       job.NewNewsPoller(tracer, news, cfg.NewsPollSecs),
	}
}

// Start seeds tokens from the caches, registers the token refresher with the
// orchestrator and launches the liveness ticker and news poller. The
// returned wait blocks until both loops exit after ctx is cancelled and
// then unregisters the refresher.
func (a *App) Start(ctx context.Context) (wait func()) {
	if a.Market.Warm(ctx) {
		log.Info().Msg("seeded tokens from cache")
	}
	a.Orchestrator.RegisterRefreshCallback(a.Market.RefreshTokens)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.Orchestrator.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := a.Poller.Start(ctx); err != nil {
			log.Error().Err(err).Msg("news poller failed to start")
		}
	}()

	return func() {
		wg.Wait()
		a.Orchestrator.UnregisterRefreshCallback()
	}
}
