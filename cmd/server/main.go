package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"token-pulse/internal/app"
	"token-pulse/internal/bot"
	"token-pulse/internal/config"
	"token-pulse/internal/db"
	"token-pulse/internal/handler"
	"token-pulse/pkg/logging"
	"token-pulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	tele "gopkg.in/telebot.v3"

	_ "token-pulse/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initLoggingFunc        = logging.Init
	initTracerFunc         = tracing.InitTracer
	buildAppFunc           = app.Build
	startAppFunc           = func(ctx context.Context, a *app.App) func() { return a.Start(ctx) }
	startTelegramBotFunc   = func(ctx context.Context, token string, d bot.Dashboard) (*tele.Bot, error) { return bot.StartTelegramBot(ctx, token, d) }
	closeDBFunc            = db.Close
	newRouterFunc          = gin.New
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Token Pulse API
// @version         1.0
// @description     Crypto market snapshots, news sentiment and trading suggestions.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()
	initLoggingFunc(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, cfg.TracingEnabled, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	a := buildAppFunc(ctx, cfg, tracer)
	wait := startAppFunc(ctx, a)

	if _, err := startTelegramBotFunc(ctx, cfg.TelegramBotToken, a.Dashboard); err != nil {
		log.Error().Err(err).Msg("telegram bot disabled")
	}

	h := handler.New(tracer, a.Dashboard, a.Orchestrator.Interval())

	r := newRouterFunc()
	r.Use(gin.Recovery(), handler.RequestLogger(), otelgin.Middleware(tracing.ServiceName))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	wait()
	closeDBFunc()
	log.Info().Msg("server exiting")
}
