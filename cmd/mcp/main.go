package main

import (
	"context"
	"fmt"
	"net/http"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"token-pulse/internal/app"
	"token-pulse/internal/config"
	"token-pulse/internal/db"
	"token-pulse/internal/mcpserver"
	"token-pulse/pkg/logging"
	"token-pulse/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initLoggingFunc        = logging.Init
	initTracerFunc         = tracing.InitTracer
	buildAppFunc           = app.Build
	startAppFunc           = func(ctx context.Context, a *app.App) func() { return a.Start(ctx) }
	closeDBFunc            = db.Close
	signalContextFunc      = ossignal.NotifyContext
	runStdioFunc           = func(ctx context.Context, s *mcp.Server) error { return s.Run(ctx, &mcp.StdioTransport{}) }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()
	initLoggingFunc(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signalContextFunc(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, tracer, err := initTracerFunc(ctx, cfg.TracingEnabled, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	appCtx, cancelApp := context.WithCancel(ctx)
	a := buildAppFunc(appCtx, cfg, tracer)
	wait := startAppFunc(appCtx, a)

	server := mcpserver.NewServer(tracer, a.Dashboard, time.Duration(cfg.MCPRequestTimeoutSecs)*time.Second)

	if err := serve(ctx, cfg, server); err != nil {
		log.Error().Err(err).Msg("MCP server stopped")
	}

	cancelApp()
	wait()
	closeDBFunc()
	log.Info().Msg("MCP server exited")
}

func serve(ctx context.Context, cfg *config.Config, server *mcp.Server) error {
	switch strings.ToLower(strings.TrimSpace(cfg.MCPTransport)) {
	case "", "stdio":
		log.Info().Msg("MCP server on stdio")
		return runStdioFunc(ctx, server)
	case "http":
		return serveHTTP(ctx, cfg, server)
	default:
		return fmt.Errorf("unknown MCP_TRANSPORT %q: use stdio or http", cfg.MCPTransport)
	}
}

func serveHTTP(ctx context.Context, cfg *config.Config, server *mcp.Server) error {
	if cfg.MCPAuthToken == "" {
		log.Warn().Msg("MCP_AUTH_TOKEN is empty, HTTP transport is unauthenticated")
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort),
		Handler:           mcpserver.NewHTTPHandler(server, cfg.MCPAuthToken, cfg.MCPRateLimitPerMin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("MCP HTTP server listening")
		errCh <- startHTTPServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return shutdownHTTPServerFunc(srv, shutdownCtx)
}
