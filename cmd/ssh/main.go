package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"token-pulse/internal/app"
	"token-pulse/internal/config"
	"token-pulse/internal/db"
	"token-pulse/internal/tui"
	"token-pulse/pkg/logging"
	"token-pulse/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	wishlogging "github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	gossh "golang.org/x/crypto/ssh"
)

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	initLoggingFunc   = logging.Init
	initTracerFunc    = tracing.InitTracer
	buildAppFunc      = app.Build
	startAppFunc      = func(ctx context.Context, a *app.App) func() { return a.Start(ctx) }
	closeDBFunc       = db.Close
	newWishServerFunc = wish.NewServer
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

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

	if len(cfg.SSHAllowedFingerprints) == 0 {
		log.Warn().Msg("SSH_ALLOWED_FINGERPRINTS is empty, accepting any public key")
	}

	addr := fmt.Sprintf("%s:%d", cfg.SSHHost, cfg.SSHPort)
	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(publicKeyHandler(cfg.SSHAllowedFingerprints)),
		wish.WithMiddleware(
			bubbletea.Middleware(teaHandler(a.Dashboard)),
			wishlogging.Middleware(),
		),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create SSH server")
	}

	if srv != nil {
		go func() {
			log.Info().Str("addr", addr).Msg("SSH server listening")
			if err := srv.ListenAndServe(); err != nil && err != ssh.ErrServerClosed {
				log.Error().Err(err).Msg("SSH server stopped")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("shutting down SSH server")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("SSH server shutdown error")
		}
	}

	wait()
	closeDBFunc()
	log.Info().Msg("SSH server exited")
}

// publicKeyHandler accepts keys whose SHA256 fingerprint is listed. An empty
// list accepts every key.
func publicKeyHandler(allowed []string) ssh.PublicKeyHandler {
	set := make(map[string]struct{}, len(allowed))
	for _, fp := range allowed {
		set[strings.TrimSpace(fp)] = struct{}{}
	}
	return func(_ ssh.Context, key ssh.PublicKey) bool {
		fingerprint := gossh.FingerprintSHA256(key)
		if len(set) == 0 {
			return true
		}
		if _, ok := set[fingerprint]; !ok {
			log.Warn().Str("fingerprint", fingerprint).Msg("SSH auth denied")
			return false
		}
		log.Info().Str("fingerprint", fingerprint).Msg("SSH auth accepted")
		return true
	}
}

func teaHandler(dashboard tui.Dashboard) bubbletea.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		model := tui.NewModel(dashboard, s.User())
		pty, _, _ := s.Pty()
		model.SetSize(pty.Window.Width, pty.Window.Height)
		return model, []tea.ProgramOption{tea.WithAltScreen()}
	}
}
