package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"NEWS_API_KEY", "PRICE_POLL_SECS", "NEWS_POLL_SECS", "HTTP_PORT", "REDIS_URL",
		"SSH_PORT", "SSH_ALLOWED_FINGERPRINTS", "MCP_TRANSPORT", "LOG_LEVEL", "TRACING_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.PricePollSecs != 30 || cfg.NewsPollSecs != 300 {
		t.Fatalf("unexpected poll defaults: %d/%d", cfg.PricePollSecs, cfg.NewsPollSecs)
	}
	if cfg.HTTPPort != 8080 || cfg.SSHPort != 23234 || cfg.MCPHTTPPort != 8090 {
		t.Fatalf("unexpected port defaults: %+v", cfg)
	}
	if cfg.MCPTransport != "stdio" || cfg.LogLevel != "info" || !cfg.TracingEnabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.SSHAllowedFingerprints) != 0 {
		t.Fatalf("expected no fingerprints, got %v", cfg.SSHAllowedFingerprints)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "news-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("PRICE_POLL_SECS", "15")
	t.Setenv("NEWS_POLL_SECS", "600")
	t.Setenv("SSH_ALLOWED_FINGERPRINTS", "SHA256:abc, SHA256:def ,")
	t.Setenv("MCP_TRANSPORT", "HTTP")
	t.Setenv("TRACING_ENABLED", "false")

	cfg := Load()
	if cfg.NewsAPIKey != "news-key" || cfg.TelegramBotToken != "token" || cfg.DatabaseURL != "postgres://example" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.PricePollSecs != 15 || cfg.NewsPollSecs != 600 {
		t.Fatalf("unexpected poll secs: %d/%d", cfg.PricePollSecs, cfg.NewsPollSecs)
	}
	if len(cfg.SSHAllowedFingerprints) != 2 || cfg.SSHAllowedFingerprints[1] != "SHA256:def" {
		t.Fatalf("unexpected fingerprints: %v", cfg.SSHAllowedFingerprints)
	}
	if cfg.MCPTransport != "http" || cfg.TracingEnabled {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PRICE_POLL_SECS", "bad")
	t.Setenv("NEWS_POLL_SECS", "-5")
	t.Setenv("MCP_TRANSPORT", "carrier-pigeon")

	cfg := Load()
	if cfg.PricePollSecs != 30 {
		t.Fatalf("invalid poll secs should fall back to default, got %d", cfg.PricePollSecs)
	}
	if cfg.NewsPollSecs != 300 {
		t.Fatalf("negative poll secs should fall back to default, got %d", cfg.NewsPollSecs)
	}
	if cfg.MCPTransport != "stdio" {
		t.Fatalf("unsupported transport should fall back to stdio, got %s", cfg.MCPTransport)
	}
}
