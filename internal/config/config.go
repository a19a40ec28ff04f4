package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	NewsAPIKey    string
	PricePollSecs int
	NewsPollSecs  int

	HTTPPort int
	APIKey   string

	DatabaseURL string
	RedisURL    string

	TelegramBotToken string

	SSHHost                string
	SSHPort                int
	SSHHostKeyPath         string
	SSHAllowedFingerprints []string

	MCPTransport          string
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPAuthToken          string
	MCPRequestTimeoutSecs int
	MCPRateLimitPerMin    int

	LogLevel       string
	LogFormat      string
	TracingEnabled bool
	OTLPEndpoint   string
}

var defaults = map[string]any{
	"PRICE_POLL_SECS":          30,
	"NEWS_POLL_SECS":           300,
	"HTTP_PORT":                8080,
	"REDIS_URL":                "localhost:6379",
	"SSH_HOST":                 "0.0.0.0",
	"SSH_PORT":                 23234,
	"SSH_HOST_KEY_PATH":        ".ssh/token_pulse_ed25519",
	"MCP_TRANSPORT":            "stdio",
	"MCP_HTTP_BIND":            "127.0.0.1",
	"MCP_HTTP_PORT":            8090,
	"MCP_REQUEST_TIMEOUT_SECS": 5,
	"MCP_RATE_LIMIT_PER_MIN":   60,
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               "json",
	"TRACING_ENABLED":          true,
}

// Load reads the environment (after godotenv has populated it). Invalid or
// non-positive numbers fall back to their defaults.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	cfg := &Config{
		NewsAPIKey:       strings.TrimSpace(v.GetString("NEWS_API_KEY")),
		APIKey:           strings.TrimSpace(v.GetString("API_KEY")),
		DatabaseURL:      strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisURL:         strings.TrimSpace(v.GetString("REDIS_URL")),
		TelegramBotToken: strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		SSHHost:          strings.TrimSpace(v.GetString("SSH_HOST")),
		SSHHostKeyPath:   strings.TrimSpace(v.GetString("SSH_HOST_KEY_PATH")),
		MCPHTTPBind:      strings.TrimSpace(v.GetString("MCP_HTTP_BIND")),
		MCPAuthToken:     strings.TrimSpace(v.GetString("MCP_AUTH_TOKEN")),
		LogLevel:         strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		LogFormat:        strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),
		TracingEnabled:   v.GetBool("TRACING_ENABLED"),
		OTLPEndpoint:     strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}

	cfg.PricePollSecs = positiveInt(v, "PRICE_POLL_SECS")
	cfg.NewsPollSecs = positiveInt(v, "NEWS_POLL_SECS")
	cfg.HTTPPort = positiveInt(v, "HTTP_PORT")
	cfg.SSHPort = positiveInt(v, "SSH_PORT")
	cfg.MCPHTTPPort = positiveInt(v, "MCP_HTTP_PORT")
	cfg.MCPRequestTimeoutSecs = positiveInt(v, "MCP_REQUEST_TIMEOUT_SECS")
	cfg.MCPRateLimitPerMin = positiveInt(v, "MCP_RATE_LIMIT_PER_MIN")

	cfg.SSHAllowedFingerprints = splitList(v.GetString("SSH_ALLOWED_FINGERPRINTS"))

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(v.GetString("MCP_TRANSPORT")))
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Warn().Str("value", cfg.MCPTransport).Msg("unsupported MCP_TRANSPORT, defaulting to stdio")
		cfg.MCPTransport = "stdio"
	}

	if cfg.NewsAPIKey == "" {
		log.Warn().Msg("NEWS_API_KEY not set, news will use the fallback feed")
	}
	if cfg.TelegramBotToken == "" {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set")
	}

	return cfg
}

func positiveInt(v *viper.Viper, key string) int {
	if n := v.GetInt(key); n > 0 {
		return n
	}
	log.Warn().Str("key", key).Str("value", v.GetString(key)).Msg("invalid value, using default")
	return defaults[key].(int)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
