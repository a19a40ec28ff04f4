package mcpserver

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"token-pulse/internal/handler"
	"token-pulse/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const DefaultRatePerMinute = 60

// NewHTTPHandler serves the MCP server over streamable HTTP at /mcp behind a
// bearer token and a per-minute request budget. An empty token disables auth.
func NewHTTPHandler(server *mcp.Server, authToken string, perMinute int) http.Handler {
	if perMinute <= 0 {
		perMinute = DefaultRatePerMinute
	}
	limiter := provider.NewRateLimiter(perMinute, time.Minute/time.Duration(perMinute))

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(), otelgin.Middleware(ServerName+"-mcp"))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.Any("/mcp", BearerAuth(authToken), RateLimit(limiter), gin.WrapH(streamable))
	return r
}

// BearerAuth rejects requests whose Authorization header does not carry token.
func BearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		provided, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(provided) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(provided)), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid bearer token"})
			return
		}
		c.Next()
	}
}

// RateLimit answers 429 once the limiter's budget is spent.
func RateLimit(limiter *provider.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
