package handler

import (
	"net/http"
	"strings"

	"token-pulse/internal/domain"
	"token-pulse/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetTokens godoc
// @Summary      Current token snapshots
// @Description  Returns the published token set with support and resistance levels
// @Tags         tokens
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/tokens [get]
func (h *Handler) GetTokens(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-tokens")
	defer span.End()

	tokens := h.dashboard.GetTokens(ctx)
	span.SetAttributes(attribute.Int("tokens", len(tokens)))
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// GetToken godoc
// @Summary      One token snapshot
// @Tags         tokens
// @Produce      json
// @Param        symbol  path  string  true  "Asset symbol (e.g., BTC, ETH)"
// @Success      200  {object}  domain.Token
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/tokens/{symbol} [get]
func (h *Handler) GetToken(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-token")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	token, err := h.dashboard.GetToken(ctx, symbol)
	if err != nil {
		writeLookupError(c, symbol, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// GetSuggestion godoc
// @Summary      Trading suggestion
// @Description  Derives a buy/sell/hold suggestion from the token snapshot and its news sentiment
// @Tags         tokens
// @Produce      json
// @Param        symbol  path  string  true  "Asset symbol (e.g., BTC, ETH)"
// @Success      200  {object}  service.Suggestion
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/tokens/{symbol}/suggestion [get]
func (h *Handler) GetSuggestion(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-suggestion")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	suggestion, err := h.dashboard.GetSuggestion(ctx, symbol)
	if err != nil {
		writeLookupError(c, symbol, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

func writeLookupError(c *gin.Context, symbol string, err error) {
	if service.IsUnavailable(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             err.Error(),
			"symbol":            symbol,
			"supported_symbols": domain.TrackedSymbols(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
