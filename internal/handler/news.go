package handler

import (
	"net/http"

	"token-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetNews godoc
// @Summary      News for the selected asset
// @Description  Returns scored articles for the asset's news query, optionally filtered
// @Tags         news
// @Produce      json
// @Param        asset   query  string  false  "Asset symbol; unknown assets use the generic crypto feed"  default(BTC)
// @Param        filter  query  string  false  "all, positive, negative or trending"  default(all)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/news [get]
func (h *Handler) GetNews(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-news")
	defer span.End()

	asset := c.DefaultQuery("asset", domain.DefaultAsset)
	filter, ok := domain.ParseNewsFilter(c.Query("filter"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported filter: " + c.Query("filter")})
		return
	}
	span.SetAttributes(attribute.String("asset", asset), attribute.String("filter", string(filter)))

	articles := h.dashboard.GetNews(ctx, asset, filter)
	c.JSON(http.StatusOK, gin.H{
		"asset":    asset,
		"query":    domain.NewsQueryFor(asset),
		"filter":   filter,
		"articles": articles,
	})
}
