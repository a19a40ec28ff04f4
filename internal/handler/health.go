package handler

import (
	"net/http"

	"token-pulse/internal/domain"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// GetStatus godoc
// @Summary      Upstream liveness
// @Description  Returns live/loading flags, the last successful probe time and any advisories
// @Tags         status
// @Produce      json
// @Param        asset  query  string  false  "Selected asset for the news advisory"  default(BTC)
// @Success      200  {object}  service.Status
// @Router       /api/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-status")
	defer span.End()

	asset := c.DefaultQuery("asset", domain.DefaultAsset)
	c.JSON(http.StatusOK, h.dashboard.Status(asset))
}
