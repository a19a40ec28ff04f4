package handler

import (
	"net/http"

	"token-pulse/internal/domain"

	"github.com/gin-gonic/gin"
)

// Refresh godoc
// @Summary      Manual refresh
// @Description  Runs the liveness probe and token refresh now and returns the resulting status
// @Tags         status
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh")
	defer span.End()

	body := gin.H{"refreshed": true}
	if err := h.dashboard.RefreshNow(ctx); err != nil {
		span.RecordError(err)
		body["refreshed"] = false
		body["error"] = err.Error()
	}
	body["status"] = h.dashboard.Status(c.DefaultQuery("asset", domain.DefaultAsset))
	c.JSON(http.StatusOK, body)
}
