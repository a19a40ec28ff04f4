package handler

import (
	"net/http"
	"time"

	"token-pulse/internal/domain"
	"token-pulse/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const streamWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamFrame is one push on the status stream.
type StreamFrame struct {
	Status service.Status `json:"status"`
	Tokens []domain.Token `json:"tokens"`
	SentAt time.Time      `json:"sent_at"`
}

// Stream godoc
// @Summary      Live status stream
// @Description  Upgrades to a websocket and pushes status and tokens every liveness interval
// @Tags         status
// @Param        asset  query  string  false  "Selected asset for the news advisory"  default(BTC)
// @Router       /api/stream [get]
func (h *Handler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	asset := c.DefaultQuery("asset", domain.DefaultAsset)
	logger := log.With().Str("component", "stream").Str("remote", c.ClientIP()).Logger()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.streamInterval)
	defer ticker.Stop()

	for {
		frame := StreamFrame{
			Status: h.dashboard.Status(asset),
			Tokens: h.dashboard.GetTokens(ctx),
			SentAt: time.Now().UTC(),
		}
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WriteJSON(frame); err != nil {
			logger.Debug().Err(err).Msg("stream write failed")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case <-ticker.C:
		}
	}
}
