package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/auth"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/table"
	"github.com/playmatatu/billiards/internal/ws"
)

// HandleTableWebSocket attaches a seat-token holder to a table's live stream
func HandleTableWebSocket(hub *ws.Hub, m *table.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		seat, err := auth.AuthorizeSeat(cfg.JWTSecret, c.Query("st"), id)
		if err != nil {
			respondTableError(c, err)
			return
		}

		if err := ws.ServeTable(hub, m, c.Writer, c.Request, id, seat.Seat); err != nil {
			respondTableError(c, err)
		}
	}
}
