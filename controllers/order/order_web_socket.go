package orderControllers

import (
	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/realtime"
	"github.com/gin-gonic/gin"
)

// GET /api/admin/ws?token=
// Streams order and payment events to the back office.
func OrderWebSocketHandler(hub *realtime.Hub, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := hub.Serve(c.Writer, c.Request, auth.UserID(c)); err != nil {
			log.Warn("websocket upgrade failed", "error", err)
		}
	}
}
