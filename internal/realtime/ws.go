package realtime

import (
	"net/http"

	"ripple-chat/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks belong to the reverse proxy in front of us.
		return true
	},
}

// ServeWS upgrades an authenticated request to a websocket connection and
// attaches it to the hub. Auth middleware must run before this handler.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := services.UserIDFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.log.Errorf("websocket upgrade failed: %v", err)
			return
		}

		client := NewClient(hub, conn, profileID)
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}
