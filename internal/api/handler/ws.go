package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"anonchat/backend/internal/chathub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket attaches a room subscriber over WebSocket instead of
// SSE. The server only pushes; posting still goes through POST /message.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	room := c.Param("room")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	client := &chathub.WebSocketClient{
		Conn: conn,
		Sub:  h.Bus.Subscribe(room),
		Log:  h.Logger,
	}
	client.Run()
}
