package chathub

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient drains one room subscription into a WebSocket
// connection. The read side only watches for the peer going away;
// posting happens over plain HTTP like every other client.
type WebSocketClient struct {
	Conn *websocket.Conn
	Sub  *Subscription
	Log  *slog.Logger
}

// Run starts the pumps and blocks until the connection is gone. The
// subscription is released exactly once on the way out, whichever pump
// ends first.
func (c *WebSocketClient) Run() {
	go c.readPump()
	c.writePump()
}

// readPump discards inbound frames and unblocks the write side by
// closing the subscription when the peer disconnects.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Sub.Close()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Log.Debug("websocket read ended", "err", err)
			}
			return
		}
	}
}

// writePump replays the history burst, then relays live messages and
// pings until a write fails.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Sub.Close()
		c.Conn.Close()
	}()

	for _, msg := range c.Sub.History() {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteJSON(msg); err != nil {
			return
		}
	}

	for {
		select {
		case msg, ok := <-c.Sub.Messages():
			if !ok {
				return
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
