package handler

import (
	"io"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

// Stream pushes a room's messages to the client as Server-Sent Events:
// the full history first, then every message published while the
// connection lives. After a stretch of inactivity a keepalive event
// goes out so proxies do not declare the connection dead. The
// subscription is released on every way out of the handler.
func (h *Handler) Stream(c *gin.Context) {
	room := c.Param("room")
	sub := h.Bus.Subscribe(room)
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	for _, msg := range sub.History() {
		if err := sse.Encode(c.Writer, sse.Event{Id: msg.ID, Event: "message", Data: msg}); err != nil {
			return
		}
	}
	c.Writer.Flush()

	keepalive := time.NewTimer(h.Keepalive)
	defer keepalive.Stop()
	clientGone := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case msg, ok := <-sub.Messages():
			if !ok {
				return false
			}
			if !keepalive.Stop() {
				<-keepalive.C
			}
			keepalive.Reset(h.Keepalive)
			_ = sse.Encode(w, sse.Event{Id: msg.ID, Event: "message", Data: msg})
			return true
		case <-keepalive.C:
			keepalive.Reset(h.Keepalive)
			_ = sse.Encode(w, sse.Event{Event: "keepalive", Data: gin.H{}})
			return true
		}
	})
}
