package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"anonchat/backend/internal/models"
)

type matchRequest struct {
	Topic string `json:"topic"`
}

// Match pairs the caller with another seeker, blocking up to the
// configured wait budget. A timeout maps to 408 with a matched=false
// body; it is an outcome for the client to branch on, not a fault.
func (h *Handler) Match(c *gin.Context) {
	// An absent or empty body just means no topic preference.
	var req matchRequest
	_ = c.ShouldBindJSON(&req)

	res, ok := h.Matchmaker.Match(c.Request.Context(), strings.TrimSpace(req.Topic))
	if !ok {
		c.JSON(http.StatusRequestTimeout, gin.H{"matched": false, "reason": "timeout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matched": true, "room": res.RoomID, "topic": res.Topic})
}

// Topics lists the fixed topic registry.
func (h *Handler) Topics(c *gin.Context) {
	c.JSON(http.StatusOK, models.Topics)
}

// Status reports how many seekers are waiting per topic.
func (h *Handler) Status(c *gin.Context) {
	counts, total := h.Matchmaker.QueueCounts()
	c.JSON(http.StatusOK, gin.H{"counts": counts, "total": total})
}

type leaveQueueRequest struct {
	Topic string `json:"topic"`
}

// LeaveQueue lets a client abandon a waiting bucket without waiting for
// the match timeout. The bucket's parked seekers are cleared; a waiter
// that was signalled a room in the same instant keeps it.
func (h *Handler) LeaveQueue(c *gin.Context) {
	var req leaveQueueRequest
	_ = c.ShouldBindJSON(&req)
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	h.Matchmaker.Prune(topic)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
