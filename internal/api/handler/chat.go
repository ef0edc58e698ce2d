package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"anonchat/backend/internal/models"
)

type postMessageRequest struct {
	Room   string `json:"room"`
	Author string `json:"author"`
	Text   string `json:"text"`
	Media  string `json:"media"`
}

// PostMessage accepts a chat message and publishes it to the room.
func (h *Handler) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	room := strings.TrimSpace(req.Room)
	if room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing room"})
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty message"})
		return
	}

	msg := models.NewChatMessage(room, strings.TrimSpace(req.Author), text, req.Media)
	h.Bus.Publish(msg)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "id": msg.ID})
}

// Messages returns the history of one room, or the whole log when no
// room is given.
func (h *Handler) Messages(c *gin.Context) {
	if room := c.Query("room"); room != "" {
		c.JSON(http.StatusOK, h.Log.History(room))
		return
	}
	c.JSON(http.StatusOK, h.Log.All())
}

type presenceRequest struct {
	Room   string `json:"room"`
	Author string `json:"author"`
}

func (r presenceRequest) trimmed() (string, string) {
	return strings.TrimSpace(r.Room), strings.TrimSpace(r.Author)
}

// Join marks a user active in a room and announces it. The possibly
// uniquified display name is returned so the client adopts it.
func (h *Handler) Join(c *gin.Context) {
	var req presenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	room, author := req.trimmed()
	if room == "" || author == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing room or author"})
		return
	}

	assigned := h.Presence.Join(room, author)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "assigned_name": assigned})
}

// Leave removes a user from a room and announces it.
func (h *Handler) Leave(c *gin.Context) {
	var req presenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	room, author := req.trimmed()
	if room == "" || author == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing room or author"})
		return
	}

	h.Presence.Leave(room, author)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Typing records a typing notification for a user.
func (h *Handler) Typing(c *gin.Context) {
	var req presenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	room, author := req.trimmed()
	if room == "" || author == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing room or author"})
		return
	}

	h.Presence.Touch(room, author)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// TypingStatus reports who is currently typing in a room.
func (h *Handler) TypingStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"typing": h.Presence.Typing(c.Param("room"))})
}
