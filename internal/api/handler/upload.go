package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"anonchat/backend/internal/upload"
)

// Upload accepts one multipart image and returns an absolute URL the
// client can embed as a message's media field.
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file part"})
		return
	}

	name, err := h.Uploads.Save(fh)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrEmptyFilename):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no selected file"})
		case errors.Is(err, upload.ErrDisallowedType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "disallowed file type"})
		default:
			h.Logger.Error("storing upload failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		}
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	c.JSON(http.StatusOK, gin.H{
		"url": fmt.Sprintf("%s://%s/uploads/%s", scheme, c.Request.Host, name),
	})
}
