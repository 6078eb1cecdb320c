package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/johnwmail/clipshare/services"
)

// maxClipboardSize bounds a /save request body.
const maxClipboardSize = 5 * 1024 * 1024

// ClipboardHandler is the passthrough to the persistent clipboard key.
type ClipboardHandler struct {
	clipboard *services.ClipboardService
}

// NewClipboardHandler creates a new clipboard handler.
func NewClipboardHandler(clipboard *services.ClipboardService) *ClipboardHandler {
	return &ClipboardHandler{clipboard: clipboard}
}

// Save replaces the clipboard content via POST /save. The body is the raw
// text, matching the web UI's fetch call.
func (h *ClipboardHandler) Save(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxClipboardSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	if len(body) > maxClipboardSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Content too large"})
		return
	}

	if err := h.clipboard.Save(string(body)); err != nil {
		if err == services.ErrClipboardEmpty {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Content is empty"})
			return
		}
		log.Printf("[ERROR] Save clipboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// Read returns the clipboard content via GET /read.
func (h *ClipboardHandler) Read(c *gin.Context) {
	content, err := h.clipboard.Read()
	if err != nil {
		if err == services.ErrClipboardEmpty {
			c.JSON(http.StatusNotFound, gin.H{"error": "Clipboard is empty"})
			return
		}
		log.Printf("[ERROR] Read clipboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}
