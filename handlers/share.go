package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/johnwmail/clipshare/config"
	"github.com/johnwmail/clipshare/services"
)

// ShareHandler exposes the authenticated share administration API.
type ShareHandler struct {
	shares *services.ShareService
	config *config.Config
}

// NewShareHandler creates a new share admin handler.
func NewShareHandler(shares *services.ShareService, config *config.Config) *ShareHandler {
	return &ShareHandler{shares: shares, config: config}
}

// Create handles share creation via POST /share.
func (h *ShareHandler) Create(c *gin.Context) {
	var req services.CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	entry, err := h.shares.Create(baseURL(c, h.config), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Clipboard is empty"})
		case errors.Is(err, services.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrIDConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Share id already exists"})
		default:
			log.Printf("[ERROR] Create share: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"shareUrl": entry.URL})
}

// List handles share enumeration via GET /api/shares.
func (h *ShareHandler) List(c *gin.Context) {
	entries, err := h.shares.List(baseURL(c, h.config))
	if err != nil {
		log.Printf("[ERROR] List shares: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Edit handles policy updates via PUT /api/shares/:id.
func (h *ShareHandler) Edit(c *gin.Context) {
	id := c.Param("id")

	var req services.EditShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.shares.Edit(id, req); err != nil {
		if err == services.ErrShareNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Share link not found"})
			return
		}
		log.Printf("[ERROR] Edit share %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// Delete handles share deletion via DELETE /api/shares/:id. Deleting an
// unknown id succeeds.
func (h *ShareHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.shares.Delete(id); err != nil {
		log.Printf("[ERROR] Delete share %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
