package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/johnwmail/clipshare/config"
	"github.com/johnwmail/clipshare/services"
)

// PublicHandler serves share links to unauthenticated viewers.
type PublicHandler struct {
	shares *services.ShareService
	config *config.Config
}

// NewPublicHandler creates a new public share handler.
func NewPublicHandler(shares *services.ShareService, config *config.Config) *PublicHandler {
	return &PublicHandler{shares: shares, config: config}
}

// View handles share consumption via GET /s/:id.
func (h *PublicHandler) View(c *gin.Context) {
	h.consume(c, "")
}

// Unlock handles the password form flow via POST /s/:id.
func (h *PublicHandler) Unlock(c *gin.Context) {
	h.consume(c, c.PostForm("password"))
}

func (h *PublicHandler) consume(c *gin.Context, password string) {
	id := c.Param("id")

	content, verdict, err := h.shares.Consume(id, password)
	if err != nil {
		if err == services.ErrShareNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Share link not found"})
			return
		}
		log.Printf("[ERROR] consume %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	switch verdict {
	case services.VerdictAllow:
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
	case services.VerdictExpired:
		c.JSON(http.StatusForbidden, gin.H{"error": "Share link has expired"})
	case services.VerdictExhausted:
		c.JSON(http.StatusForbidden, gin.H{"error": "Share link has reached its view limit"})
	case services.VerdictPasswordRequired:
		h.renderPrompt(c, id, "")
	case services.VerdictPasswordRejected:
		h.renderPrompt(c, id, "Wrong password")
	}
}

// renderPrompt serves the password form for browsers; CLI clients get a
// JSON 401 instead.
func (h *PublicHandler) renderPrompt(c *gin.Context, id, errMsg string) {
	if isCli(c) {
		msg := "Password required"
		if errMsg != "" {
			msg = errMsg
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}
	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusUnauthorized
	}
	c.HTML(status, "password.html", gin.H{
		"Title": "Protected share",
		"ID":    id,
		"Error": errMsg,
	})
}
