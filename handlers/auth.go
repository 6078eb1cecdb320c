package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/johnwmail/clipshare/services"
)

// AuthHandler implements the login/logout flow around the session service.
type AuthHandler struct {
	sessions *services.SessionService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// LoginPage serves the login form via GET /login. An already authenticated
// browser is sent back to the index.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil && h.sessions.IsAuthenticated(token) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Title": "Login"})
}

// Login handles credential submission via POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	token, err := h.sessions.Login(username, password)
	if err != nil {
		if err == services.ErrBadCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	maxAge := int(h.sessions.TTL().Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", isHTTPS(c), true)
	c.Redirect(http.StatusFound, "/")
}

// Logout invalidates the session via GET /logout and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil {
		h.sessions.Logout(token)
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", isHTTPS(c), true)
	c.Redirect(http.StatusFound, "/login")
}
