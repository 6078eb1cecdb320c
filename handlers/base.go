package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/johnwmail/clipshare/config"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session_id"

// isHTTPS detects if the original request was HTTPS, even behind proxies.
func isHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	if scheme := c.GetHeader("X-Forwarded-Scheme"); scheme == "https" {
		return true
	}
	if c.GetHeader("X-Forwarded-Ssl") == "on" {
		return true
	}
	return false
}

// baseURL returns the configured base URL, or derives one from the request.
func baseURL(c *gin.Context, cfg *config.Config) string {
	if cfg.URL != "" {
		return strings.TrimSuffix(cfg.URL, "/")
	}
	scheme := "http"
	if isHTTPS(c) {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}

// isCli detects if the request is from a CLI tool. Clients that accept HTML
// are treated as browsers regardless of User-Agent.
func isCli(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		return false
	}
	userAgent := strings.ToLower(c.GetHeader("User-Agent"))
	for _, tool := range []string{"curl", "wget", "powershell"} {
		if strings.Contains(userAgent, tool) {
			return true
		}
	}
	return false
}
