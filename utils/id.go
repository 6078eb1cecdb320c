package utils

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Reserved parts of the flat key namespace. Custom share ids must never
// collide with session keys or the clipboard content key.
const (
	SessionKeyPrefix = "session:"
	ClipboardKey     = "clipboard"
)

const maxCustomIDLength = 128

// NewShareID returns a random v4 UUID share identifier.
func NewShareID() string {
	return uuid.NewString()
}

// NewSessionToken returns a random session token.
func NewSessionToken() string {
	return uuid.NewString()
}

// SessionKey maps a session token to its storage key.
func SessionKey(token string) string {
	return SessionKeyPrefix + token
}

// IsShareKey reports whether a storage key belongs to the share namespace,
// i.e. is neither a session key nor the clipboard content key.
func IsShareKey(key string) bool {
	return key != ClipboardKey && !strings.HasPrefix(key, SessionKeyPrefix)
}

// ValidateCustomID checks the shape of a caller-supplied share id. Existence
// in the store is the caller's check; this only rejects malformed or
// reserved names.
func ValidateCustomID(candidate string) error {
	if candidate == "" {
		return fmt.Errorf("custom id must not be empty")
	}
	if len(candidate) > maxCustomIDLength {
		return fmt.Errorf("custom id too long (max %d characters)", maxCustomIDLength)
	}
	if !IsShareKey(candidate) {
		return fmt.Errorf("custom id %q is reserved", candidate)
	}
	for _, r := range candidate {
		if r == '/' || r < 0x20 || r == 0x7f {
			return fmt.Errorf("custom id contains invalid character")
		}
	}
	return nil
}

// ShareURL builds the fully-qualified public URL for a share id.
func ShareURL(baseURL, id string) string {
	return fmt.Sprintf("%s/s/%s", strings.TrimSuffix(baseURL, "/"), url.PathEscape(id))
}
