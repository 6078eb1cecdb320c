package services

import (
	"errors"
	"time"

	"github.com/johnwmail/clipshare/config"
	"github.com/johnwmail/clipshare/storage"
	"github.com/johnwmail/clipshare/utils"
)

// ErrBadCredentials is returned by Login on a username/password mismatch.
var ErrBadCredentials = errors.New("invalid username or password")

// SessionService implements the single-user login gate. A successful login
// mints an opaque token and stores it with a TTL; authentication is a plain
// existence check on the token's key.
type SessionService struct {
	store storage.KVStore
	cfg   *config.Config
}

// NewSessionService creates a new session service.
func NewSessionService(store storage.KVStore, cfg *config.Config) *SessionService {
	return &SessionService{store: store, cfg: cfg}
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.cfg.SessionTTL
}

// Login verifies the configured admin credentials and mints a session
// token. Credentials come from deployment configuration and are compared
// verbatim; an empty configured password disables login entirely.
func (s *SessionService) Login(username, password string) (string, error) {
	if s.cfg.Password == "" {
		return "", ErrBadCredentials
	}
	if username != s.cfg.Username || password != s.cfg.Password {
		return "", ErrBadCredentials
	}

	token := utils.NewSessionToken()
	if err := s.store.PutWithTTL(utils.SessionKey(token), "true", s.cfg.SessionTTL); err != nil {
		return "", err
	}
	return token, nil
}

// Logout invalidates a session token. Unknown tokens are ignored.
func (s *SessionService) Logout(token string) {
	if token == "" {
		return
	}
	_ = s.store.Delete(utils.SessionKey(token))
}

// IsAuthenticated reports whether a session token is live.
func (s *SessionService) IsAuthenticated(token string) bool {
	if token == "" {
		return false
	}
	val, err := s.store.Get(utils.SessionKey(token))
	if err != nil {
		return false
	}
	return val == "true"
}
