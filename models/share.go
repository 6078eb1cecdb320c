package models

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrCorruptRecord is returned when a stored share value cannot be decoded.
// Single-record readers treat it as not-found; listings skip the entry.
var ErrCorruptRecord = errors.New("corrupt share record")

// Share represents one shareable snapshot of clipboard content plus its
// access policy and consumption state.
//
// Password is stored and returned in plaintext on purpose: the admin UI
// offers "click to view password" for handed-out links. Anyone with admin
// access can read every share password.
type Share struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	MaxViews  *int       `json:"maxViews,omitempty"`
	Views     int        `json:"views"`
	ExpireAt  *time.Time `json:"expireAt,omitempty"`
	Password  string     `json:"password,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsExpired reports whether the share's deadline has passed at the given time.
func (s *Share) IsExpired(now time.Time) bool {
	if s.ExpireAt == nil {
		return false
	}
	return now.After(*s.ExpireAt)
}

// IsExhausted reports whether the view count has reached the configured
// maximum. A nil or non-positive MaxViews means unlimited and never exhausts.
func (s *Share) IsExhausted() bool {
	if s.MaxViews == nil || *s.MaxViews <= 0 {
		return false
	}
	return s.Views >= *s.MaxViews
}

// HasPassword reports whether delivery requires a per-request password.
func (s *Share) HasPassword() bool {
	return s.Password != ""
}

// NormalizeMaxViews collapses the "unlimited" spellings (nil, 0, negative)
// to nil so stored records have a single representation.
func NormalizeMaxViews(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	n := *v
	return &n
}

// EncodeShare serializes a share record to its stored string value.
func EncodeShare(s *Share) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeShare parses a stored string value back into a share record.
// Malformed payloads yield ErrCorruptRecord.
func DecodeShare(raw string) (*Share, error) {
	var s Share
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, ErrCorruptRecord
	}
	if s.Views < 0 {
		s.Views = 0
	}
	s.MaxViews = NormalizeMaxViews(s.MaxViews)
	return &s, nil
}
