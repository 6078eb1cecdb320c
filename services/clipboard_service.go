package services

import (
	"errors"

	"github.com/johnwmail/clipshare/storage"
	"github.com/johnwmail/clipshare/utils"
)

// ErrClipboardEmpty is returned by Read when no content has been saved.
var ErrClipboardEmpty = errors.New("clipboard is empty")

// ClipboardService is the passthrough to the single persistent clipboard
// key. It shares the flat store namespace with sessions and share records.
type ClipboardService struct {
	store storage.KVStore
}

// NewClipboardService creates a new clipboard service.
func NewClipboardService(store storage.KVStore) *ClipboardService {
	return &ClipboardService{store: store}
}

// Save replaces the clipboard content. Empty content is rejected.
func (s *ClipboardService) Save(content string) error {
	if content == "" {
		return ErrClipboardEmpty
	}
	return s.store.Put(utils.ClipboardKey, content)
}

// Read returns the current clipboard content.
func (s *ClipboardService) Read() (string, error) {
	content, err := s.store.Get(utils.ClipboardKey)
	if err == storage.ErrKeyNotFound {
		return "", ErrClipboardEmpty
	}
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", ErrClipboardEmpty
	}
	return content, nil
}
