package services

import (
	"fmt"
	"log"
	"time"

	"github.com/johnwmail/clipshare/models"
	"github.com/johnwmail/clipshare/storage"
	"github.com/johnwmail/clipshare/utils"
)

// ShareService owns the share-link lifecycle: creation, view-gated
// consumption, listing, policy edits, and deletion. All state lives in the
// key-value store; the service keeps nothing in memory between calls.
type ShareService struct {
	store storage.KVStore
	now   func() time.Time
}

// NewShareService creates a new share service.
func NewShareService(store storage.KVStore) *ShareService {
	return &ShareService{
		store: store,
		now:   time.Now,
	}
}

// CreateShareRequest represents a request to create a share link.
type CreateShareRequest struct {
	MaxViews     *int   `json:"maxViews"`
	ValidMinutes *int   `json:"validMinutes"`
	CustomID     string `json:"customId"`
	Password     string `json:"password"`
}

// EditShareRequest represents a policy update for an existing share link.
type EditShareRequest struct {
	MaxViews     *int `json:"maxViews"`
	ValidMinutes *int `json:"validMinutes"`
}

// ShareEntry is a share record plus its public URL, as returned to the
// administrator. The plaintext password is included on purpose.
type ShareEntry struct {
	models.Share
	URL string `json:"url"`
}

const randomIDAttempts = 3

// Create snapshots the current clipboard content into a new share record.
// The record is persisted with no store-level expiry hint: expired and
// exhausted shares must stay inspectable until deleted explicitly.
func (s *ShareService) Create(baseURL string, req CreateShareRequest) (*ShareEntry, error) {
	content, err := s.store.Get(utils.ClipboardKey)
	if err != nil && err != storage.ErrKeyNotFound {
		return nil, fmt.Errorf("failed to read clipboard: %w", err)
	}
	if content == "" {
		return nil, ErrEmptyContent
	}

	id, err := s.allocateID(req.CustomID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	share := &models.Share{
		ID:        id,
		Content:   content,
		MaxViews:  models.NormalizeMaxViews(req.MaxViews),
		Views:     0,
		ExpireAt:  expiryFrom(now, req.ValidMinutes),
		Password:  req.Password,
		CreatedAt: now,
	}

	raw, err := models.EncodeShare(share)
	if err != nil {
		return nil, fmt.Errorf("failed to encode share: %w", err)
	}
	if err := s.store.Put(id, raw); err != nil {
		return nil, fmt.Errorf("failed to store share: %w", err)
	}
	shareCreates.Inc()

	return &ShareEntry{Share: *share, URL: utils.ShareURL(baseURL, id)}, nil
}

// allocateID validates a caller-supplied custom id, or generates a random
// one. Random ids are checked against the store and retried a few times;
// a colliding UUID is practically impossible but cheap to rule out.
func (s *ShareService) allocateID(customID string) (string, error) {
	if customID != "" {
		if err := utils.ValidateCustomID(customID); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		exists, err := s.store.Exists(customID)
		if err != nil {
			return "", fmt.Errorf("failed to check id existence: %w", err)
		}
		if exists {
			return "", ErrIDConflict
		}
		return customID, nil
	}

	for i := 0; i < randomIDAttempts; i++ {
		id := utils.NewShareID()
		exists, err := s.store.Exists(id)
		if err != nil {
			continue // skip on error
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to allocate unique share id after %d attempts", randomIDAttempts)
}

// Consume evaluates the access gate for a share and, when allowed, records
// the view and returns the content. The view counter is persisted before
// the content is handed back, so a failed write never delivers content.
//
// The read-modify-write on Views is not atomic across concurrent Consume
// calls on the same id; two racing viewers can both observe N and write
// N+1. This last-writer-wins undercount is the store's native consistency
// model and is accepted, not a bug to fix here.
func (s *ShareService) Consume(id, suppliedPassword string) (string, Verdict, error) {
	share, err := s.load(id)
	if err != nil {
		return "", VerdictAllow, err
	}

	verdict := Evaluate(share, s.now(), suppliedPassword)
	shareConsumes.WithLabelValues(verdict.String()).Inc()
	if verdict != VerdictAllow {
		return "", verdict, nil
	}

	share.Views++
	raw, err := models.EncodeShare(share)
	if err != nil {
		return "", VerdictAllow, fmt.Errorf("failed to encode share: %w", err)
	}
	if err := s.store.Put(id, raw); err != nil {
		return "", VerdictAllow, fmt.Errorf("failed to record view: %w", err)
	}
	return share.Content, VerdictAllow, nil
}

// List returns every live share record, including expired and exhausted
// ones: the administrator must see all records regardless of access state.
// Undecodable entries are skipped so one corrupt record cannot hide the
// rest of the list. No ordering is imposed.
func (s *ShareService) List(baseURL string) ([]*ShareEntry, error) {
	keys, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list store keys: %w", err)
	}

	entries := []*ShareEntry{}
	for _, key := range keys {
		if !utils.IsShareKey(key) {
			continue
		}
		share, err := s.load(key)
		if err != nil {
			if err != ErrShareNotFound {
				log.Printf("[WARN] List: skipping share %s: %v", key, err)
			}
			continue
		}
		entries = append(entries, &ShareEntry{Share: *share, URL: utils.ShareURL(baseURL, key)})
	}
	return entries, nil
}

// Edit replaces a share's access policy. Content, password, and creation
// time never change. The view counter restarts at zero when the effective
// policy changes and is preserved otherwise.
func (s *ShareService) Edit(id string, req EditShareRequest) error {
	share, err := s.load(id)
	if err != nil {
		return err
	}

	newMaxViews := models.NormalizeMaxViews(req.MaxViews)
	newExpireAt := expiryFrom(s.now(), req.ValidMinutes)

	// A supplied validMinutes always moves the deadline, which is a new
	// policy; expiry policies only compare equal when both are unlimited.
	sameMaxViews := intPtrEqual(share.MaxViews, newMaxViews)
	sameExpiry := share.ExpireAt == nil && newExpireAt == nil
	if !sameMaxViews || !sameExpiry {
		share.Views = 0
	}

	share.MaxViews = newMaxViews
	share.ExpireAt = newExpireAt

	raw, err := models.EncodeShare(share)
	if err != nil {
		return fmt.Errorf("failed to encode share: %w", err)
	}
	if err := s.store.Put(id, raw); err != nil {
		return fmt.Errorf("failed to store share: %w", err)
	}
	return nil
}

// Delete removes a share record. Deleting a missing id is not an error.
func (s *ShareService) Delete(id string) error {
	return s.store.Delete(id)
}

// load reads and decodes one share record. Missing keys and corrupt values
// both surface as ErrShareNotFound.
func (s *ShareService) load(id string) (*models.Share, error) {
	raw, err := s.store.Get(id)
	if err != nil {
		if err == storage.ErrKeyNotFound {
			return nil, ErrShareNotFound
		}
		return nil, fmt.Errorf("failed to read share: %w", err)
	}
	share, err := models.DecodeShare(raw)
	if err != nil {
		log.Printf("[WARN] load: corrupt share record %s: %v", id, err)
		return nil, ErrShareNotFound
	}
	share.ID = id
	return share, nil
}

// expiryFrom converts a validMinutes policy into an absolute deadline.
// Nil or non-positive minutes mean the share never expires.
func expiryFrom(now time.Time, validMinutes *int) *time.Time {
	if validMinutes == nil || *validMinutes <= 0 {
		return nil
	}
	deadline := now.Add(time.Duration(*validMinutes) * time.Minute)
	return &deadline
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
