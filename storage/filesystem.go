package storage

import (
	"encoding/json"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fsEntry is the on-disk envelope for one key. ExpiresAt carries the expiry
// hint for keys stored via PutWithTTL; nil means the key never expires.
type fsEntry struct {
	Value     string     `json:"value"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// FilesystemStore implements KVStore with one JSON file per key.
type FilesystemStore struct {
	dataDir string
	mu      sync.Mutex
}

// NewFilesystemStore creates a filesystem-backed store rooted at dataDir.
func NewFilesystemStore(dataDir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FilesystemStore{dataDir: dataDir}, nil
}

// keyPath maps a key to a file name. Keys are percent-escaped so arbitrary
// key strings cannot traverse out of the data directory.
func (fs *FilesystemStore) keyPath(key string) string {
	return filepath.Join(fs.dataDir, url.PathEscape(key)+".json")
}

func (fs *FilesystemStore) Get(key string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	entry, err := fs.readEntry(key)
	if err != nil {
		return "", err
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		// Lazy TTL: drop the file on first read past the deadline.
		_ = os.Remove(fs.keyPath(key))
		return "", ErrKeyNotFound
	}
	return entry.Value, nil
}

func (fs *FilesystemStore) readEntry(key string) (*fsEntry, error) {
	data, err := os.ReadFile(fs.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		log.Printf("[ERROR] FS Get: failed to read %s: %v", key, err)
		return nil, err
	}
	var entry fsEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Printf("[ERROR] FS Get: failed to unmarshal %s: %v", key, err)
		return nil, err
	}
	return &entry, nil
}

func (fs *FilesystemStore) Put(key, value string) error {
	return fs.PutWithTTL(key, value, 0)
}

func (fs *FilesystemStore) PutWithTTL(key, value string, ttl time.Duration) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	entry := fsEntry{Value: value}
	if ttl > 0 {
		expires := time.Now().Add(ttl)
		entry.ExpiresAt = &expires
	}
	data, err := json.MarshalIndent(&entry, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(fs.keyPath(key), data, 0o644); err != nil {
		log.Printf("[ERROR] FS Put: failed to write %s: %v", key, err)
		return err
	}
	return nil
}

func (fs *FilesystemStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_ = os.Remove(fs.keyPath(key))
	return nil
}

func (fs *FilesystemStore) List() ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	entries, err := os.ReadDir(fs.dataDir)
	if err != nil {
		log.Printf("[ERROR] FS List: failed to read data dir: %v", err)
		return nil, err
	}
	now := time.Now()
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		key, err := url.PathUnescape(name[:len(name)-len(".json")])
		if err != nil {
			log.Printf("[WARN] FS List: skipping undecodable file name %q", name)
			continue
		}
		entry, err := fs.readEntry(key)
		if err != nil {
			continue
		}
		if entry.ExpiresAt != nil && now.After(*entry.ExpiresAt) {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (fs *FilesystemStore) Exists(key string) (bool, error) {
	_, err := fs.Get(key)
	if err == ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (fs *FilesystemStore) Close() error {
	return nil
}
