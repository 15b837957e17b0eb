package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache is the local disk backend the CLI uses. Cached derivations land
// under one subdirectory per artifact class ("strips", "artifact"), sharded
// by key hash, so a cleared or inspected cache directory reads by stage
// rather than as one flat hash dump.
type FileCache struct {
	dir string
}

// NewFileCache opens a cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// fileEntry is the on-disk envelope around one cached derivation. Class and
// SavedAt exist for cache inspection; ExpiresAt drives eviction.
type fileEntry struct {
	Class     string    `json:"class"`
	Data      []byte    `json:"data"`
	SavedAt   time.Time `json:"saved_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"` // zero keeps the entry until a clear
}

// Get returns the cached derivation for key. Expired or unreadable entries
// are removed and reported as misses so the pipeline recomputes them.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores one derivation result under key.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{
		Class:   keyClass(key),
		Data:    data,
		SavedAt: time.Now(),
	}
	if ttl > 0 {
		entry.ExpiresAt = entry.SavedAt.Add(ttl)
	}

	envelope, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, envelope, 0644)
}

// Delete removes the entry for key; deleting an absent entry is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op; each operation opens and closes its own file.
func (c *FileCache) Close() error {
	return nil
}

// path maps a key to <dir>/<class>/<shard>/<hash>.json. The full key is
// hashed so scoped multi-tenant keys stay filesystem-safe, with a two-char
// shard directory keeping any one directory small.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, keyClass(key), h[:2], h[2:]+".json")
}

// keyClass extracts the artifact class from a keyer-built key such as
// "strips:<hash>" or "user:123:artifact:<hash>": the segment before the
// trailing hash. Keys without a class land in "misc".
func keyClass(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "misc"
	}
	return parts[len(parts)-2]
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
