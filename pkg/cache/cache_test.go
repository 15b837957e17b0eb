package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundtrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "strips:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "strips:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "payload" {
		t.Errorf("data = %q, want %q", data, "payload")
	}

	if err := c.Delete(ctx, "strips:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "strips:abc"); hit {
		t.Error("expected miss after Delete")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Already-expired entry is a miss
	if err := c.Set(ctx, "key", []byte("stale"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should be a miss")
	}

	// Zero TTL means no expiration
	if err := c.Set(ctx, "forever", []byte("fresh"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero-ttl entry should not expire")
	}
}

func TestFileCacheClassLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "strips:abc", []byte("s"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Set(ctx, "user:123:artifact:def", []byte("a"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Entries land in one subdirectory per artifact class.
	for _, class := range []string{"strips", "artifact"} {
		if _, err := os.Stat(filepath.Join(dir, class)); err != nil {
			t.Errorf("missing class directory %q: %v", class, err)
		}
	}

	// Scoped keys resolve to the same class as unscoped ones.
	if _, hit, _ := c.Get(ctx, "user:123:artifact:def"); !hit {
		t.Error("scoped key should round-trip")
	}
}

func TestFileCacheEnvelope(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	before := time.Now()
	if err := c.Set(ctx, "strips:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	var path string
	err = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			path = p
		}
		return nil
	})
	if err != nil || path == "" {
		t.Fatal("no entry file written")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.Fatalf("entry is not a JSON envelope: %v", err)
	}
	if entry.Class != "strips" {
		t.Errorf("class = %q, want strips", entry.Class)
	}
	if entry.SavedAt.Before(before.Add(-time.Second)) {
		t.Errorf("saved_at not recorded: %v", entry.SavedAt)
	}
	if !entry.ExpiresAt.After(entry.SavedAt) {
		t.Error("expires_at should follow saved_at for a positive ttl")
	}
}

func TestKeyClass(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"strips:abc123", "strips"},
		{"artifact:abc123", "artifact"},
		{"user:123:strips:abc", "strips"},
		{"user:123:artifact:abc", "artifact"},
		{"bare", "misc"},
	}
	for _, tt := range tests {
		if got := keyClass(tt.key); got != tt.want {
			t.Errorf("keyClass(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// StripKey should include options in hash
	sk1 := k.StripKey("hash123", StripKeyOpts{CellMM: 10, ToolMM: 3})
	sk2 := k.StripKey("hash123", StripKeyOpts{CellMM: 12, ToolMM: 3})
	if sk1 == sk2 {
		t.Error("Different StripKeyOpts should produce different keys")
	}
	if sk1 != k.StripKey("hash123", StripKeyOpts{CellMM: 10, ToolMM: 3}) {
		t.Error("StripKey should be deterministic")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Pass: "top", ToolMM: 3})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Pass: "bottom", ToolMM: 3})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	// Different stages never collide
	if sk1 == ak1 {
		t.Error("Strip and artifact keys should use distinct prefixes")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	key := scoped.StripKey("hash123", StripKeyOpts{CellMM: 10})
	if len(key) < 15 || key[:9] != "user:123:" {
		t.Errorf("ScopedKeyer StripKey should be prefixed: %s", key)
	}
	if key[9:] != inner.StripKey("hash123", StripKeyOpts{CellMM: 10}) {
		t.Error("ScopedKeyer should delegate to the inner keyer")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey("h", ArtifactKeyOpts{})
	want := "prefix:" + NewDefaultKeyer().ArtifactKey("h", ArtifactKeyOpts{})
	if key != want {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
