package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/errors"
)

// FileStore is a file-based design store for CLI usage.
// Designs are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based design store.
// If baseDir is empty, defaults to ~/.config/kumiko/designs/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "kumiko", "designs")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create design dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) designPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

// Get loads a design by name.
func (s *FileStore) Get(ctx context.Context, name string) (*design.Design, error) {
	if err := errors.ValidateDesignName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.designPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeDesignNotFound, "design %q not found", name)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read design %q", name)
	}
	defer f.Close()

	d, err := design.Read(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "parse design %q", name)
	}
	return d, nil
}

// Put saves a design under name, replacing any previous version.
func (s *FileStore) Put(ctx context.Context, name string, d *design.Design) error {
	if err := errors.ValidateDesignName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := design.WriteFile(d, s.designPath(name)); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write design %q", name)
	}
	return nil
}

// Delete removes a stored design.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDesignName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.designPath(name)); err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeDesignNotFound, "design %q not found", name)
		}
		return errors.Wrap(errors.ErrCodeStore, err, "remove design %q", name)
	}
	return nil
}

// List returns catalog entries for all stored designs, sorted by name.
// Unreadable files are skipped rather than failing the whole listing.
func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read design dir")
	}

	var out []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")

		d, err := design.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		info := Info{Name: name, Lines: len(d.Lines), Groups: len(d.Groups)}
		if fi, err := entry.Info(); err == nil {
			info.UpdatedAt = fi.ModTime()
		}
		out = append(out, info)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Close does nothing for file stores.
func (s *FileStore) Close(ctx context.Context) error { return nil }

// Path returns the base directory for design files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
