// Package store is the persistence boundary for sprout. Everything durable
// goes through a string-keyed Store; the typed Collection and Object wrappers
// on top of it decide how decoding failures degrade.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("key not found")

// Store is a synchronous string-keyed key/value store. There are no
// transactions; each call stands alone and the last writer wins.
type Store interface {
	Get(key string) (string, error) // returns ErrNotFound if the key is absent
	Set(key, value string) error
	Delete(key string) error // deleting an absent key is not an error
}

// FileStore is the default Store: one file per key in a single directory.
type FileStore struct {
	dir string
}

// DefaultDataDir returns the sprout data directory:
// $XDG_DATA_HOME/sprout or ~/.local/share/sprout.
func DefaultDataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "sprout"), nil
}

// NewFileStore returns a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// path maps a key to its file. Keys are sanitized so a caller-supplied key
// can never escape the store directory.
func (f *FileStore) path(key string) string {
	name := sanitize(key)
	if name == "." || name == ".." {
		name = strings.ReplaceAll(name, ".", "_")
	}
	return filepath.Join(f.dir, name)
}

// sanitize replaces every byte outside [A-Za-z0-9._-] with '_'.
func sanitize(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Get reads the value stored for key.
func (f *FileStore) Get(key string) (string, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return string(data), nil
}

// Set writes the value for key atomically via a temp file + os.Rename.
func (f *FileStore) Set(key, value string) (err error) {
	// Same-directory temp file, otherwise the rename is not atomic.
	tmp, err := os.CreateTemp(f.dir, sanitize(key)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist key %q: %w", key, err)
	}
	tmpName := tmp.Name()

	// No temp file may outlive a failed save.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist key %q: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist key %q: %w", key, err)
	}

	if err = os.Rename(tmpName, f.path(key)); err != nil {
		return fmt.Errorf("failed to persist key %q: %w", key, err)
	}
	return nil
}

// Delete removes the value for key, if any.
func (f *FileStore) Delete(key string) error {
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
