// Package localstore is the client-local persistence layer: a small
// key/value store backed by the filesystem. It holds advisory state only
// (guest usage counters, the override API key), so callers treat read
// failures as "no value" rather than hard errors.
package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists values as files under a base directory, one file per key.
type Store struct {
	basePath string
}

// New initializes a Store rooted at basePath, creating it if needed.
func New(basePath string) (*Store, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("localstore: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: ensure base path: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *Store) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Get returns the stored bytes for key. A missing key yields (nil, false).
func (s *Store) Get(key string) ([]byte, bool) {
	if s == nil {
		return nil, false
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(s.basePath, filepath.FromSlash(cleanKey)))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put persists the provided bytes at the given key. Keys are cleaned to
// prevent directory traversal.
func (s *Store) Put(key string, data []byte) error {
	if s == nil {
		return errors.New("localstore: no store configured")
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("localstore: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("localstore: write file: %w", err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting a missing key is not
// an error.
func (s *Store) Delete(key string) error {
	if s == nil {
		return errors.New("localstore: no store configured")
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.basePath, filepath.FromSlash(cleanKey)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("localstore: delete file: %w", err)
	}
	return nil
}

// sanitizeKey normalizes a key and prevents escaping the store root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("localstore: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("localstore: invalid key")
	}
	return cleaned, nil
}
