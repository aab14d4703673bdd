package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultLocalPrefix is the URL path local photos are served from.
const DefaultLocalPrefix = "/uploads/photos"

// LocalStorage keeps photos on disk. Locators are relative URL paths such as
// /uploads/photos/<key>.
type LocalStorage struct {
	dir    string
	prefix string
}

func NewLocalStorage(dir, prefix string) (*LocalStorage, error) {
	if prefix == "" {
		prefix = DefaultLocalPrefix
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{
		dir:    dir,
		prefix: "/" + strings.Trim(prefix, "/"),
	}, nil
}

func (s *LocalStorage) Dir() string    { return s.dir }
func (s *LocalStorage) Prefix() string { return s.prefix }

func (s *LocalStorage) Store(_ context.Context, data []byte, key string, _ string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	dest := filepath.Join(s.dir, key)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return path.Join(s.prefix, key), nil
}

// Remove deletes the file behind locator. A file that is already gone is
// not an error.
func (s *LocalStorage) Remove(_ context.Context, locator string) error {
	key, ok := strings.CutPrefix(locator, s.prefix+"/")
	if !ok || !validKey(key) {
		return unknownLocator(locator)
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	return nil
}

func validKey(key string) bool {
	return key != "" && key != "." && key != ".." && !strings.ContainsAny(key, `/\`)
}
