package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnknownLocator is returned by Remove when a locator was not produced by
// the backend asked to remove it.
var ErrUnknownLocator = errors.New("locator not managed by this storage")

// Storage persists photo bytes and hands back a locator (a relative path or
// an absolute URL) that is saved instead of the bytes.
type Storage interface {
	Store(ctx context.Context, data []byte, key string, contentType string) (string, error)
	Remove(ctx context.Context, locator string) error
}

// NewKey builds a collision resistant storage key that keeps the original
// file extension, defaulting to .jpg.
func NewKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || ext == "." {
		ext = ".jpg"
	}
	return uuid.NewString() + ext
}

// ResolveURL makes a locator fetchable by clients. Relative locators are
// prefixed with baseURL; absolute URLs pass through unchanged.
func ResolveURL(baseURL, locator string) string {
	if locator == "" || isAbsolute(locator) {
		return locator
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(locator, "/")
}

func isAbsolute(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

func unknownLocator(locator string) error {
	return fmt.Errorf("%w: %q", ErrUnknownLocator, locator)
}
