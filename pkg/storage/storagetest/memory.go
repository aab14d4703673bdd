// Package storagetest provides an in-memory storage.Storage for tests.
package storagetest

import (
	"context"
	"errors"
	"sync"

	"github.com/vishwam-chepuri/matching-app/pkg/storage"
)

var ErrInjected = errors.New("injected storage failure")

type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string

	// FailStore and FailRemove make the next calls fail.
	FailStore  bool
	FailRemove bool
}

var _ storage.Storage = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Store(_ context.Context, data []byte, key string, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailStore {
		return "", ErrInjected
	}
	locator := storage.DefaultLocalPrefix + "/" + key
	m.objects[locator] = append([]byte(nil), data...)
	return locator, nil
}

func (m *Memory) Remove(_ context.Context, locator string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, locator)
	if m.FailRemove {
		return ErrInjected
	}
	delete(m.objects, locator)
	return nil
}

func (m *Memory) Has(locator string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[locator]
	return ok
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Removed lists every locator Remove was called with, in order.
func (m *Memory) Removed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.removed...)
}
