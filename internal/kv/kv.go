// Package kv is the per-session key-value storage for the cart and the theme
// preference. Values are last-write-wins strings with no versioning.
package kv

import (
	"context"
	"fmt"
	"sync"
)

// Storage is implemented by Memory and Redis
type Storage interface {
	// Get returns ok=false when the key has never been written
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CartKey is the storage key of a session's serialized cart
func CartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// ThemeKey is the storage key of a session's theme preference
func ThemeKey(sessionID string) string {
	return fmt.Sprintf("theme:%s", sessionID)
}

// Memory is an in-process Storage
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-process storage
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
