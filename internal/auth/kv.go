package auth

import (
	"context"
	"sync"
)

// Key spaces used by the token store.
const (
	ScopeSession     = "session"
	ScopeCredentials = "credentials"
)

// KV is a scoped string key-value store.
type KV interface {
	Get(ctx context.Context, scope, key string) (string, bool, error)
	Set(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope, key string) error
	Clear(ctx context.Context, scope string) error
}

// MemoryKV is an in-process [KV].
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[scope][key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[scope] == nil {
		m.data[scope] = make(map[string]string)
	}
	m.data[scope][key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[scope], key)
	return nil
}

func (m *MemoryKV) Clear(_ context.Context, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, scope)
	return nil
}
