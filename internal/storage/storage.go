package storage

import (
	"context"
	"sync"
)

// Well-known keys for the profile's durable state. Names are stable: a blob
// written under one of these keys must be readable by any later version.
const (
	KeyDocument           = "cv_document"
	KeyConsentDecided     = "consent_decided"
	KeyConsentPreferences = "consent_preferences"
	KeyUserPreferences    = "user_preferences"
)

// Store is the durable key/value state behind the document store, the consent
// manager and the cookie gateway. Persistence through it is best-effort:
// callers log and swallow write failures.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Memory is the in-process Store used in tests and as the fallback when no
// database is configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
