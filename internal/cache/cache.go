// Package cache provides the key/value store used for the model catalog.
// Entries are keyed by an opaque fingerprint derived from the API key so the
// store never holds the secret itself.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Entry is a cached value together with the time it was written.
type Entry struct {
	Value     []byte
	UpdatedAt time.Time
}

// Store is a minimal cache interface. Implementations must tolerate
// concurrent readers and writers on the same key; last writer wins.
type Store interface {
	Get(fingerprint string) (Entry, bool, error)
	Set(fingerprint string, value []byte, now time.Time) error
	Invalidate(fingerprint string) error
}

// Fingerprint derives a cache key from a secret via a one-way hash.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

func (m *Memory) Get(fingerprint string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[fingerprint]
	return e, ok, nil
}

func (m *Memory) Set(fingerprint string, value []byte, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[fingerprint] = Entry{Value: value, UpdatedAt: now}
	return nil
}

func (m *Memory) Invalidate(fingerprint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, fingerprint)
	return nil
}
