// ABOUTME: Key-value string store abstraction used by the habit journal
// ABOUTME: Includes an in-memory implementation for tests and ephemeral runs
package storage

import (
	"errors"
	"sync"
)

// Store is a key-value string store. Get reports absence with ok=false
// rather than an error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// ErrReadOnly is returned by MemoryStore.Set when writes are disabled
var ErrReadOnly = errors.New("store is read-only")

// MemoryStore keeps values in process memory
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string]string
	readOnly bool
	writes   int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get retrieves a value by key
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores a value under key
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readOnly {
		return ErrReadOnly
	}
	m.data[key] = value
	m.writes++
	return nil
}

// SetReadOnly makes subsequent writes fail, simulating a full store
func (m *MemoryStore) SetReadOnly(readOnly bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readOnly = readOnly
}

// Writes returns the number of successful Set calls
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
