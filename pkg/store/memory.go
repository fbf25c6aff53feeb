package store

import (
	"context"
	"errors"
	"sync"

	"github.com/podcast-tools/spotify-mcp/pkg/core"
)

var (
	// ErrNilRecord is returned when attempting to save a nil token record.
	ErrNilRecord = errors.New("token record cannot be nil")
)

// MemoryStore implements the core.Store interface with a mutex-guarded
// in-process record. It backs tests and ephemeral runs where nothing should
// touch the filesystem.
type MemoryStore struct {
	mu     sync.RWMutex
	record *core.TokenRecord
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored record, or (nil, nil) when absent.
func (m *MemoryStore) Load(ctx context.Context) (*core.TokenRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.record.Clone(), nil
}

// Save replaces the stored record.
// It returns ErrNilRecord when the record is nil.
func (m *MemoryStore) Save(ctx context.Context, record *core.TokenRecord) error {
	if record == nil {
		return ErrNilRecord
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.record = record.Clone()
	return nil
}

// Clear drops the stored record. Clearing an empty store is not an error.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record = nil
	return nil
}
