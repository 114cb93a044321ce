package store

import (
	"context"
	"sort"
	"sync"

	"github.com/dkrape/modelink/uml"
)

// MemStore is an in-memory implementation of Store.
//
// Designed for testing and single-process sessions; data is lost when the
// process terminates. Thread-safe.
type MemStore struct {
	mu        sync.RWMutex
	snapshots map[string][]uml.Snapshot // modelID -> versions, oldest first
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		snapshots: make(map[string][]uml.Snapshot),
	}
}

// SaveSnapshot appends a new version for the model.
func (m *MemStore) SaveSnapshot(_ context.Context, modelID string, snap uml.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[modelID] = append(m.snapshots[modelID], snap)
	return nil
}

// LoadSnapshot returns the latest version of the model.
func (m *MemStore) LoadSnapshot(_ context.Context, modelID string) (uml.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	versions := m.snapshots[modelID]
	if len(versions) == 0 {
		return uml.Snapshot{}, ErrNotFound
	}
	return versions[len(versions)-1], nil
}

// ListModels returns the known model IDs in lexical order.
func (m *MemStore) ListModels(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.snapshots))
	for id := range m.snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteSnapshots removes every version of the model.
func (m *MemStore) DeleteSnapshots(_ context.Context, modelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, modelID)
	return nil
}
