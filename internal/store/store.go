package store

import (
	"sync"

	"github.com/tphummel/pc_monitor/internal/models"
)

// Store holds the latest snapshot reported by each machine.
type Store interface {
	// Put replaces whatever is stored under key with s. The store takes
	// ownership of s; callers must not modify it afterwards.
	Put(key string, s models.Snapshot)
	// Values returns every stored snapshot in no particular order.
	Values() []models.Snapshot
	// Len reports how many machines have reported at least once.
	Len() int
}

// MemoryStore is a Store backed by a map guarded by a RWMutex. Its contents
// live for the lifetime of the process.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]models.Snapshot
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]models.Snapshot)}
}

func (s *MemoryStore) Put(key string, snap models.Snapshot) {
	s.mu.Lock()
	s.snapshots[key] = snap
	s.mu.Unlock()
}

func (s *MemoryStore) Values() []models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, snap)
	}
	return out
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
