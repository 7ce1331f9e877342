package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory snapshot store for development and testing.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]*Snapshot
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]*Snapshot)}
}

func (s *MemoryStore) Put(ctx context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *snap
	s.snaps[snap.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snaps[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *snap
	return &cp, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snaps, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]Info, 0, len(s.snaps))
	for _, snap := range s.snaps {
		infos = append(infos, Info{ID: snap.ID, Name: snap.Name, CreatedAt: snap.CreatedAt})
	}
	sortInfos(infos)
	return infos, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
