package notes

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a process-local Store used for tests and `memory://` runs.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]Note
	order []string // ids in creation order
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Note)}
}

func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []Note{}
	for _, id := range s.order {
		if n := s.byID[id]; n.Owner == ownerID {
			list = append(list, n)
		}
	}
	return list, nil
}

func (s *MemoryStore) Create(_ context.Context, n *Note) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *n
	created.ID = uuid.NewString()
	created.Date = time.Now().UTC()
	s.byID[created.ID] = created
	s.order = append(s.order, created.ID)
	return &created, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, patch Patch) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&n)
	s.byID[id] = n
	return &n, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.byID, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return &n, nil
}
