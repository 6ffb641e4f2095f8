package hospital

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"badbaado/pkg/platform/sentinel"
)

type MemoryStore struct {
	mu        sync.RWMutex
	hospitals map[uuid.UUID]*Hospital
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hospitals: make(map[uuid.UUID]*Hospital)}
}

func (s *MemoryStore) Create(_ context.Context, h *Hospital) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *h
	s.hospitals[h.ID] = &cp
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hospitals[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (s *MemoryStore) Update(_ context.Context, h *Hospital) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hospitals[h.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *h
	s.hospitals[h.ID] = &cp
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hospitals[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.hospitals, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Hospital
	for _, h := range s.hospitals {
		cp := *h
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
