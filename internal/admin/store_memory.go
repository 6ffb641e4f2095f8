package admin

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"badbaado/pkg/platform/sentinel"
)

// MemoryStore keeps admins in a map guarded by a RWMutex, enforcing the same
// email/phone uniqueness as the Postgres schema.
type MemoryStore struct {
	mu     sync.RWMutex
	admins map[uuid.UUID]*Admin
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{admins: make(map[uuid.UUID]*Admin)}
}

func (s *MemoryStore) Create(_ context.Context, a *Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.admins {
		if existing.Email == a.Email || existing.Phone == a.Phone {
			return sentinel.ErrConflict
		}
	}
	cp := *a
	s.admins[a.ID] = &cp
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) Update(_ context.Context, a *Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[a.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.admins {
		if existing.ID == a.ID {
			continue
		}
		if existing.Email == a.Email || existing.Phone == a.Phone {
			return sentinel.ErrConflict
		}
	}
	a.UpdatedAt = time.Now()
	cp := *a
	s.admins[a.ID] = &cp
	return nil
}

func (s *MemoryStore) ListActive(_ context.Context) ([]*Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Admin
	for _, a := range s.admins {
		if !a.IsActive {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
