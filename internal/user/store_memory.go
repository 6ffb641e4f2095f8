package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"badbaado/pkg/platform/sentinel"
)

// MemoryStore keeps users in a map guarded by a RWMutex. It enforces the same
// uniqueness rules as the Postgres schema so services behave identically
// against either implementation.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[uuid.UUID]*User)}
}

func (s *MemoryStore) Create(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Phone == u.Phone {
			return sentinel.ErrConflict
		}
		if u.Email != "" && existing.Email == u.Email {
			return sentinel.ErrConflict
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) FindByPhone(_ context.Context, phone string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) Update(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.users {
		if existing.ID == u.ID {
			continue
		}
		if existing.Phone == u.Phone {
			return sentinel.ErrConflict
		}
		if u.Email != "" && existing.Email == u.Email {
			return sentinel.ErrConflict
		}
	}
	u.UpdatedAt = time.Now()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryStore) List(_ context.Context, f Filter) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*User
	for _, u := range s.users {
		if !matchesFilter(u, f) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *MemoryStore) CountActive(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, u := range s.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) FindEligible(_ context.Context, f EligibleFilter, limit int) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*User
	for _, u := range s.users {
		if u.BloodType != f.BloodType {
			continue
		}
		if !strings.Contains(strings.ToLower(u.Location), strings.ToLower(f.Location)) {
			continue
		}
		if !u.IsActive || !u.IsEligible {
			continue
		}
		if u.LastDonation != nil && !u.LastDonation.Before(f.DonatedBefore) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) RecordCompletedDonation(_ context.Context, donorID uuid.UUID, completedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[donorID]
	if !ok {
		return sentinel.ErrNotFound
	}
	last := completedAt
	u.IsEligible = false
	u.LastDonation = &last
	u.TotalDonations++
	u.UpdatedAt = time.Now()
	return nil
}

func matchesFilter(u *User, f Filter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(u.FullName), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) &&
			!strings.Contains(strings.ToLower(u.Location), needle) {
			return false
		}
	}
	if f.BloodType != "" && u.BloodType != f.BloodType {
		return false
	}
	if f.Location != "" && u.Location != f.Location {
		return false
	}
	if f.Active != nil && u.IsActive != *f.Active {
		return false
	}
	return true
}

func sortNewestFirst(users []*User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID.String() > users[j].ID.String()
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
}
