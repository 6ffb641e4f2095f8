package donation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"badbaado/pkg/platform/sentinel"
)

// MemoryStore keeps donations in a map guarded by a RWMutex, enforcing the
// (request, donor) uniqueness the Postgres schema guarantees.
type MemoryStore struct {
	mu        sync.RWMutex
	donations map[uuid.UUID]*Donation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{donations: make(map[uuid.UUID]*Donation)}
}

func (s *MemoryStore) Create(_ context.Context, d *Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.donations {
		if existing.RequestID == d.RequestID && existing.DonorID == d.DonorID {
			return sentinel.ErrConflict
		}
	}
	cp := *d
	s.donations[d.ID] = &cp
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryStore) Update(_ context.Context, d *Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donations[d.ID]; !ok {
		return sentinel.ErrNotFound
	}
	d.UpdatedAt = time.Now()
	cp := *d
	s.donations[d.ID] = &cp
	return nil
}

func (s *MemoryStore) ListByRequest(_ context.Context, requestID uuid.UUID) ([]*Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Donation
	for _, d := range s.donations {
		if d.RequestID != requestID {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) ListByDonor(_ context.Context, donorID uuid.UUID, status Status) ([]*Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Donation
	for _, d := range s.donations {
		if d.DonorID != donorID {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) CountByRequest(_ context.Context, requestID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, d := range s.donations {
		if d.RequestID == requestID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CountCompleted(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, d := range s.donations {
		if d.Status == StatusCompleted {
			n++
		}
	}
	return n, nil
}

func sortNewestFirst(donations []*Donation) {
	sort.Slice(donations, func(i, j int) bool {
		if donations[i].CreatedAt.Equal(donations[j].CreatedAt) {
			return donations[i].ID.String() > donations[j].ID.String()
		}
		return donations[i].CreatedAt.After(donations[j].CreatedAt)
	})
}
