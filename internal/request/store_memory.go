package request

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"badbaado/pkg/platform/sentinel"
)

// MemoryStore keeps requests in a map guarded by a RWMutex.
type MemoryStore struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*BloodRequest
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{requests: make(map[uuid.UUID]*BloodRequest)}
}

func (s *MemoryStore) Create(_ context.Context, r *BloodRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.requests[r.ID] = &cp
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*BloodRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) Update(_ context.Context, r *BloodRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	r.UpdatedAt = time.Now()
	cp := *r
	s.requests[r.ID] = &cp
	return nil
}

func (s *MemoryStore) List(_ context.Context, f Filter) ([]*BloodRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*BloodRequest
	for _, r := range s.requests {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.BloodType != "" && r.BloodType != f.BloodType {
			continue
		}
		if f.Location != "" && r.Location != f.Location {
			continue
		}
		if f.Urgency != "" && r.Urgency != f.Urgency {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) ListByRequester(_ context.Context, requesterID uuid.UUID) ([]*BloodRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*BloodRequest
	for _, r := range s.requests {
		if r.RequesterID != requesterID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) ListPending(_ context.Context, limit int) ([]*BloodRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*BloodRequest
	for _, r := range s.requests {
		if r.Status != StatusPending {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests), nil
}

func (s *MemoryStore) CountByStatus(_ context.Context, status Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.requests {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Stats(_ context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &Stats{Total: len(s.requests)}
	for _, r := range s.requests {
		switch r.Status {
		case StatusPending:
			stats.Pending++
		case StatusApproved:
			stats.Approved++
		case StatusRejected:
			stats.Rejected++
		case StatusCompleted:
			stats.Completed++
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

func sortNewestFirst(requests []*BloodRequest) {
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID.String() > requests[j].ID.String()
		}
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}
