package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"badbaado/pkg/platform/sentinel"
)

type MemoryStore struct {
	mu            sync.RWMutex
	notifications map[uuid.UUID]*Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{notifications: make(map[uuid.UUID]*Notification)}
}

func (s *MemoryStore) Create(_ context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.notifications[n.ID] = &cp
	return nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID uuid.UUID, isRead *bool) ([]*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Notification
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if isRead != nil && n.IsRead != *isRead {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) MarkRead(_ context.Context, id, userID uuid.UUID) (*Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if n.UserID != userID {
		return nil, sentinel.ErrInvalidState
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	cp := *n
	return &cp, nil
}
