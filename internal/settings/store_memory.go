package settings

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu       sync.RWMutex
	settings map[string]*Setting
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: make(map[string]*Setting)}
}

func (s *MemoryStore) Upsert(_ context.Context, setting *Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *setting
	s.settings[setting.Key] = &cp
	return nil
}

func (s *MemoryStore) List(_ context.Context, category string) ([]*Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Setting
	for _, setting := range s.settings {
		if category != "" && setting.Category != category {
			continue
		}
		cp := *setting
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category == out[j].Category {
			return out[i].Key < out[j].Key
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}
