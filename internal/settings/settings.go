// Package settings stores keyed system configuration editable by staff.
package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"badbaado/pkg/domerrors"
)

// DefaultCategory buckets settings created without an explicit category.
const DefaultCategory = "SYSTEM_CONFIGURATION"

type Setting struct {
	Key         string
	Value       string
	Description string
	Category    string
	UpdatedBy   uuid.UUID
	UpdatedAt   time.Time
}

// Store persists settings. Upsert creates missing keys and overwrites
// existing ones.
type Store interface {
	Upsert(ctx context.Context, s *Setting) error
	List(ctx context.Context, category string) ([]*Setting, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns settings, optionally one category, ordered by category.
func (s *Service) List(ctx context.Context, category string) ([]*Setting, error) {
	return s.store.List(ctx, category)
}

// Set upserts one setting, recording which admin changed it.
func (s *Service) Set(ctx context.Context, key, value, description string, updatedBy uuid.UUID) (*Setting, error) {
	if key == "" || value == "" {
		return nil, domerrors.New(domerrors.CodeValidation, "key and value are required")
	}
	setting := &Setting{
		Key:         key,
		Value:       value,
		Description: description,
		Category:    DefaultCategory,
		UpdatedBy:   updatedBy,
		UpdatedAt:   time.Now(),
	}
	if err := s.store.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("upsert setting: %w", err)
	}
	return setting, nil
}
