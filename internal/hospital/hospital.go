// Package hospital is the registry of facilities a request can name.
package hospital

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"badbaado/pkg/domerrors"
	"badbaado/pkg/platform/sentinel"
)

type Hospital struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Location  string
	IsActive  bool
	CreatedAt time.Time
}

// Store persists hospitals.
type Store interface {
	Create(ctx context.Context, h *Hospital) error
	FindByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Hospital, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Register(ctx context.Context, name, phone, location string) (*Hospital, error) {
	if name == "" || phone == "" || location == "" {
		return nil, domerrors.New(domerrors.CodeValidation, "name, phone and location are required")
	}
	h := &Hospital{
		ID:        uuid.New(),
		Name:      name,
		Phone:     phone,
		Location:  location,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("create hospital: %w", err)
	}
	return h, nil
}

func (s *Service) List(ctx context.Context) ([]*Hospital, error) {
	return s.store.List(ctx)
}

// SetActive toggles a hospital's availability in the registry.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Hospital, error) {
	h, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domerrors.New(domerrors.CodeNotFound, "hospital not found")
		}
		return nil, fmt.Errorf("find hospital: %w", err)
	}
	h.IsActive = active
	if err := s.store.Update(ctx, h); err != nil {
		return nil, fmt.Errorf("update hospital: %w", err)
	}
	return h, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domerrors.New(domerrors.CodeNotFound, "hospital not found")
		}
		return fmt.Errorf("delete hospital: %w", err)
	}
	return nil
}
