package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"badbaado/internal/auth"
	"badbaado/pkg/domerrors"
	"badbaado/pkg/platform/sentinel"
)

// UserCounter, RequestCounter and DonationCounter are the narrow views of the
// other domains the dashboard needs.
type UserCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type RequestCounter interface {
	Count(ctx context.Context) (int, error)
	CountPending(ctx context.Context) (int, error)
}

type DonationCounter interface {
	CountCompleted(ctx context.Context) (int, error)
}

// Service owns staff account lifecycle and the dashboard aggregation.
type Service struct {
	store     Store
	hasher    *auth.Hasher
	users     UserCounter
	requests  RequestCounter
	donations DonationCounter
	logger    *slog.Logger
}

func NewService(store Store, hasher *auth.Hasher, users UserCounter, requests RequestCounter, donations DonationCounter, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		hasher:    hasher,
		users:     users,
		requests:  requests,
		donations: donations,
		logger:    logger,
	}
}

// SetRequestCounter wires the request domain after construction. Requests
// depend on admins for alert recipients, so the reverse edge is set late.
func (s *Service) SetRequestCounter(requests RequestCounter) {
	s.requests = requests
}

// RegisterInput is the validated staff registration payload.
type RegisterInput struct {
	Email        string
	Password     string
	FullName     string
	Phone        string
	Organization string
	Position     string
	Department   string
	Role         Role
}

func (in *RegisterInput) validate() error {
	switch {
	case in.Email == "", in.Password == "", in.FullName == "", in.Phone == "",
		in.Organization == "", in.Position == "", in.Role == "":
		return domerrors.New(domerrors.CodeValidation, "all fields are required")
	}
	if !govalidator.IsEmail(in.Email) {
		return domerrors.New(domerrors.CodeValidation, "invalid email address")
	}
	if !in.Role.Valid() {
		return domerrors.Newf(domerrors.CodeValidation, "invalid role: %s", in.Role)
	}
	return nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Admin, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	a := &Admin{
		ID:           uuid.New(),
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		FullName:     in.FullName,
		Organization: in.Organization,
		Position:     in.Position,
		Department:   in.Department,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, domerrors.New(domerrors.CodeConflict, "admin with this email or phone already exists")
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return a, nil
}

// Login verifies email credentials. Inactive accounts fail the same way as
// wrong credentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Admin, error) {
	if email == "" || password == "" {
		return nil, domerrors.New(domerrors.CodeValidation, "email and password required")
	}
	a, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domerrors.New(domerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	if !a.IsActive || !s.hasher.Compare(a.PasswordHash, password) {
		return nil, domerrors.New(domerrors.CodeUnauthorized, "invalid credentials")
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Admin, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domerrors.New(domerrors.CodeNotFound, "admin not found")
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return a, nil
}

// ListActive returns staff accounts that should receive new-request alerts.
func (s *Service) ListActive(ctx context.Context) ([]*Admin, error) {
	return s.store.ListActive(ctx)
}

// Dashboard aggregates the landing-page figures. A failed counter fails the
// whole read; there is no partial dashboard.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalUsers, err = s.users.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	if stats.TotalRequests, err = s.requests.Count(ctx); err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}
	if stats.PendingRequests, err = s.requests.CountPending(ctx); err != nil {
		return nil, fmt.Errorf("count pending requests: %w", err)
	}
	if stats.CompletedDonations, err = s.donations.CountCompleted(ctx); err != nil {
		return nil, fmt.Errorf("count completed donations: %w", err)
	}
	return stats, nil
}
