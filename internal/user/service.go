package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"badbaado/internal/auth"
	"badbaado/internal/platform/metrics"
	"badbaado/pkg/bloodtype"
	"badbaado/pkg/domerrors"
	"badbaado/pkg/platform/sentinel"
)

// CoolDown is the minimum interval between a donor's completed donations.
const CoolDown = 90 * 24 * time.Hour

// Service owns donor account lifecycle: registration, credentials, profile,
// eligibility reads, and deactivation. The store is the sole mutator of the
// derived eligibility fields.
type Service struct {
	store      Store
	hasher     *auth.Hasher
	revocation auth.RevocationList
	tokenTTL   time.Duration
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewService(store Store, hasher *auth.Hasher, revocation auth.RevocationList, tokenTTL time.Duration, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:      store,
		hasher:     hasher,
		revocation: revocation,
		tokenTTL:   tokenTTL,
		metrics:    m,
		logger:     logger,
	}
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Password  string
	FullName  string
	Phone     string
	Email     string
	Gender    string
	Age       int
	Location  string
	BloodType bloodtype.BloodType
	Role      Role
}

func (in *RegisterInput) validate() error {
	switch {
	case in.Password == "", in.FullName == "", in.Phone == "",
		in.Gender == "", in.Age == 0, in.Location == "", in.BloodType == "":
		return domerrors.New(domerrors.CodeValidation, "all fields are required")
	}
	if !in.BloodType.Valid() {
		return domerrors.Newf(domerrors.CodeValidation, "invalid blood type: %s", in.BloodType)
	}
	if !govalidator.IsNumeric(sanitizePhone(in.Phone)) {
		return domerrors.New(domerrors.CodeValidation, "phone must be a number")
	}
	if in.Email != "" && !govalidator.IsEmail(in.Email) {
		return domerrors.New(domerrors.CodeValidation, "invalid email address")
	}
	if in.Age < 16 || in.Age > 70 {
		return domerrors.New(domerrors.CodeValidation, "age must be between 16 and 70")
	}
	return nil
}

// Register creates a donor account. Duplicate phone or email surfaces as a
// conflict; the store's unique constraint is the authority, not a pre-check.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = RoleUser
	}

	now := time.Now()
	u := &User{
		ID:           uuid.New(),
		FullName:     in.FullName,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: hash,
		Gender:       in.Gender,
		Age:          in.Age,
		Location:     in.Location,
		BloodType:    in.BloodType,
		Role:         role,
		IsActive:     true,
		IsEligible:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, domerrors.New(domerrors.CodeConflict, "account with this phone already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.UsersRegistered.Inc()
	return u, nil
}

// Login verifies phone credentials. Inactive accounts fail the same way as
// wrong credentials so the response leaks nothing.
func (s *Service) Login(ctx context.Context, phone, password string) (*User, error) {
	if phone == "" || password == "" {
		return nil, domerrors.New(domerrors.CodeValidation, "phone and password required")
	}
	u, err := s.store.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domerrors.New(domerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, fmt.Errorf("find user by phone: %w", err)
	}
	if !u.IsActive || !s.hasher.Compare(u.PasswordHash, password) {
		return nil, domerrors.New(domerrors.CodeUnauthorized, "invalid credentials")
	}
	return u, nil
}

// FindByPhone resolves an active donor for the public lookup endpoint.
func (s *Service) FindByPhone(ctx context.Context, phone string) (*User, error) {
	if phone == "" {
		return nil, domerrors.New(domerrors.CodeValidation, "phone is required")
	}
	u, err := s.store.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domerrors.New(domerrors.CodeNotFound, "no user with this phone")
		}
		return nil, fmt.Errorf("find user by phone: %w", err)
	}
	if !u.IsActive {
		return nil, domerrors.New(domerrors.CodeUnauthorized, "account is deactivated")
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domerrors.New(domerrors.CodeNotFound, "user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// UpdateProfileInput carries optional profile changes; zero values are kept.
type UpdateProfileInput struct {
	FullName  string
	Phone     string
	Age       int
	Location  string
	BloodType bloodtype.BloodType
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if in.Age != 0 {
		u.Age = in.Age
	}
	if in.Location != "" {
		u.Location = in.Location
	}
	if in.BloodType != "" {
		if !in.BloodType.Valid() {
			return nil, domerrors.Newf(domerrors.CodeValidation, "invalid blood type: %s", in.BloodType)
		}
		u.BloodType = in.BloodType
	}
	if err := s.store.Update(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, domerrors.New(domerrors.CodeConflict, "phone already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Eligibility is the donor-facing cool-down summary.
type Eligibility struct {
	IsEligible        bool
	LastDonation      *time.Time
	DaysToEligibility int
	TotalDonations    int
}

func (s *Service) Eligibility(ctx context.Context, id uuid.UUID) (*Eligibility, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	e := &Eligibility{
		IsEligible:     u.IsEligible,
		LastDonation:   u.LastDonation,
		TotalDonations: u.TotalDonations,
	}
	if u.LastDonation != nil {
		waited := time.Since(*u.LastDonation)
		if waited < CoolDown {
			e.IsEligible = false
			e.DaysToEligibility = int((CoolDown - waited).Hours()/24) + 1
		}
	}
	return e, nil
}

// Deactivate soft-deletes the account: flags cleared, phone and email mangled
// to free the unique slots, and every outstanding token revoked.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*time.Time, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u.IsActive = false
	u.IsEligible = false
	u.DeactivatedAt = &now
	u.Phone = fmt.Sprintf("deactivated_%s_%d", u.Phone, now.UnixMilli())
	if u.Email != "" {
		u.Email = fmt.Sprintf("deactivated_%s_%d", u.Email, now.UnixMilli())
	}
	if err := s.store.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("deactivate user: %w", err)
	}

	if err := s.revocation.Revoke(ctx, id.String(), s.tokenTTL); err != nil {
		// The account is already inactive; a failed revocation only delays
		// token death until expiry. Log and continue.
		s.logger.ErrorContext(ctx, "failed to revoke tokens on deactivation",
			"user_id", id.String(), "error", err)
	}
	return &now, nil
}

// SetActive toggles an account administratively. Reactivation does not touch
// IsEligible: the cool-down still governs it.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsActive = active
	if !active {
		u.IsEligible = false
	}
	if err := s.store.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("set user active: %w", err)
	}
	if !active {
		if err := s.revocation.Revoke(ctx, id.String(), s.tokenTTL); err != nil {
			s.logger.ErrorContext(ctx, "failed to revoke tokens on deactivation",
				"user_id", id.String(), "error", err)
		}
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]*User, error) {
	return s.store.List(ctx, f)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

func sanitizePhone(phone string) string {
	if len(phone) > 0 && phone[0] == '+' {
		return phone[1:]
	}
	return phone
}
