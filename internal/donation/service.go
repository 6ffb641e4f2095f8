package donation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"badbaado/internal/notify"
	"badbaado/internal/platform/metrics"
	"badbaado/internal/request"
	"badbaado/internal/user"
	"badbaado/pkg/domerrors"
	"badbaado/pkg/platform/sentinel"
	"badbaado/pkg/platform/tx"
)

// RequestGateway is the lifecycle surface the donation manager calls back
// into: request lookup and the completion trigger once responses reach the
// threshold. Implemented by the request service.
type RequestGateway interface {
	Get(ctx context.Context, id uuid.UUID) (*request.BloodRequest, error)
	Complete(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) (*request.BloodRequest, error)
}

// ResponseNotifier tells a requester a donor accepted.
type ResponseNotifier interface {
	NotifyDonorResponse(ctx context.Context, donor *user.User, req notify.RequestInfo) bool
}

// Service tracks donor responses, enforces one response per (request, donor)
// pair, and advances donations with the donor bookkeeping each completed
// donation requires.
type Service struct {
	store    Store
	users    user.Store
	requests RequestGateway
	notifier ResponseNotifier
	db       *sql.DB
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService wires the manager. db may be nil when the memory stores back it;
// transactional pairs then run unguarded against the mutex stores.
func NewService(store Store, users user.Store, requests RequestGateway, notifier ResponseNotifier, db *sql.DB, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		users:    users,
		requests: requests,
		notifier: notifier,
		db:       db,
		metrics:  m,
		logger:   logger,
	}
}

// RecordResult aggregates a recorded response with its side-effect outcomes.
type RecordResult struct {
	Donation          *Donation
	DonorsCount       int
	RequestCompleted  bool
	RequesterNotified bool
}

// RecordResponse registers a donor's offer against an approved request.
// Preconditions run in a fixed order, first failure wins: request exists,
// request open, donor exists, donor eligible, no prior response. The unique
// constraint is the authority on the last one; concurrent duplicates both
// hit the store and exactly one wins.
func (s *Service) RecordResponse(ctx context.Context, requestID, donorID uuid.UUID, notes string) (*RecordResult, error) {
	r, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r.Status != request.StatusApproved {
		return nil, domerrors.New(domerrors.CodeValidation, "request not open for donation")
	}

	donor, err := s.users.FindByID(ctx, donorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domerrors.New(domerrors.CodeNotFound, "donor not found")
		}
		return nil, fmt.Errorf("find donor: %w", err)
	}
	if !donor.IsEligible {
		return nil, domerrors.New(domerrors.CodeValidation, "donor not eligible")
	}

	if notes == "" {
		notes = DefaultNotes
	}
	now := time.Now()
	d := &Donation{
		ID:        uuid.New(),
		RequestID: requestID,
		DonorID:   donorID,
		Status:    StatusPending,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, d); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, domerrors.New(domerrors.CodeConflict, "already responded to this request")
		}
		return nil, fmt.Errorf("create donation: %w", err)
	}
	s.metrics.DonationsRecorded.Inc()

	result := &RecordResult{Donation: d}
	result.RequesterNotified = s.notifier.NotifyDonorResponse(ctx, donor, requestInfo(r))

	count, err := s.store.CountByRequest(ctx, requestID)
	if err != nil {
		s.logger.ErrorContext(ctx, "donation count failed after record",
			"request_id", requestID, "error", err)
		return result, nil
	}
	result.DonorsCount = count

	if count >= r.MaxDonors {
		if _, err := s.requests.Complete(ctx, requestID, nil); err != nil {
			s.logger.ErrorContext(ctx, "auto-completion failed",
				"request_id", requestID, "error", err)
		} else {
			result.RequestCompleted = true
		}
	}
	return result, nil
}

// AdvanceStatus moves a donation forward. Only the owning donor may advance,
// and only along PENDING → ACCEPTED → COMPLETED (PENDING may jump straight to
// COMPLETED). Reaching COMPLETED applies the donor bookkeeping in the same
// transaction as the status change.
func (s *Service) AdvanceStatus(ctx context.Context, id, donorID uuid.UUID, newStatus Status) (*Donation, error) {
	if !newStatus.Valid() {
		return nil, domerrors.Newf(domerrors.CodeValidation, "invalid status: %s", newStatus)
	}
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.DonorID != donorID {
		return nil, domerrors.New(domerrors.CodeForbidden, "not authorized to update this donation")
	}

	now := time.Now()
	switch newStatus {
	case StatusAccepted:
		if d.Status != StatusPending {
			return nil, domerrors.InvalidTransition(string(d.Status), string(newStatus))
		}
		d.Status = StatusAccepted
		d.AcceptedAt = &now
		if err := s.store.Update(ctx, d); err != nil {
			return nil, fmt.Errorf("update donation: %w", err)
		}
	case StatusCompleted:
		if d.Status == StatusCompleted {
			return nil, domerrors.InvalidTransition(string(d.Status), string(newStatus))
		}
		d.Status = StatusCompleted
		d.CompletedAt = &now
		if err := s.complete(ctx, d, now); err != nil {
			return nil, err
		}
	default:
		return nil, domerrors.InvalidTransition(string(d.Status), string(newStatus))
	}
	return d, nil
}

// complete commits the donation status and the donor's eligibility reset as
// one unit.
func (s *Service) complete(ctx context.Context, d *Donation, completedAt time.Time) error {
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		if err := s.store.Update(ctx, d); err != nil {
			return fmt.Errorf("update donation: %w", err)
		}
		if err := s.users.RecordCompletedDonation(ctx, d.DonorID, completedAt); err != nil {
			return fmt.Errorf("record completed donation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.DonationsCompleted.Inc()
	return nil
}

// CompleteAllForRequest advances every donation still open on a request and
// applies the donor bookkeeping for each, one transaction per donation. The
// request service calls this when a request reaches COMPLETED.
func (s *Service) CompleteAllForRequest(ctx context.Context, requestID uuid.UUID, completedAt time.Time) (int, error) {
	donations, err := s.store.ListByRequest(ctx, requestID)
	if err != nil {
		return 0, fmt.Errorf("list donations: %w", err)
	}

	advanced := 0
	for _, d := range donations {
		if d.Status == StatusCompleted {
			continue
		}
		d.Status = StatusCompleted
		d.CompletedAt = &completedAt
		if err := s.complete(ctx, d, completedAt); err != nil {
			return advanced, fmt.Errorf("advance donation %s: %w", d.ID, err)
		}
		advanced++
	}
	return advanced, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Donation, error) {
	d, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domerrors.New(domerrors.CodeNotFound, "donation not found")
		}
		return nil, fmt.Errorf("find donation: %w", err)
	}
	return d, nil
}

// Mine lists a donor's own responses, optionally filtered by status.
func (s *Service) Mine(ctx context.Context, donorID uuid.UUID, status Status) ([]*Donation, error) {
	if status != "" && !status.Valid() {
		return nil, domerrors.Newf(domerrors.CodeValidation, "invalid status: %s", status)
	}
	return s.store.ListByDonor(ctx, donorID, status)
}

func (s *Service) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*Donation, error) {
	return s.store.ListByRequest(ctx, requestID)
}

func (s *Service) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]*Donation, error) {
	return s.store.ListByDonor(ctx, donorID, "")
}

func (s *Service) CountByRequest(ctx context.Context, requestID uuid.UUID) (int, error) {
	return s.store.CountByRequest(ctx, requestID)
}

func (s *Service) CountCompleted(ctx context.Context) (int, error) {
	return s.store.CountCompleted(ctx)
}

// LastCompleted returns a donor's most recent completed donation, or nil.
func (s *Service) LastCompleted(ctx context.Context, donorID uuid.UUID) (*Donation, error) {
	donations, err := s.store.ListByDonor(ctx, donorID, StatusCompleted)
	if err != nil {
		return nil, err
	}
	if len(donations) == 0 {
		return nil, nil
	}
	return donations[0], nil
}

func requestInfo(r *request.BloodRequest) notify.RequestInfo {
	return notify.RequestInfo{
		ID:        r.ID,
		FullName:  r.FullName,
		Phone:     r.Phone,
		BloodType: r.BloodType,
		Location:  r.Location,
		Hospital:  r.Hospital,
		Urgency:   string(r.Urgency),
	}
}
