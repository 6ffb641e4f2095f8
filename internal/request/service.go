package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"badbaado/internal/admin"
	"badbaado/internal/match"
	"badbaado/internal/notify"
	"badbaado/internal/platform/metrics"
	"badbaado/internal/user"
	"badbaado/pkg/bloodtype"
	"badbaado/pkg/domerrors"
	"badbaado/pkg/platform/sentinel"
)

// pendingPreviewLimit caps the public pending-request feed.
const pendingPreviewLimit = 10

// Notifier is the dispatcher surface the lifecycle needs. Every call is
// best effort; outcomes come back as flags and per-donor results, never as
// errors that could undo a transition.
type Notifier interface {
	NotifyDonors(ctx context.Context, req notify.RequestInfo, donors []*user.User) []notify.DonorResult
	NotifyRequester(ctx context.Context, req notify.RequestInfo) bool
	NotifyAdmins(ctx context.Context, req notify.RequestInfo, admins []notify.Recipient)
}

// AdminDirectory yields the staff accounts alerted about new requests.
type AdminDirectory interface {
	ListActive(ctx context.Context) ([]*admin.Admin, error)
}

// DonationBook is the donation-side view the lifecycle needs: how many
// responses a request has, and the bulk advance that completion triggers.
// It is wired after construction because the donation service in turn
// depends on this one for auto-completion.
type DonationBook interface {
	CountByRequest(ctx context.Context, requestID uuid.UUID) (int, error)
	CompleteAllForRequest(ctx context.Context, requestID uuid.UUID, completedAt time.Time) (int, error)
}

// Service owns the blood request lifecycle: intake, the transition state
// machine, and the notification side effects each transition fires.
type Service struct {
	store       Store
	matcher     *match.Matcher
	notifier    Notifier
	admins      AdminDirectory
	donations   DonationBook
	fanoutLimit int
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewService wires the lifecycle. fanoutLimit caps the approval notification
// fan-out; 0 falls back to the default.
func NewService(store Store, matcher *match.Matcher, notifier Notifier, admins AdminDirectory, fanoutLimit int, m *metrics.Metrics, logger *slog.Logger) *Service {
	if fanoutLimit <= 0 {
		fanoutLimit = match.DefaultLimit
	}
	return &Service{
		store:       store,
		matcher:     matcher,
		notifier:    notifier,
		admins:      admins,
		fanoutLimit: fanoutLimit,
		metrics:     m,
		logger:      logger,
	}
}

// SetDonationBook completes the wiring between this service and the donation
// manager. Must be called before any transition runs.
func (s *Service) SetDonationBook(d DonationBook) {
	s.donations = d
}

// CreateInput is the validated intake payload.
type CreateInput struct {
	FullName    string
	Phone       string
	Gender      string
	Age         int
	Location    string
	Hospital    string
	BloodType   bloodtype.BloodType
	Urgency     Urgency
	Description string
	MaxDonors   int
}

func (in *CreateInput) validate() error {
	switch {
	case in.FullName == "", in.Phone == "", in.Gender == "", in.Age == 0,
		in.Location == "", in.BloodType == "", in.Urgency == "":
		return domerrors.New(domerrors.CodeValidation, "all fields are required")
	}
	if !in.BloodType.Valid() {
		return domerrors.Newf(domerrors.CodeValidation, "invalid blood type: %s", in.BloodType)
	}
	if !in.Urgency.Valid() {
		return domerrors.Newf(domerrors.CodeValidation, "invalid urgency: %s", in.Urgency)
	}
	if in.MaxDonors < 0 {
		return domerrors.New(domerrors.CodeValidation, "maxDonors must be positive")
	}
	return nil
}

// Create opens a PENDING request and alerts active staff through the outbox.
// A failed admin lookup only costs the alert, never the request.
func (s *Service) Create(ctx context.Context, requesterID uuid.UUID, in CreateInput) (*BloodRequest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	maxDonors := in.MaxDonors
	if maxDonors == 0 {
		maxDonors = DefaultMaxDonors
	}

	now := time.Now()
	r := &BloodRequest{
		ID:          uuid.New(),
		RequesterID: requesterID,
		FullName:    in.FullName,
		Phone:       in.Phone,
		Gender:      in.Gender,
		Age:         in.Age,
		Location:    in.Location,
		Hospital:    in.Hospital,
		BloodType:   in.BloodType,
		Urgency:     in.Urgency,
		Description: in.Description,
		MaxDonors:   maxDonors,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create blood request: %w", err)
	}
	s.metrics.RequestsCreated.Inc()

	staff, err := s.admins.ListActive(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "admin lookup failed, skipping new-request alert",
			"request_id", r.ID, "error", err)
		return r, nil
	}
	recipients := make([]notify.Recipient, 0, len(staff))
	for _, a := range staff {
		recipients = append(recipients, notify.Recipient{ID: a.ID, Phone: a.Phone})
	}
	s.notifier.NotifyAdmins(ctx, requestInfo(r), recipients)
	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*BloodRequest, error) {
	r, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domerrors.New(domerrors.CodeNotFound, "blood request not found")
		}
		return nil, fmt.Errorf("find blood request: %w", err)
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]*BloodRequest, error) {
	return s.store.List(ctx, f)
}

func (s *Service) Mine(ctx context.Context, requesterID uuid.UUID) ([]*BloodRequest, error) {
	return s.store.ListByRequester(ctx, requesterID)
}

// Pending is the public feed of requests awaiting review.
func (s *Service) Pending(ctx context.Context) ([]*BloodRequest, error) {
	return s.store.ListPending(ctx, pendingPreviewLimit)
}

func (s *Service) Approved(ctx context.Context) ([]*BloodRequest, error) {
	return s.store.List(ctx, Filter{Status: StatusApproved})
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.store.Stats(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

func (s *Service) CountPending(ctx context.Context) (int, error) {
	return s.store.CountByStatus(ctx, StatusPending)
}

// EligibleDonors lists every donor who currently qualifies for the request,
// uncapped. The approval fan-out uses the capped path instead.
func (s *Service) EligibleDonors(ctx context.Context, id uuid.UUID) ([]*user.User, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.matcher.FindEligible(ctx, match.Criteria{
		BloodType: r.BloodType,
		Location:  r.Location,
	}, 0)
}

// ApprovalResult aggregates the transition with its notification outcomes.
type ApprovalResult struct {
	Request           *BloodRequest
	EligibleDonors    int
	DonorsNotified    int
	RequesterNotified bool
	DonorResults      []notify.DonorResult
}

// Approve moves a PENDING request to APPROVED, fans match alerts out to
// eligible donors, and confirms to the requester. The transition commits
// before any notification runs; notification outcomes are reported, never
// propagated.
func (s *Service) Approve(ctx context.Context, id, adminID uuid.UUID) (*ApprovalResult, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(r.Status, StatusApproved); err != nil {
		return nil, err
	}

	now := time.Now()
	r.Status = StatusApproved
	r.AdminID = &adminID
	r.ApprovedAt = &now
	if err := s.store.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("approve blood request: %w", err)
	}
	s.metrics.RequestTransitions.WithLabelValues(string(StatusApproved)).Inc()

	result := &ApprovalResult{Request: r}

	donors, err := s.matcher.FindEligible(ctx, match.Criteria{
		BloodType: r.BloodType,
		Location:  r.Location,
	}, s.fanoutLimit)
	if err != nil {
		// The approval is already committed. Donors can still be listed and
		// notified later through the eligible-donors endpoint.
		s.logger.ErrorContext(ctx, "donor matching failed after approval",
			"request_id", r.ID, "error", err)
		donors = nil
	}
	result.EligibleDonors = len(donors)

	if len(donors) > 0 {
		result.DonorResults = s.notifier.NotifyDonors(ctx, requestInfo(r), donors)
		for _, dr := range result.DonorResults {
			if dr.Success {
				result.DonorsNotified++
			}
		}
	}
	result.RequesterNotified = s.notifier.NotifyRequester(ctx, requestInfo(r))

	s.logger.InfoContext(ctx, "blood request approved",
		"request_id", r.ID,
		"eligible_donors", result.EligibleDonors,
		"donors_notified", result.DonorsNotified,
		"requester_notified", result.RequesterNotified,
	)
	return result, nil
}

// Reject moves a PENDING request to REJECTED. The reason is mandatory.
func (s *Service) Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (*BloodRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domerrors.New(domerrors.CodeValidation, "reject reason is required")
	}
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(r.Status, StatusRejected); err != nil {
		return nil, err
	}

	now := time.Now()
	r.Status = StatusRejected
	r.AdminID = &adminID
	r.RejectedAt = &now
	r.RejectReason = reason
	if err := s.store.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("reject blood request: %w", err)
	}
	s.metrics.RequestTransitions.WithLabelValues(string(StatusRejected)).Inc()
	return r, nil
}

// Complete moves an APPROVED request to COMPLETED and bulk-advances every
// donation still open on it. adminID is nil when the threshold auto-trigger
// fires. The donation advance runs after the request commit; a failure there
// is logged and leaves the donations to a later retry, it never reverts the
// request.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) (*BloodRequest, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(r.Status, StatusCompleted); err != nil {
		return nil, err
	}

	now := time.Now()
	r.Status = StatusCompleted
	r.CompletedAt = &now
	if adminID != nil {
		r.AdminID = adminID
	}
	if err := s.store.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("complete blood request: %w", err)
	}
	s.metrics.RequestTransitions.WithLabelValues(string(StatusCompleted)).Inc()

	advanced, err := s.donations.CompleteAllForRequest(ctx, r.ID, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to advance donations on completion",
			"request_id", r.ID, "error", err)
	} else if advanced > 0 {
		s.logger.InfoContext(ctx, "donations advanced on completion",
			"request_id", r.ID, "count", advanced)
	}
	return r, nil
}

// Cancel withdraws a request. Only the owner may cancel, only while the
// request is PENDING or APPROVED, and only before any donor has responded.
func (s *Service) Cancel(ctx context.Context, id, requesterID uuid.UUID) (*BloodRequest, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.RequesterID != requesterID {
		return nil, domerrors.New(domerrors.CodeForbidden, "not authorized to cancel this request")
	}
	if err := checkTransition(r.Status, StatusCancelled); err != nil {
		return nil, err
	}
	count, err := s.donations.CountByRequest(ctx, r.ID)
	if err != nil {
		return nil, fmt.Errorf("count donations: %w", err)
	}
	if count > 0 {
		return nil, domerrors.New(domerrors.CodeConflict, "request already has donor responses")
	}

	now := time.Now()
	r.Status = StatusCancelled
	r.CancelledAt = &now
	if err := s.store.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("cancel blood request: %w", err)
	}
	s.metrics.RequestTransitions.WithLabelValues(string(StatusCancelled)).Inc()
	return r, nil
}

func requestInfo(r *BloodRequest) notify.RequestInfo {
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
