package request

import (
	"time"

	"github.com/google/uuid"

	"badbaado/pkg/bloodtype"
	"badbaado/pkg/domerrors"
)

// Status is a blood request's lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// transitions is the lifecycle graph. REJECTED, COMPLETED and CANCELLED are
// terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether the lifecycle graph allows from → to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// checkTransition returns the typed error a disallowed pair produces.
// Re-approving an APPROVED request is a conflict, not a transition error,
// so callers can treat it as an idempotency violation.
func checkTransition(from, to Status) error {
	if from == StatusApproved && to == StatusApproved {
		return domerrors.New(domerrors.CodeConflict, "request is already approved")
	}
	if !CanTransition(from, to) {
		return domerrors.InvalidTransition(string(from), string(to))
	}
	return nil
}

// Urgency grades how fast a request needs donors.
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyNormal   Urgency = "NORMAL"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// DefaultMaxDonors is the completion threshold when the requester names none.
const DefaultMaxDonors = 5

// BloodRequest is one patient's plea for blood. The requester snapshot
// (name, phone, gender, age) is denormalized onto the request so approval
// and matching never re-read the account.
type BloodRequest struct {
	ID           uuid.UUID
	RequesterID  uuid.UUID
	FullName     string
	Phone        string
	Gender       string
	Age          int
	Location     string
	Hospital     string
	BloodType    bloodtype.BloodType
	Urgency      Urgency
	Description  string
	MaxDonors    int
	Status       Status
	AdminID      *uuid.UUID
	ApprovedAt   *time.Time
	RejectedAt   *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	RejectReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Filter narrows request listings.
type Filter struct {
	Status    Status
	BloodType bloodtype.BloodType
	Location  string
	Urgency   Urgency
}

// Stats is the per-status request breakdown.
type Stats struct {
	Total     int
	Pending   int
	Approved  int
	Rejected  int
	Completed int
	Cancelled int
}
