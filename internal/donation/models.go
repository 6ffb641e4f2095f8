package donation

import (
	"time"

	"github.com/google/uuid"
)

// Status is a donation's progress from response to completed donation.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusCompleted:
		return true
	}
	return false
}

// DefaultNotes fills in when a donor responds without a note.
const DefaultNotes = "Available to donate blood"

// Donation links one donor's response to one blood request. At most one per
// (request, donor) pair; the store's unique constraint enforces it.
type Donation struct {
	ID          uuid.UUID
	RequestID   uuid.UUID
	DonorID     uuid.UUID
	Status      Status
	Notes       string
	AcceptedAt  *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
