package notify

import (
	"time"

	"github.com/google/uuid"

	"badbaado/pkg/bloodtype"
)

// Kind tags outbound messages and inbox records by trigger.
type Kind string

const (
	KindNewRequest    Kind = "NEW_REQUEST"
	KindDonorMatch    Kind = "DONOR_MATCH"
	KindApproval      Kind = "APPROVAL"
	KindDonorResponse Kind = "DONOR_RESPONSE"
)

// Message is one outbound send to the messaging transport.
type Message struct {
	Recipient string // phone number
	Body      string
	Kind      Kind
	UserID    uuid.UUID // zero when the recipient has no account
}

// RequestInfo is the slice of a blood request the dispatcher needs. It is a
// value copy so notification templating never reaches back into request state.
type RequestInfo struct {
	ID        uuid.UUID
	FullName  string
	Phone     string
	BloodType bloodtype.BloodType
	Location  string
	Hospital  string
	Urgency   string
}

// DonorResult is the per-donor outcome of a fan-out.
type DonorResult struct {
	DonorID  uuid.UUID
	Phone    string
	Success  bool
	ErrorMsg string
}

// Notification is a persisted per-user inbox entry.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Body      string
	Kind      Kind
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}
