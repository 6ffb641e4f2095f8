package user

import (
	"time"

	"github.com/google/uuid"

	"badbaado/pkg/bloodtype"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is a donor account. IsEligible is derived state: it is cleared when a
// donation completes or the account is deactivated, and only the user store
// mutates it together with LastDonation and TotalDonations.
type User struct {
	ID             uuid.UUID
	FullName       string
	Phone          string
	Email          string
	PasswordHash   string
	Gender         string
	Age            int
	Location       string
	BloodType      bloodtype.BloodType
	Role           Role
	IsActive       bool
	IsEligible     bool
	LastDonation   *time.Time
	TotalDonations int
	DeactivatedAt  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Filter narrows admin user listings.
type Filter struct {
	Search    string // matches full name, email, or location
	BloodType bloodtype.BloodType
	Location  string
	Active    *bool
}

// EligibleFilter is the store-level donor matching filter: exact blood type,
// substring location containment, active + eligible flags, and a cool-down
// cutoff (last donation absent or strictly before DonatedBefore).
type EligibleFilter struct {
	BloodType     bloodtype.BloodType
	Location      string
	DonatedBefore time.Time
}
