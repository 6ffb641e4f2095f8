package admin

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes full admins from message-sender accounts.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleSender Role = "SENDER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSender
}

// Admin is a staff account. Email is the login credential; phone receives
// new-request alerts.
type Admin struct {
	ID           uuid.UUID
	Email        string
	Phone        string
	PasswordHash string
	FullName     string
	Organization string
	Position     string
	Department   string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	TotalUsers         int
	TotalRequests      int
	PendingRequests    int
	CompletedDonations int
}
