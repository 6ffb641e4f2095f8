package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is interface-driven so services stay testable and the memory and
// Postgres implementations remain swappable without rewiring business code.
// Create and Update return sentinel.ErrConflict when the phone or email
// unique constraint rejects the write, sentinel.ErrNotFound for unknown IDs.
type Store interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, f Filter) ([]*User, error)
	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)

	// FindEligible applies EligibleFilter at the store level, ordered by
	// newest registration first. limit <= 0 means unlimited. An empty result
	// is a nil slice, not an error.
	FindEligible(ctx context.Context, f EligibleFilter, limit int) ([]*User, error)

	// RecordCompletedDonation applies the donor-side effects of a donation
	// reaching COMPLETED: isEligible=false, lastDonation=completedAt,
	// totalDonations incremented. Joins any transaction carried in ctx.
	RecordCompletedDonation(ctx context.Context, donorID uuid.UUID, completedAt time.Time) error
}
