package donation

import (
	"context"

	"github.com/google/uuid"
)

// Store persists donations. Create returns sentinel.ErrConflict when the
// (request, donor) unique constraint rejects a duplicate response.
type Store interface {
	Create(ctx context.Context, d *Donation) error
	FindByID(ctx context.Context, id uuid.UUID) (*Donation, error)
	Update(ctx context.Context, d *Donation) error
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*Donation, error)
	ListByDonor(ctx context.Context, donorID uuid.UUID, status Status) ([]*Donation, error)
	CountByRequest(ctx context.Context, requestID uuid.UUID) (int, error)
	CountCompleted(ctx context.Context) (int, error)
}
