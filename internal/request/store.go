package request

import (
	"context"

	"github.com/google/uuid"
)

// Store persists blood requests. FindByID and Update return
// sentinel.ErrNotFound for unknown IDs. Listings order newest first.
type Store interface {
	Create(ctx context.Context, r *BloodRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*BloodRequest, error)
	Update(ctx context.Context, r *BloodRequest) error
	List(ctx context.Context, f Filter) ([]*BloodRequest, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*BloodRequest, error)
	ListPending(ctx context.Context, limit int) ([]*BloodRequest, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
	Stats(ctx context.Context) (*Stats, error)
}
