package notify

import (
	"context"

	"github.com/google/uuid"
)

// Store persists per-user inbox entries. MarkRead returns
// sentinel.ErrNotFound for unknown IDs and sentinel.ErrInvalidState when the
// notification belongs to another user.
type Store interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, isRead *bool) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (*Notification, error)
}
