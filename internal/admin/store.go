package admin

import (
	"context"

	"github.com/google/uuid"
)

// Store persists admin accounts. Create and Update return
// sentinel.ErrConflict on duplicate email or phone.
type Store interface {
	Create(ctx context.Context, a *Admin) error
	FindByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	Update(ctx context.Context, a *Admin) error
	ListActive(ctx context.Context) ([]*Admin, error)
}
