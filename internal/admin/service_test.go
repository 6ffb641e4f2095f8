package admin

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"badbaado/internal/auth"
	"badbaado/pkg/domerrors"
)

type fixedCounts struct {
	activeUsers        int
	requests           int
	pendingRequests    int
	completedDonations int
}

func (c fixedCounts) CountActive(context.Context) (int, error)    { return c.activeUsers, nil }
func (c fixedCounts) Count(context.Context) (int, error)          { return c.requests, nil }
func (c fixedCounts) CountPending(context.Context) (int, error)   { return c.pendingRequests, nil }
func (c fixedCounts) CountCompleted(context.Context) (int, error) { return c.completedDonations, nil }

func newTestService(counts fixedCounts) (*Service, *MemoryStore) {
	store := NewMemoryStore()
	hasher := auth.NewHasher(bcrypt.MinCost)
	logger := slog.New(slog.DiscardHandler)
	return NewService(store, hasher, counts, counts, counts, logger), store
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Email:        "staff@badbaado.so",
		Password:     "hunter2!",
		FullName:     "Faduma Hassan",
		Phone:        "252611234567",
		Organization: "Somali Red Crescent",
		Position:     "Coordinator",
		Department:   "Blood Bank",
		Role:         RoleAdmin,
	}
}

func TestAdminRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active staff account", func(t *testing.T) {
		svc, _ := newTestService(fixedCounts{})
		a, err := svc.Register(ctx, validRegistration())
		require.NoError(t, err)
		assert.True(t, a.IsActive)
		assert.Equal(t, RoleAdmin, a.Role)
		assert.NotEqual(t, "hunter2!", a.PasswordHash)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc, _ := newTestService(fixedCounts{})
		_, err := svc.Register(ctx, validRegistration())
		require.NoError(t, err)

		in := validRegistration()
		in.Phone = "252619999999"
		_, err = svc.Register(ctx, in)
		assert.True(t, domerrors.Is(err, domerrors.CodeConflict))
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*RegisterInput)
		}{
			{"missing email", func(in *RegisterInput) { in.Email = "" }},
			{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
			{"missing organization", func(in *RegisterInput) { in.Organization = "" }},
			{"missing position", func(in *RegisterInput) { in.Position = "" }},
			{"unknown role", func(in *RegisterInput) { in.Role = "SUPERUSER" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, _ := newTestService(fixedCounts{})
				in := validRegistration()
				tt.mutate(&in)
				_, err := svc.Register(ctx, in)
				assert.True(t, domerrors.Is(err, domerrors.CodeValidation), "got %v", err)
			})
		}
	})

	t.Run("sender role accepted", func(t *testing.T) {
		svc, _ := newTestService(fixedCounts{})
		in := validRegistration()
		in.Role = RoleSender
		a, err := svc.Register(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, RoleSender, a.Role)
	})
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(fixedCounts{})
	a, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.Login(ctx, a.Email, "hunter2!")
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, a.Email, "wrong")
		assert.True(t, domerrors.Is(err, domerrors.CodeUnauthorized))
	})

	t.Run("inactive account fails like wrong credentials", func(t *testing.T) {
		a.IsActive = false
		require.NoError(t, store.Update(ctx, a))
		_, err := svc.Login(ctx, a.Email, "hunter2!")
		assert.True(t, domerrors.Is(err, domerrors.CodeUnauthorized))
	})
}

func TestListActive(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(fixedCounts{})

	first, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	in := validRegistration()
	in.Email = "second@badbaado.so"
	in.Phone = "252619999999"
	second, err := svc.Register(ctx, in)
	require.NoError(t, err)

	second.IsActive = false
	require.NoError(t, store.Update(ctx, second))

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)
}

func TestDashboard(t *testing.T) {
	svc, _ := newTestService(fixedCounts{
		activeUsers:        42,
		requests:           17,
		pendingRequests:    5,
		completedDonations: 9,
	})

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, stats.TotalUsers)
	assert.Equal(t, 17, stats.TotalRequests)
	assert.Equal(t, 5, stats.PendingRequests)
	assert.Equal(t, 9, stats.CompletedDonations)
}
