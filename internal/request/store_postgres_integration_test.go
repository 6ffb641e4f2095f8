//go:build integration

package request_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"badbaado/internal/admin"
	"badbaado/internal/request"
	"badbaado/internal/user"
	"badbaado/pkg/bloodtype"
	"badbaado/pkg/platform/sentinel"
	"badbaado/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *request.PostgresStore
	users     *user.PostgresStore
	requester *user.User
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = request.NewPostgres(s.postgres.DB)
	s.users = user.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	s.postgres.Close(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "donations", "blood_requests", "users", "admins")
	s.Require().NoError(err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	s.requester = &user.User{
		ID:         uuid.New(),
		FullName:   "Asha Omar",
		Phone:      "252611111111",
		Gender:     "FEMALE",
		Age:        34,
		Location:   "Mogadishu",
		BloodType:  bloodtype.OPositive,
		Role:       user.RoleUser,
		IsActive:   true,
		IsEligible: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.Require().NoError(s.users.Create(ctx, s.requester))
}

func (s *PostgresStoreSuite) newRequest(status request.Status, createdAt time.Time) *request.BloodRequest {
	return &request.BloodRequest{
		ID:          uuid.New(),
		RequesterID: s.requester.ID,
		FullName:    s.requester.FullName,
		Phone:       s.requester.Phone,
		Gender:      s.requester.Gender,
		Age:         s.requester.Age,
		Location:    "Mogadishu",
		Hospital:    "Banadir Hospital",
		BloodType:   bloodtype.OPositive,
		Urgency:     request.UrgencyHigh,
		Description: "Post-surgery transfusion",
		MaxDonors:   request.DefaultMaxDonors,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	r := s.newRequest(request.StatusPending, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(s.store.Create(ctx, r))

	stored, err := s.store.FindByID(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(r.RequesterID, stored.RequesterID)
	s.Equal(request.StatusPending, stored.Status)
	s.Nil(stored.AdminID)
	s.Empty(stored.RejectReason)
}

func (s *PostgresStoreSuite) TestUpdateRoundTripsOptionalFields() {
	ctx := context.Background()
	r := s.newRequest(request.StatusPending, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(s.store.Create(ctx, r))

	now := time.Now().UTC().Truncate(time.Microsecond)
	reviewer := &admin.Admin{
		ID:           uuid.New(),
		Email:        "staff@badbaado.so",
		Phone:        "252611234567",
		PasswordHash: "x",
		FullName:     "Faduma Hassan",
		Organization: "Somali Red Crescent",
		Position:     "Coordinator",
		Role:         admin.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.Require().NoError(admin.NewPostgres(s.postgres.DB).Create(ctx, reviewer))

	adminID := reviewer.ID
	rejectedAt := now
	r.Status = request.StatusRejected
	r.AdminID = &adminID
	r.RejectedAt = &rejectedAt
	r.RejectReason = "insufficient detail"
	s.Require().NoError(s.store.Update(ctx, r))

	stored, err := s.store.FindByID(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(request.StatusRejected, stored.Status)
	s.Require().NotNil(stored.AdminID)
	s.Equal(adminID, *stored.AdminID)
	s.Equal("insufficient detail", stored.RejectReason)
	s.Require().NotNil(stored.RejectedAt)
}

func (s *PostgresStoreSuite) TestUpdateUnknownRequest() {
	r := s.newRequest(request.StatusPending, time.Now())
	err := s.store.Update(context.Background(), r)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListPendingOrderAndLimit() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond).Add(-time.Hour)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		r := s.newRequest(request.StatusPending, base.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.store.Create(ctx, r))
		ids = append(ids, r.ID)
	}
	approved := s.newRequest(request.StatusApproved, base.Add(time.Hour))
	s.Require().NoError(s.store.Create(ctx, approved))

	pending, err := s.store.ListPending(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	// Newest first.
	s.Equal(ids[2], pending[0].ID)
	s.Equal(ids[1], pending[1].ID)
}

func (s *PostgresStoreSuite) TestListFilters() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	match := s.newRequest(request.StatusPending, now)
	s.Require().NoError(s.store.Create(ctx, match))

	other := s.newRequest(request.StatusPending, now)
	other.BloodType = bloodtype.ABNegative
	other.Location = "Hargeisa"
	s.Require().NoError(s.store.Create(ctx, other))

	got, err := s.store.List(ctx, request.Filter{
		BloodType: bloodtype.OPositive,
		Location:  "mogadishu",
	})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(match.ID, got[0].ID)
}

func (s *PostgresStoreSuite) TestStats() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	for _, status := range []request.Status{
		request.StatusPending, request.StatusPending,
		request.StatusApproved, request.StatusCompleted,
	} {
		s.Require().NoError(s.store.Create(ctx, s.newRequest(status, now)))
	}

	stats, err := s.store.Stats(ctx)
	s.Require().NoError(err)
	s.Equal(4, stats.Total)
	s.Equal(2, stats.Pending)
	s.Equal(1, stats.Approved)
	s.Equal(1, stats.Completed)
	s.Zero(stats.Rejected)
}
