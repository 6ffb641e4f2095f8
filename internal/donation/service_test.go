package donation

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badbaado/internal/admin"
	"badbaado/internal/match"
	"badbaado/internal/notify"
	"badbaado/internal/platform/metrics"
	"badbaado/internal/request"
	"badbaado/internal/user"
	"badbaado/pkg/bloodtype"
	"badbaado/pkg/domerrors"
)

var testMetrics = metrics.NewWith(prometheus.NewRegistry())

type noStaff struct{}

func (noStaff) ListActive(context.Context) ([]*admin.Admin, error) {
	return nil, nil
}

// fixture wires the donation and request services against each other the way
// main does, backed by memory stores.
type fixture struct {
	donations *Service
	requests  *request.Service
	users     *user.MemoryStore
	store     *MemoryStore
	sender    *notify.MemorySender
}

func newFixture() *fixture {
	users := user.NewMemoryStore()
	store := NewMemoryStore()
	sender := notify.NewMemorySender()
	logger := slog.New(slog.DiscardHandler)

	dispatcher := notify.NewDispatcher(sender, notify.NewMemoryStore(),
		notify.NewCircuitBreaker(0, 0), 16, 2, testMetrics, logger)
	matcher := match.NewMatcher(users, testMetrics)

	requests := request.NewService(request.NewMemoryStore(), matcher, dispatcher,
		noStaff{}, 0, testMetrics, logger)
	donations := NewService(store, users, requests, dispatcher, nil, testMetrics, logger)
	requests.SetDonationBook(donations)

	return &fixture{
		donations: donations,
		requests:  requests,
		users:     users,
		store:     store,
		sender:    sender,
	}
}

func (f *fixture) seedDonor(t *testing.T, phone string) *user.User {
	t.Helper()
	d := &user.User{
		ID:         uuid.New(),
		FullName:   "Donor " + phone,
		Phone:      phone,
		BloodType:  bloodtype.OPositive,
		Location:   "Mogadishu",
		IsActive:   true,
		IsEligible: true,
	}
	require.NoError(t, f.users.Create(context.Background(), d))
	return d
}

// seedApproved opens and approves a request with the given donor threshold.
func (f *fixture) seedApproved(t *testing.T, maxDonors int) *request.BloodRequest {
	t.Helper()
	ctx := context.Background()
	r, err := f.requests.Create(ctx, uuid.New(), request.CreateInput{
		FullName:    "Asha Omar",
		Phone:       "252611111111",
		Gender:      "FEMALE",
		Age:         34,
		Location:    "Mogadishu",
		Hospital:    "Banadir Hospital",
		BloodType:   bloodtype.OPositive,
		Urgency:     request.UrgencyHigh,
		Description: "Post-surgery transfusion",
		MaxDonors:   maxDonors,
	})
	require.NoError(t, err)
	result, err := f.requests.Approve(ctx, r.ID, uuid.New())
	require.NoError(t, err)
	return result.Request
}

func TestRecordResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("records a pending donation with default notes", func(t *testing.T) {
		f := newFixture()
		donor := f.seedDonor(t, "252615550001")
		r := f.seedApproved(t, 3)

		result, err := f.donations.RecordResponse(ctx, r.ID, donor.ID, "")
		require.NoError(t, err)
		assert.Equal(t, StatusPending, result.Donation.Status)
		assert.Equal(t, DefaultNotes, result.Donation.Notes)
		assert.Equal(t, 1, result.DonorsCount)
		assert.False(t, result.RequestCompleted)
		assert.True(t, result.RequesterNotified)
	})

	t.Run("unknown request", func(t *testing.T) {
		f := newFixture()
		donor := f.seedDonor(t, "252615550001")
		_, err := f.donations.RecordResponse(ctx, uuid.New(), donor.ID, "")
		assert.True(t, domerrors.Is(err, domerrors.CodeNotFound))
	})

	t.Run("pending request is not open", func(t *testing.T) {
		f := newFixture()
		donor := f.seedDonor(t, "252615550001")
		r, err := f.requests.Create(ctx, uuid.New(), request.CreateInput{
			FullName: "Asha Omar", Phone: "252611111111", Gender: "FEMALE",
			Age: 34, Location: "Mogadishu", BloodType: bloodtype.OPositive,
			Urgency: request.UrgencyHigh,
		})
		require.NoError(t, err)

		_, err = f.donations.RecordResponse(ctx, r.ID, donor.ID, "")
		assert.True(t, domerrors.Is(err, domerrors.CodeValidation))
	})

	t.Run("unknown donor", func(t *testing.T) {
		f := newFixture()
		r := f.seedApproved(t, 3)
		_, err := f.donations.RecordResponse(ctx, r.ID, uuid.New(), "")
		assert.True(t, domerrors.Is(err, domerrors.CodeNotFound))
	})

	t.Run("ineligible donor rejected", func(t *testing.T) {
		f := newFixture()
		donor := f.seedDonor(t, "252615550001")
		donor.IsEligible = false
		require.NoError(t, f.users.Update(ctx, donor))
		r := f.seedApproved(t, 3)

		_, err := f.donations.RecordResponse(ctx, r.ID, donor.ID, "")
		assert.True(t, domerrors.Is(err, domerrors.CodeValidation))
	})

	t.Run("second response conflicts", func(t *testing.T) {
		f := newFixture()
		donor := f.seedDonor(t, "252615550001")
		r := f.seedApproved(t, 3)

		_, err := f.donations.RecordResponse(ctx, r.ID, donor.ID, "")
		require.NoError(t, err)
		_, err = f.donations.RecordResponse(ctx, r.ID, donor.ID, "")
		assert.True(t, domerrors.Is(err, domerrors.CodeConflict))
	})

	t.Run("notification failure does not undo the donation", func(t *testing.T) {
		f := newFixture()
		donor := f.seedDonor(t, "252615550001")
		r := f.seedApproved(t, 3)
		f.sender.FailFor("252611111111", errors.New("gateway down"))

		result, err := f.donations.RecordResponse(ctx, r.ID, donor.ID, "")
		require.NoError(t, err)
		assert.False(t, result.RequesterNotified)

		count, err := f.donations.CountByRequest(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestAutoCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	donor := f.seedDonor(t, "252615550001")
	r := f.seedApproved(t, 1)

	result, err := f.donations.RecordResponse(ctx, r.ID, donor.ID, "")
	require.NoError(t, err)
	assert.True(t, result.RequestCompleted)

	stored, err := f.requests.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, request.StatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)

	// The completion swept the donation along and reset the donor.
	d, err := f.donations.Get(ctx, result.Donation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, d.Status)

	updated, err := f.users.FindByID(ctx, donor.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsEligible)
	assert.Equal(t, 1, updated.TotalDonations)
	require.NotNil(t, updated.LastDonation)
}

func TestAdvanceStatus(t *testing.T) {
	ctx := context.Background()

	record := func(t *testing.T, f *fixture) (*user.User, *Donation) {
		donor := f.seedDonor(t, "252615550001")
		r := f.seedApproved(t, 3)
		result, err := f.donations.RecordResponse(ctx, r.ID, donor.ID, "")
		require.NoError(t, err)
		return donor, result.Donation
	}

	t.Run("pending to accepted", func(t *testing.T) {
		f := newFixture()
		donor, d := record(t, f)
		got, err := f.donations.AdvanceStatus(ctx, d.ID, donor.ID, StatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, StatusAccepted, got.Status)
		assert.NotNil(t, got.AcceptedAt)
	})

	t.Run("completion applies donor bookkeeping", func(t *testing.T) {
		f := newFixture()
		donor, d := record(t, f)
		got, err := f.donations.AdvanceStatus(ctx, d.ID, donor.ID, StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, got.Status)
		assert.NotNil(t, got.CompletedAt)

		updated, err := f.users.FindByID(ctx, donor.ID)
		require.NoError(t, err)
		assert.False(t, updated.IsEligible)
		assert.Equal(t, 1, updated.TotalDonations)
	})

	t.Run("only the owning donor may advance", func(t *testing.T) {
		f := newFixture()
		_, d := record(t, f)
		_, err := f.donations.AdvanceStatus(ctx, d.ID, uuid.New(), StatusAccepted)
		assert.True(t, domerrors.Is(err, domerrors.CodeForbidden))
	})

	t.Run("completed donation cannot advance again", func(t *testing.T) {
		f := newFixture()
		donor, d := record(t, f)
		_, err := f.donations.AdvanceStatus(ctx, d.ID, donor.ID, StatusCompleted)
		require.NoError(t, err)
		_, err = f.donations.AdvanceStatus(ctx, d.ID, donor.ID, StatusCompleted)
		assert.True(t, domerrors.Is(err, domerrors.CodeInvalidState))
	})

	t.Run("accepted cannot go back to pending", func(t *testing.T) {
		f := newFixture()
		donor, d := record(t, f)
		_, err := f.donations.AdvanceStatus(ctx, d.ID, donor.ID, StatusAccepted)
		require.NoError(t, err)
		_, err = f.donations.AdvanceStatus(ctx, d.ID, donor.ID, StatusPending)
		assert.True(t, domerrors.Is(err, domerrors.CodeInvalidState))
	})

	t.Run("invalid status string", func(t *testing.T) {
		f := newFixture()
		donor, d := record(t, f)
		_, err := f.donations.AdvanceStatus(ctx, d.ID, donor.ID, "DONE")
		assert.True(t, domerrors.Is(err, domerrors.CodeValidation))
	})
}

func TestCompleteAllForRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	r := f.seedApproved(t, 5)

	first := f.seedDonor(t, "252615550001")
	second := f.seedDonor(t, "252615550002")
	third := f.seedDonor(t, "252615550003")
	for _, donor := range []*user.User{first, second, third} {
		_, err := f.donations.RecordResponse(ctx, r.ID, donor.ID, "")
		require.NoError(t, err)
	}

	// One donor already finished on their own.
	list, err := f.donations.ListByRequest(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	_, err = f.donations.AdvanceStatus(ctx, list[0].ID, list[0].DonorID, StatusCompleted)
	require.NoError(t, err)

	advanced, err := f.donations.CompleteAllForRequest(ctx, r.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, advanced)

	completed, err := f.donations.CountCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, completed)

	// Every donor carried the bookkeeping exactly once.
	for _, donor := range []*user.User{first, second, third} {
		updated, err := f.users.FindByID(ctx, donor.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.TotalDonations)
		assert.False(t, updated.IsEligible)
	}
}

func TestLastCompleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	donor := f.seedDonor(t, "252615550001")

	t.Run("nil when nothing completed", func(t *testing.T) {
		last, err := f.donations.LastCompleted(ctx, donor.ID)
		require.NoError(t, err)
		assert.Nil(t, last)
	})

	t.Run("returns the completed donation", func(t *testing.T) {
		r := f.seedApproved(t, 3)
		result, err := f.donations.RecordResponse(ctx, r.ID, donor.ID, "")
		require.NoError(t, err)
		_, err = f.donations.AdvanceStatus(ctx, result.Donation.ID, donor.ID, StatusCompleted)
		require.NoError(t, err)

		last, err := f.donations.LastCompleted(ctx, donor.ID)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.Equal(t, result.Donation.ID, last.ID)
	})
}
