package match

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badbaado/internal/platform/metrics"
	"badbaado/internal/user"
	"badbaado/pkg/bloodtype"
)

func eligibleDonor() *user.User {
	return &user.User{
		ID:         uuid.New(),
		FullName:   "Hodan Ali",
		Phone:      "252615550100",
		BloodType:  bloodtype.OPositive,
		Location:   "Hodan District, Mogadishu",
		IsActive:   true,
		IsEligible: true,
	}
}

func TestEligible(t *testing.T) {
	now := time.Now()
	criteria := Criteria{BloodType: bloodtype.OPositive, Location: "Mogadishu"}

	tests := []struct {
		name   string
		mutate func(*user.User)
		want   bool
	}{
		{"qualifies", func(*user.User) {}, true},
		{"different blood type", func(u *user.User) {
			u.BloodType = bloodtype.ANegative
		}, false},
		{"location elsewhere", func(u *user.User) {
			u.Location = "Hargeisa"
		}, false},
		{"location match ignores case", func(u *user.User) {
			u.Location = "MOGADISHU, Hodan"
		}, true},
		{"inactive account", func(u *user.User) {
			u.IsActive = false
		}, false},
		{"ineligible flag", func(u *user.User) {
			u.IsEligible = false
		}, false},
		{"donated inside cool-down", func(u *user.User) {
			last := now.Add(-30 * 24 * time.Hour)
			u.LastDonation = &last
		}, false},
		{"donated just inside cool-down", func(u *user.User) {
			last := now.Add(-89 * 24 * time.Hour)
			u.LastDonation = &last
		}, false},
		{"donated past cool-down", func(u *user.User) {
			last := now.Add(-91 * 24 * time.Hour)
			u.LastDonation = &last
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := eligibleDonor()
			tt.mutate(d)
			assert.Equal(t, tt.want, Eligible(d, criteria, now))
		})
	}
}

func TestMatcherFindEligible(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	m := NewMatcher(store, metrics.NewWith(prometheus.NewRegistry()))

	seed := func(mutate func(*user.User)) *user.User {
		d := eligibleDonor()
		d.Phone = "25261" + uuid.NewString()[:8]
		mutate(d)
		require.NoError(t, store.Create(ctx, d))
		return d
	}

	match1 := seed(func(u *user.User) { u.CreatedAt = time.Now().Add(-2 * time.Hour) })
	match2 := seed(func(u *user.User) { u.CreatedAt = time.Now().Add(-1 * time.Hour) })
	seed(func(u *user.User) { u.BloodType = bloodtype.ABNegative })
	seed(func(u *user.User) { u.IsEligible = false })
	seed(func(u *user.User) {
		last := time.Now().Add(-10 * 24 * time.Hour)
		u.LastDonation = &last
	})

	criteria := Criteria{BloodType: bloodtype.OPositive, Location: "Mogadishu"}

	t.Run("returns only qualifying donors, newest first", func(t *testing.T) {
		donors, err := m.FindEligible(ctx, criteria, 0)
		require.NoError(t, err)
		require.Len(t, donors, 2)
		assert.Equal(t, match2.ID, donors[0].ID)
		assert.Equal(t, match1.ID, donors[1].ID)
	})

	t.Run("limit caps the result", func(t *testing.T) {
		donors, err := m.FindEligible(ctx, criteria, 1)
		require.NoError(t, err)
		require.Len(t, donors, 1)
		assert.Equal(t, match2.ID, donors[0].ID)
	})

	t.Run("no matches is empty, not an error", func(t *testing.T) {
		donors, err := m.FindEligible(ctx, Criteria{
			BloodType: bloodtype.OPositive,
			Location:  "Kismayo",
		}, 0)
		require.NoError(t, err)
		assert.Empty(t, donors)
	})
}
