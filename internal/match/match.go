// Package match decides which donors qualify for a blood request and runs the
// store-level donor search. The predicate is pure and re-evaluable; the
// matcher is its bounded, ordered query counterpart.
package match

import (
	"context"
	"strings"
	"time"

	"badbaado/internal/platform/metrics"
	"badbaado/internal/user"
	"badbaado/pkg/bloodtype"
)

// DefaultLimit caps notification fan-out after an approval. The read path
// that lists eligible donors passes limit 0 (unlimited).
const DefaultLimit = 50

// Criteria is what a request demands of a donor.
type Criteria struct {
	BloodType bloodtype.BloodType
	Location  string
}

// Eligible reports whether a donor qualifies: exact blood type match,
// case-insensitive substring containment of the request location in the donor
// location, active and eligible flags set, and last donation absent or older
// than the cool-down window. Pure; no side effects.
func Eligible(d *user.User, c Criteria, now time.Time) bool {
	if d.BloodType != c.BloodType {
		return false
	}
	if !strings.Contains(strings.ToLower(d.Location), strings.ToLower(c.Location)) {
		return false
	}
	if !d.IsActive || !d.IsEligible {
		return false
	}
	if d.LastDonation != nil && now.Sub(*d.LastDonation) <= user.CoolDown {
		return false
	}
	return true
}

// DonorSource is the slice of the user store the matcher needs.
type DonorSource interface {
	FindEligible(ctx context.Context, f user.EligibleFilter, limit int) ([]*user.User, error)
}

// Matcher queries the donor store with the eligibility filter, ordered
// newest-registration-first and capped. An empty result is not an error.
type Matcher struct {
	donors  DonorSource
	metrics *metrics.Metrics
}

func NewMatcher(donors DonorSource, m *metrics.Metrics) *Matcher {
	return &Matcher{donors: donors, metrics: m}
}

// FindEligible returns eligible donors for the criteria. limit <= 0 means
// unlimited.
func (m *Matcher) FindEligible(ctx context.Context, c Criteria, limit int) ([]*user.User, error) {
	start := time.Now()
	donors, err := m.donors.FindEligible(ctx, user.EligibleFilter{
		BloodType:     c.BloodType,
		Location:      c.Location,
		DonatedBefore: time.Now().Add(-user.CoolDown),
	}, limit)
	if err != nil {
		return nil, err
	}
	if m.metrics != nil {
		m.metrics.MatcherDuration.Observe(time.Since(start).Seconds())
	}
	return donors, nil
}
