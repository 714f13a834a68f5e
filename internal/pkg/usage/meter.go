// Package usage meters per-day actions against entitlement limits. The
// check and the increment are a single storage-side operation, so the
// meter never over-admits under concurrent requests.
package usage

import (
	"time"

	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/app/repository"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
)

// Decision is the outcome of one metering call.
type Decision struct {
	Allowed bool              `json:"allowed"`
	Current int64             `json:"current"`
	Limit   tiers.Limit       `json:"limit"`
	Kind    tiers.CounterKind `json:"kind"`
}

// Remaining returns how many uses are left today, or Unlimited.
func (d Decision) Remaining() tiers.Limit {
	if d.Limit.IsUnlimited() {
		return tiers.Unlimited
	}
	left := int64(d.Limit) - d.Current
	if left < 0 {
		left = 0
	}
	return tiers.Limit(left)
}

// Meter enforces daily ceilings on usage counters.
type Meter struct {
	repo repository.UsageRepository
	now  func() time.Time
}

// NewMeter creates a meter on wall-clock time
func NewMeter(repo repository.UsageRepository) *Meter {
	return NewMeterWithClock(repo, time.Now)
}

// NewMeterWithClock creates a meter with an injected clock
func NewMeterWithClock(repo repository.UsageRepository, now func() time.Time) *Meter {
	return &Meter{repo: repo, now: now}
}

// CheckAndIncrement consumes one use of kind if the limit allows it.
// Unlimited quotas are counted but never denied. A zero limit denies
// without touching storage counters.
func (m *Meter) CheckAndIncrement(userID uint, kind tiers.CounterKind, limit tiers.Limit) (Decision, error) {
	day := models.UsageDay(m.now())
	d := Decision{Kind: kind, Limit: limit}

	if limit.IsUnlimited() {
		value, err := m.repo.Increment(userID, day, string(kind))
		if err != nil {
			return d, err
		}
		d.Allowed = true
		d.Current = value
		return d, nil
	}

	if limit <= 0 {
		value, err := m.repo.Get(userID, day, string(kind))
		if err != nil {
			return d, err
		}
		d.Current = value
		return d, nil
	}

	allowed, value, err := m.repo.IncrementWithCeiling(userID, day, string(kind), int64(limit))
	if err != nil {
		return d, err
	}
	d.Allowed = allowed
	d.Current = value
	return d, nil
}

// Peek reports current standing without consuming a use
func (m *Meter) Peek(userID uint, kind tiers.CounterKind, limit tiers.Limit) (Decision, error) {
	day := models.UsageDay(m.now())
	value, err := m.repo.Get(userID, day, string(kind))
	if err != nil {
		return Decision{Kind: kind, Limit: limit}, err
	}
	return Decision{
		Allowed: limit.IsUnlimited() || value < int64(limit),
		Current: value,
		Limit:   limit,
		Kind:    kind,
	}, nil
}
