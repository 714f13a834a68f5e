// Package tiers holds the versioned tier matrix: per-tier limits, feature
// availability and reward rates. It is the single source of truth the
// entitlement resolver materializes from.
package tiers

import (
	"errors"
	"fmt"
	"strconv"
)

// TierID identifies a subscription tier, 0 (free) through 5.
type TierID int

const (
	TierFree         TierID = 0
	TierSpark        TierID = 1
	TierBlaze        TierID = 2
	TierRadiance     TierID = 3
	TierSovereign    TierID = 4
	TierTranscendent TierID = 5
)

// Version stamp written into entitlement rows. Bump when the matrix
// changes so existing rows can be grandfathered.
const Version = "2026-01-omega"

// Limit is a daily (or retention-day) ceiling. Unlimited is a sentinel,
// never a large number; the storage encoding is handled exclusively by
// EncodeLimit/DecodeLimit.
type Limit int

const Unlimited Limit = -1

// storageUnlimited is the on-disk encoding of Unlimited. It exists only
// inside EncodeLimit/DecodeLimit.
const storageUnlimited = 999999

func (l Limit) IsUnlimited() bool { return l == Unlimited }

// EncodeLimit converts a Limit to its storage representation.
func EncodeLimit(l Limit) int {
	if l.IsUnlimited() {
		return storageUnlimited
	}
	return int(l)
}

// DecodeLimit converts a stored value back to a Limit. Both the sentinel
// and the storage encoding decode to Unlimited so rows written before a
// migration stay readable.
func DecodeLimit(v int) Limit {
	if v < 0 || v >= storageUnlimited {
		return Unlimited
	}
	return Limit(v)
}

// MarshalJSON renders Unlimited as the string "unlimited"; wire formats
// never carry the storage encoding.
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.IsUnlimited() {
		return []byte(`"unlimited"`), nil
	}
	return []byte(strconv.Itoa(int(l))), nil
}

// UnmarshalJSON accepts both the "unlimited" string and integers, which
// keeps operator matrix files readable either way.
func (l *Limit) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == `"unlimited"` {
		*l = Unlimited
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("tiers: invalid limit %s", s)
	}
	*l = DecodeLimit(v)
	return nil
}

// CounterKind names a per-day metered action.
type CounterKind string

const (
	CounterFlameCalls CounterKind = "flame_calls"
	CounterTruthPosts CounterKind = "truth_posts"
	CounterTruthReads CounterKind = "truth_reads"
	CounterAPICalls   CounterKind = "api_calls"
)

// Limits bundles the per-tier ceilings.
type Limits struct {
	FlameCallsPerDay     Limit `json:"flame_calls_per_day"`
	TruthPostsPerDay     Limit `json:"truth_posts_per_day"`
	TruthReadsPerDay     Limit `json:"truth_reads_per_day"`
	APICallsPerDay       Limit `json:"api_calls_per_day"`
	JournalRetentionDays Limit `json:"journal_retention_days"`
	DailyGoalsMax        Limit `json:"daily_goals_max"`
}

// For returns the limit for a counter kind.
func (l Limits) For(kind CounterKind) (Limit, error) {
	switch kind {
	case CounterFlameCalls:
		return l.FlameCallsPerDay, nil
	case CounterTruthPosts:
		return l.TruthPostsPerDay, nil
	case CounterTruthReads:
		return l.TruthReadsPerDay, nil
	case CounterAPICalls:
		return l.APICallsPerDay, nil
	default:
		return 0, fmt.Errorf("tiers: unknown counter kind %q", kind)
	}
}

// Pricing is informational; Stripe price IDs are mapped in the billing
// package, not here.
type Pricing struct {
	MonthlyCents int64 `json:"monthly_cents"`
	AnnualCents  int64 `json:"annual_cents"`
}

// TierDefinition is one immutable row of the matrix.
type TierDefinition struct {
	ID                TierID  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Pricing           Pricing `json:"pricing"`
	Limits            Limits  `json:"limits"`
	SoulTokenEarnRate int     `json:"soul_token_earn_rate"`
	Highlight         string  `json:"highlight,omitempty"`
}

// ErrUnknownTier is returned when a tier id has no matrix entry. Callers
// must treat this as fatal for the request; silently defaulting could
// under- or over-grant access.
var ErrUnknownTier = errors.New("tiers: unknown tier id")

// Matrix is an immutable, versioned tier table.
type Matrix struct {
	version string
	tiers   map[TierID]TierDefinition
}

// Version returns the matrix version stamp.
func (m *Matrix) Version() string { return m.version }

// Resolve returns the definition for a tier id.
func (m *Matrix) Resolve(id TierID) (TierDefinition, error) {
	def, ok := m.tiers[id]
	if !ok {
		return TierDefinition{}, fmt.Errorf("%w: %d", ErrUnknownTier, id)
	}
	return def, nil
}

// LimitFor returns the daily limit of a counter kind for a tier.
func (m *Matrix) LimitFor(id TierID, kind CounterKind) (Limit, error) {
	def, err := m.Resolve(id)
	if err != nil {
		return 0, err
	}
	return def.Limits.For(kind)
}

// All returns every tier definition ordered by id.
func (m *Matrix) All() []TierDefinition {
	out := make([]TierDefinition, 0, len(m.tiers))
	for id := TierID(0); int(id) < len(m.tiers); id++ {
		if def, ok := m.tiers[id]; ok {
			out = append(out, def)
		}
	}
	return out
}
