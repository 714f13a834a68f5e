package billing

import (
	"strings"

	"github.com/ryvynn-app/ryvynn/internal/pkg/env"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
)

// Cadence is the billing interval of a price.
type Cadence string

const (
	CadenceMonthly Cadence = "monthly"
	CadenceAnnual  Cadence = "annual"
)

// PricePoint maps one provider price id to a tier and cadence.
type PricePoint struct {
	PriceID string
	Tier    tiers.TierID
	Cadence Cadence
}

// PriceMap resolves provider price ids to tiers. Unknown ids resolve to
// nothing; callers surface ErrUnknownPrice rather than guessing a tier.
type PriceMap struct {
	byID map[string]PricePoint
}

// NewPriceMap builds a price map from explicit points
func NewPriceMap(points []PricePoint) *PriceMap {
	m := &PriceMap{byID: make(map[string]PricePoint, len(points))}
	for _, p := range points {
		id := strings.TrimSpace(p.PriceID)
		if id == "" {
			continue
		}
		p.PriceID = id
		m.byID[id] = p
	}
	return m
}

// NewPriceMapFromEnv reads the STRIPE_PRICE_* variables. Tiers without a
// configured price simply cannot be bought, which is fine for rollouts.
func NewPriceMapFromEnv() *PriceMap {
	specs := []struct {
		envKey  string
		tier    tiers.TierID
		cadence Cadence
	}{
		{"STRIPE_PRICE_SPARK_MONTHLY", tiers.TierSpark, CadenceMonthly},
		{"STRIPE_PRICE_SPARK_ANNUAL", tiers.TierSpark, CadenceAnnual},
		{"STRIPE_PRICE_BLAZE_MONTHLY", tiers.TierBlaze, CadenceMonthly},
		{"STRIPE_PRICE_BLAZE_ANNUAL", tiers.TierBlaze, CadenceAnnual},
		{"STRIPE_PRICE_RADIANCE_MONTHLY", tiers.TierRadiance, CadenceMonthly},
		{"STRIPE_PRICE_RADIANCE_ANNUAL", tiers.TierRadiance, CadenceAnnual},
		{"STRIPE_PRICE_SOVEREIGN_MONTHLY", tiers.TierSovereign, CadenceMonthly},
		{"STRIPE_PRICE_SOVEREIGN_ANNUAL", tiers.TierSovereign, CadenceAnnual},
		{"STRIPE_PRICE_TRANSCENDENT_MONTHLY", tiers.TierTranscendent, CadenceMonthly},
		{"STRIPE_PRICE_TRANSCENDENT_ANNUAL", tiers.TierTranscendent, CadenceAnnual},
	}

	var points []PricePoint
	for _, s := range specs {
		if id := env.GetEnv(s.envKey, ""); id != "" {
			points = append(points, PricePoint{PriceID: id, Tier: s.tier, Cadence: s.cadence})
		}
	}
	return NewPriceMap(points)
}

// Lookup resolves a price id
func (m *PriceMap) Lookup(priceID string) (PricePoint, bool) {
	p, ok := m.byID[strings.TrimSpace(priceID)]
	return p, ok
}

// PriceFor returns the configured price id for a tier and cadence
func (m *PriceMap) PriceFor(tier tiers.TierID, cadence Cadence) (string, bool) {
	for _, p := range m.byID {
		if p.Tier == tier && p.Cadence == cadence {
			return p.PriceID, true
		}
	}
	return "", false
}
