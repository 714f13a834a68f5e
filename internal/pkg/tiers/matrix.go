package tiers

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default returns the compiled-in OMEGA matrix. Tier limits mirror the
// published pricing page; changing them requires a Version bump.
func Default() *Matrix {
	defs := []TierDefinition{
		{
			ID:          TierFree,
			Name:        "Free",
			Description: "Start your journey",
			Pricing:     Pricing{MonthlyCents: 0, AnnualCents: 0},
			Limits: Limits{
				FlameCallsPerDay:     3,
				TruthPostsPerDay:     1,
				TruthReadsPerDay:     10,
				APICallsPerDay:       0,
				JournalRetentionDays: 30,
				DailyGoalsMax:        3,
			},
			SoulTokenEarnRate: 1,
		},
		{
			ID:          TierSpark,
			Name:        "Spark",
			Description: "Daily companion and journal",
			Pricing:     Pricing{MonthlyCents: 1200, AnnualCents: 12000},
			Limits: Limits{
				FlameCallsPerDay:     5,
				TruthPostsPerDay:     3,
				TruthReadsPerDay:     50,
				APICallsPerDay:       0,
				JournalRetentionDays: 90,
				DailyGoalsMax:        5,
			},
			SoulTokenEarnRate: 2,
		},
		{
			ID:          TierBlaze,
			Name:        "Blaze",
			Description: "Deeper structure and coping modules",
			Pricing:     Pricing{MonthlyCents: 3600, AnnualCents: 36000},
			Limits: Limits{
				FlameCallsPerDay:     25,
				TruthPostsPerDay:     10,
				TruthReadsPerDay:     Unlimited,
				APICallsPerDay:       0,
				JournalRetentionDays: 365,
				DailyGoalsMax:        10,
			},
			SoulTokenEarnRate: 3,
			Highlight:         "Most popular",
		},
		{
			ID:          TierRadiance,
			Name:        "Radiance",
			Description: "Unlimited conversations and analytics",
			Pricing:     Pricing{MonthlyCents: 6400, AnnualCents: 64000},
			Limits: Limits{
				FlameCallsPerDay:     Unlimited,
				TruthPostsPerDay:     Unlimited,
				TruthReadsPerDay:     Unlimited,
				APICallsPerDay:       1000,
				JournalRetentionDays: Unlimited,
				DailyGoalsMax:        Unlimited,
			},
			SoulTokenEarnRate: 5,
		},
		{
			ID:          TierSovereign,
			Name:        "Sovereign",
			Description: "Custom personality and integrations",
			Pricing:     Pricing{MonthlyCents: 9600, AnnualCents: 96000},
			Limits: Limits{
				FlameCallsPerDay:     Unlimited,
				TruthPostsPerDay:     Unlimited,
				TruthReadsPerDay:     Unlimited,
				APICallsPerDay:       10000,
				JournalRetentionDays: Unlimited,
				DailyGoalsMax:        Unlimited,
			},
			SoulTokenEarnRate: 8,
		},
		{
			ID:          TierTranscendent,
			Name:        "Transcendent",
			Description: "Everything, plus human coaching",
			Pricing:     Pricing{MonthlyCents: 93600, AnnualCents: 936000},
			Limits: Limits{
				FlameCallsPerDay:     Unlimited,
				TruthPostsPerDay:     Unlimited,
				TruthReadsPerDay:     Unlimited,
				APICallsPerDay:       100000,
				JournalRetentionDays: Unlimited,
				DailyGoalsMax:        Unlimited,
			},
			SoulTokenEarnRate: 13,
		},
	}

	m := &Matrix{version: Version, tiers: make(map[TierID]TierDefinition, len(defs))}
	for _, def := range defs {
		m.tiers[def.ID] = def
	}
	return m
}

type matrixFile struct {
	Version string           `json:"version"`
	Tiers   []TierDefinition `json:"tiers"`
}

// LoadMatrix reads a matrix from a JSON file. Used for operator overrides;
// the compiled-in Default is used when no file is configured.
func LoadMatrix(path string) (*Matrix, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tiers: read matrix: %w", err)
	}
	var f matrixFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("tiers: parse matrix: %w", err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("tiers: matrix file %s has no version", path)
	}
	if len(f.Tiers) == 0 {
		return nil, fmt.Errorf("tiers: matrix file %s defines no tiers", path)
	}
	m := &Matrix{version: f.Version, tiers: make(map[TierID]TierDefinition, len(f.Tiers))}
	for _, def := range f.Tiers {
		if _, dup := m.tiers[def.ID]; dup {
			return nil, fmt.Errorf("tiers: duplicate tier id %d in %s", def.ID, path)
		}
		m.tiers[def.ID] = def
	}
	return m, nil
}
