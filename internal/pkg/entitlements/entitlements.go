// Package entitlements resolves and materializes per-user entitlement
// snapshots from the tier matrix. All limit checks in the app go through
// a Snapshot; nothing else reads entitlement rows directly.
package entitlements

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/app/repository"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
	"gorm.io/gorm"
)

const snapshotTTL = 5 * time.Minute

// ErrUnknownFeature is returned for feature keys outside the matrix.
var ErrUnknownFeature = errors.New("entitlements: unknown feature key")

// Snapshot is the decoded entitlement state handed to the rest of the
// app. Limits carry the Unlimited sentinel, never the storage encoding.
type Snapshot struct {
	UserID            uint              `json:"user_id"`
	Tier              tiers.TierID      `json:"tier"`
	TierVersion       string            `json:"tier_version"`
	Limits            tiers.Limits      `json:"limits"`
	SoulTokenEarnRate int               `json:"soul_token_earn_rate"`
	Features          []tiers.FeatureKey `json:"features"`
}

// LimitFor returns the snapshot's limit for a counter kind.
func (s *Snapshot) LimitFor(kind tiers.CounterKind) (tiers.Limit, error) {
	return s.Limits.For(kind)
}

// HasFeature reports whether the snapshot grants a feature.
func (s *Snapshot) HasFeature(key tiers.FeatureKey) bool {
	for _, f := range s.Features {
		if f == key {
			return true
		}
	}
	return false
}

// SnapshotCache holds encoded snapshots between syncs. Implementations
// may drop writes; a miss just means a database read.
type SnapshotCache interface {
	Get(key string) (string, error)
	Set(key string, value string, expiration time.Duration) error
	Delete(key string) error
}

// Service resolves entitlements against subscriptions and the tier matrix.
type Service struct {
	entRepo repository.EntitlementRepository
	subRepo repository.SubscriptionRepository
	matrix  *tiers.Matrix
	cache   SnapshotCache
}

// NewService creates an entitlement service. A nil cache disables
// snapshot caching; every lookup then hits the database.
func NewService(entRepo repository.EntitlementRepository, subRepo repository.SubscriptionRepository, matrix *tiers.Matrix, cache SnapshotCache) *Service {
	return &Service{
		entRepo: entRepo,
		subRepo: subRepo,
		matrix:  matrix,
		cache:   cache,
	}
}

// GetForUser returns the user's entitlement snapshot: cache, then the
// materialized row, then auto-provisioning a free-tier row for users who
// have never been synced. Existing rows are decoded as written, so a
// matrix bump does not retroactively change anyone until their next sync.
func (s *Service) GetForUser(userID uint) (*Snapshot, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(snapshotKey(userID)); err == nil && cached != "" {
			var snap Snapshot
			if err := json.Unmarshal([]byte(cached), &snap); err == nil {
				return &snap, nil
			}
		}
	}

	row, err := s.entRepo.GetByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.SyncUser(userID)
	}
	if err != nil {
		return nil, err
	}

	snap := snapshotFromRow(row)
	s.cacheSnapshot(snap)
	return snap, nil
}

// SyncUser recomputes the user's tier from entitling subscriptions,
// materializes the matrix row into storage and refreshes the cache. It
// is the only writer of entitlement rows.
func (s *Service) SyncUser(userID uint) (*Snapshot, error) {
	tier := tiers.TierFree
	subs, err := s.subRepo.GetEntitlingByUserID(userID)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if tiers.TierID(sub.Tier) > tier {
			tier = tiers.TierID(sub.Tier)
		}
	}

	def, err := s.matrix.Resolve(tier)
	if err != nil {
		return nil, err
	}

	features := tiers.EnabledFeatures(tier)
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}

	row := &models.Entitlement{
		UserID:               userID,
		CurrentTier:          int(tier),
		TierVersion:          s.matrix.Version(),
		FlameCallsPerDay:     tiers.EncodeLimit(def.Limits.FlameCallsPerDay),
		TruthPostsPerDay:     tiers.EncodeLimit(def.Limits.TruthPostsPerDay),
		TruthReadsPerDay:     tiers.EncodeLimit(def.Limits.TruthReadsPerDay),
		APICallsPerDay:       tiers.EncodeLimit(def.Limits.APICallsPerDay),
		JournalRetentionDays: tiers.EncodeLimit(def.Limits.JournalRetentionDays),
		DailyGoalsMax:        tiers.EncodeLimit(def.Limits.DailyGoalsMax),
		SoulTokenEarnRate:    def.SoulTokenEarnRate,
		FeaturesJSON:         string(featuresJSON),
	}
	if err := s.entRepo.Upsert(row); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		UserID:            userID,
		Tier:              tier,
		TierVersion:       s.matrix.Version(),
		Limits:            def.Limits,
		SoulTokenEarnRate: def.SoulTokenEarnRate,
		Features:          features,
	}
	s.cacheSnapshot(snap)
	return snap, nil
}

// CheckFeature reports whether the user's current tier grants a feature
func (s *Service) CheckFeature(userID uint, key tiers.FeatureKey) (bool, error) {
	if !tiers.KnownFeature(key) {
		return false, ErrUnknownFeature
	}
	snap, err := s.GetForUser(userID)
	if err != nil {
		return false, err
	}
	return snap.HasFeature(key), nil
}

// Invalidate drops the cached snapshot so the next read hits the database
func (s *Service) Invalidate(userID uint) {
	if s.cache != nil {
		_ = s.cache.Delete(snapshotKey(userID))
	}
}

func (s *Service) cacheSnapshot(snap *Snapshot) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	// best effort; a cold cache just means a DB read
	_ = s.cache.Set(snapshotKey(snap.UserID), string(data), snapshotTTL)
}

func snapshotKey(userID uint) string {
	return fmt.Sprintf("entitlements:user:%d", userID)
}

// snapshotFromRow decodes a materialized row. Rows written under an
// older matrix version keep their stored limits (grandfathering); only
// the feature list is re-derived when the stored JSON is unreadable.
func snapshotFromRow(row *models.Entitlement) *Snapshot {
	var features []tiers.FeatureKey
	if row.FeaturesJSON != "" {
		_ = json.Unmarshal([]byte(row.FeaturesJSON), &features)
	}
	if features == nil {
		features = tiers.EnabledFeatures(tiers.TierID(row.CurrentTier))
	}

	return &Snapshot{
		UserID:      row.UserID,
		Tier:        tiers.TierID(row.CurrentTier),
		TierVersion: row.TierVersion,
		Limits: tiers.Limits{
			FlameCallsPerDay:     tiers.DecodeLimit(row.FlameCallsPerDay),
			TruthPostsPerDay:     tiers.DecodeLimit(row.TruthPostsPerDay),
			TruthReadsPerDay:     tiers.DecodeLimit(row.TruthReadsPerDay),
			APICallsPerDay:       tiers.DecodeLimit(row.APICallsPerDay),
			JournalRetentionDays: tiers.DecodeLimit(row.JournalRetentionDays),
			DailyGoalsMax:        tiers.DecodeLimit(row.DailyGoalsMax),
		},
		SoulTokenEarnRate: row.SoulTokenEarnRate,
		Features:          features,
	}
}
