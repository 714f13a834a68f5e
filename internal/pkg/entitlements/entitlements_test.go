package entitlements

import (
	"sync"
	"testing"
	"time"

	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
	"gorm.io/gorm"
)

type memEntRepo struct {
	mu   sync.Mutex
	rows map[uint]*models.Entitlement
}

func newMemEntRepo() *memEntRepo {
	return &memEntRepo{rows: make(map[uint]*models.Entitlement)}
}

func (r *memEntRepo) GetByUserID(userID uint) (*models.Entitlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *memEntRepo) Upsert(ent *models.Entitlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ent
	r.rows[ent.UserID] = &cp
	return nil
}

type memSubRepo struct {
	subs []models.Subscription
}

func (r *memSubRepo) GetByProviderSubscriptionID(string) (*models.Subscription, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *memSubRepo) GetEntitlingByUserID(userID uint) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range r.subs {
		if s.UserID == userID && s.IsEntitling() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSubRepo) Upsert(*models.Subscription) error { return nil }

func TestGetForUserProvisionsFreeTier(t *testing.T) {
	entRepo := newMemEntRepo()
	svc := NewService(entRepo, &memSubRepo{}, tiers.Default(), nil)

	snap, err := svc.GetForUser(42)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Tier != tiers.TierFree {
		t.Errorf("fresh user tier = %d, want free", snap.Tier)
	}
	if snap.TierVersion != tiers.Version {
		t.Errorf("tier version = %q", snap.TierVersion)
	}

	row, err := entRepo.GetByUserID(42)
	if err != nil {
		t.Fatal("no entitlement row materialized")
	}
	if row.CurrentTier != 0 {
		t.Errorf("materialized tier = %d", row.CurrentTier)
	}
}

func TestSyncUserPicksHighestEntitlingTier(t *testing.T) {
	subRepo := &memSubRepo{subs: []models.Subscription{
		{UserID: 9, Tier: 1, Status: models.SubscriptionStatusActive},
		{UserID: 9, Tier: 3, Status: models.SubscriptionStatusTrialing},
		{UserID: 9, Tier: 5, Status: models.SubscriptionStatusCanceled},
	}}
	svc := NewService(newMemEntRepo(), subRepo, tiers.Default(), nil)

	snap, err := svc.SyncUser(9)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Tier != tiers.TierRadiance {
		t.Errorf("tier = %d, want radiance; canceled sub must not win", snap.Tier)
	}
	if !snap.Limits.FlameCallsPerDay.IsUnlimited() {
		t.Error("radiance flame calls should be unlimited")
	}
}

func TestSnapshotDecodesStoredLimitsAsWritten(t *testing.T) {
	entRepo := newMemEntRepo()
	// a row materialized under an older matrix with different numbers
	entRepo.Upsert(&models.Entitlement{
		UserID:               7,
		CurrentTier:          1,
		TierVersion:          "2025-06-legacy",
		FlameCallsPerDay:     10,
		TruthPostsPerDay:     2,
		TruthReadsPerDay:     tiers.EncodeLimit(tiers.Unlimited),
		JournalRetentionDays: 60,
		SoulTokenEarnRate:    2,
		FeaturesJSON:         `["journaling"]`,
	})
	svc := NewService(entRepo, &memSubRepo{}, tiers.Default(), nil)

	snap, err := svc.GetForUser(7)
	if err != nil {
		t.Fatal(err)
	}
	if snap.TierVersion != "2025-06-legacy" {
		t.Errorf("version = %q, grandfathered row was resynced", snap.TierVersion)
	}
	if snap.Limits.FlameCallsPerDay != 10 {
		t.Errorf("flame limit = %d, want the stored 10, not the current matrix value", snap.Limits.FlameCallsPerDay)
	}
	if !snap.Limits.TruthReadsPerDay.IsUnlimited() {
		t.Error("stored unlimited encoding did not decode to the sentinel")
	}
	if !snap.HasFeature(tiers.FeatureJournaling) {
		t.Error("stored feature list ignored")
	}
}

type memCache struct {
	mu   sync.Mutex
	data map[string]string
	gets int
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (c *memCache) Get(key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.data[key], nil
}

func (c *memCache) Set(key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	entRepo := newMemEntRepo()
	store := newMemCache()
	svc := NewService(entRepo, &memSubRepo{}, tiers.Default(), store)

	first, err := svc.GetForUser(11)
	if err != nil {
		t.Fatal(err)
	}
	if store.sets == 0 {
		t.Fatal("snapshot not written to the cache")
	}

	// poison the row; a cache hit must not see it
	entRepo.Upsert(&models.Entitlement{UserID: 11, CurrentTier: 5})
	cached, err := svc.GetForUser(11)
	if err != nil {
		t.Fatal(err)
	}
	if cached.Tier != first.Tier {
		t.Errorf("cached tier = %d, want %d from the cache", cached.Tier, first.Tier)
	}

	svc.Invalidate(11)
	fresh, err := svc.GetForUser(11)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Tier != tiers.TierTranscendent {
		t.Errorf("post-invalidate tier = %d, want the updated row", fresh.Tier)
	}
}

func TestNilCacheHitsDatabaseEveryTime(t *testing.T) {
	entRepo := newMemEntRepo()
	svc := NewService(entRepo, &memSubRepo{}, tiers.Default(), nil)

	if _, err := svc.GetForUser(12); err != nil {
		t.Fatal(err)
	}
	entRepo.Upsert(&models.Entitlement{UserID: 12, CurrentTier: 2})
	snap, err := svc.GetForUser(12)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Tier != tiers.TierBlaze {
		t.Errorf("tier = %d, want the freshly written row", snap.Tier)
	}
}

func TestCheckFeature(t *testing.T) {
	subRepo := &memSubRepo{subs: []models.Subscription{
		{UserID: 3, Tier: 2, Status: models.SubscriptionStatusActive},
	}}
	svc := NewService(newMemEntRepo(), subRepo, tiers.Default(), nil)

	if ok, err := svc.CheckFeature(3, tiers.FeatureVoiceInteraction); err != nil || !ok {
		t.Errorf("blaze user should have voice interaction (ok=%v err=%v)", ok, err)
	}
	if ok, _ := svc.CheckFeature(3, tiers.FeatureHumanCoaching); ok {
		t.Error("blaze user granted a transcendent feature")
	}
	if _, err := svc.CheckFeature(3, "no_such_feature"); err == nil {
		t.Error("unknown feature key did not error")
	}
}
