package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/internal/pkg/entitlements"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
	"gorm.io/gorm"
)

type memJournal struct {
	entries []*models.JournalEntry
}

func (r *memJournal) Create(entry *models.JournalEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memJournal) GetByUUID(userID uint, uuid string) (*models.JournalEntry, error) {
	for _, e := range r.entries {
		if e.UserID == userID && e.UUID == uuid {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memJournal) ListByUser(userID uint, offset, limit int) ([]models.JournalEntry, error) {
	var out []models.JournalEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, *r.entries[i])
		}
	}
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memJournal) Update(entry *models.JournalEntry) error { return nil }

func (r *memJournal) Delete(userID uint, uuid string) error {
	for i, e := range r.entries {
		if e.UserID == userID && e.UUID == uuid {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memJournal) DeleteOlderThan(userID uint, cutoff time.Time) (int64, error) {
	var kept []*models.JournalEntry
	var removed int64
	for _, e := range r.entries {
		if e.UserID == userID && e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}

type memEnts struct {
	rows map[uint]*models.Entitlement
}

func (r *memEnts) GetByUserID(userID uint) (*models.Entitlement, error) {
	if row, ok := r.rows[userID]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memEnts) Upsert(ent *models.Entitlement) error {
	r.rows[ent.UserID] = ent
	return nil
}

type memSubs struct {
	tiersByUser map[uint]int
}

func (r *memSubs) GetByProviderSubscriptionID(string) (*models.Subscription, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *memSubs) GetEntitlingByUserID(userID uint) ([]models.Subscription, error) {
	if tier, ok := r.tiersByUser[userID]; ok {
		return []models.Subscription{{UserID: userID, Tier: tier, Status: models.SubscriptionStatusActive}}, nil
	}
	return nil, nil
}

func (r *memSubs) Upsert(*models.Subscription) error { return nil }

func newService(repo *memJournal, tiersByUser map[uint]int) *Service {
	ents := entitlements.NewService(
		&memEnts{rows: make(map[uint]*models.Entitlement)},
		&memSubs{tiersByUser: tiersByUser},
		tiers.Default(),
		nil,
	)
	return NewService(repo, ents)
}

func TestCreateEntryRequiresCiphertext(t *testing.T) {
	svc := newService(&memJournal{}, nil)

	if _, err := svc.CreateEntry(1, "", "iv", "v1", nil); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("missing ciphertext err = %v", err)
	}
	if _, err := svc.CreateEntry(1, "cipher", "", "v1", nil); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("missing iv err = %v", err)
	}

	entry, err := svc.CreateEntry(1, "cipher", "iv", "", []string{"sleep", "work"})
	if err != nil {
		t.Fatal(err)
	}
	if entry.AlgoVersion != "v1" {
		t.Errorf("algo version default = %q", entry.AlgoVersion)
	}
	if entry.TagsJSON != `["sleep","work"]` {
		t.Errorf("tags = %q", entry.TagsJSON)
	}
	if entry.UUID == "" {
		t.Error("no public id assigned")
	}
}

func TestPruneExpiredHonorsRetention(t *testing.T) {
	repo := &memJournal{}
	svc := newService(repo, nil) // free tier: 30 day retention

	old := &models.JournalEntry{UUID: "old", UserID: 1, Ciphertext: "c", IV: "i",
		CreatedAt: time.Now().AddDate(0, 0, -45)}
	fresh := &models.JournalEntry{UUID: "fresh", UserID: 1, Ciphertext: "c", IV: "i",
		CreatedAt: time.Now().AddDate(0, 0, -5)}
	repo.entries = append(repo.entries, old, fresh)

	removed, err := svc.PruneExpired(1)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("pruned %d entries, want 1", removed)
	}
	if _, err := repo.GetByUUID(1, "fresh"); err != nil {
		t.Error("fresh entry was pruned")
	}
}

func TestUnlimitedRetentionNeverPrunes(t *testing.T) {
	repo := &memJournal{}
	svc := newService(repo, map[uint]int{1: int(tiers.TierRadiance)})

	ancient := &models.JournalEntry{UUID: "ancient", UserID: 1, Ciphertext: "c", IV: "i",
		CreatedAt: time.Now().AddDate(-3, 0, 0)}
	repo.entries = append(repo.entries, ancient)

	removed, err := svc.PruneExpired(1)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Error("unlimited retention pruned entries")
	}
}

func TestListEntriesPrunesFirst(t *testing.T) {
	repo := &memJournal{}
	svc := newService(repo, nil)

	repo.entries = append(repo.entries, &models.JournalEntry{UUID: "stale", UserID: 1,
		Ciphertext: "c", IV: "i", CreatedAt: time.Now().AddDate(0, 0, -60)})
	if _, err := svc.CreateEntry(1, "cipher", "iv", "v1", nil); err != nil {
		t.Fatal(err)
	}

	entries, err := svc.ListEntries(1, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("listed %d entries, want the stale one pruned", len(entries))
	}
}
