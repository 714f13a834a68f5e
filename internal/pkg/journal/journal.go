// Package journal stores end-to-end-encrypted journal entries. The
// server never sees plaintext; retention is the only policy applied
// here, driven by the user's entitlement.
package journal

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/app/repository"
	"github.com/ryvynn-app/ryvynn/internal/pkg/entitlements"
)

// ErrInvalidEntry means the ciphertext or IV is missing.
var ErrInvalidEntry = errors.New("journal: ciphertext and iv are required")

// Service implements journal entry CRUD plus retention pruning.
type Service struct {
	repo repository.JournalRepository
	ents *entitlements.Service
	now  func() time.Time
}

// NewService creates a journal service
func NewService(repo repository.JournalRepository, ents *entitlements.Service) *Service {
	return &Service{repo: repo, ents: ents, now: time.Now}
}

// CreateEntry stores a new encrypted entry
func (s *Service) CreateEntry(userID uint, ciphertext, iv, algoVersion string, tags []string) (*models.JournalEntry, error) {
	if ciphertext == "" || iv == "" {
		return nil, ErrInvalidEntry
	}
	if algoVersion == "" {
		algoVersion = "v1"
	}

	entry := &models.JournalEntry{
		UUID:        uuid.New().String(),
		UserID:      userID,
		Ciphertext:  ciphertext,
		IV:          iv,
		AlgoVersion: algoVersion,
	}
	if len(tags) > 0 {
		data, err := json.Marshal(tags)
		if err != nil {
			return nil, err
		}
		entry.TagsJSON = string(data)
	}
	if err := s.repo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetEntry fetches one entry owned by the user
func (s *Service) GetEntry(userID uint, entryUUID string) (*models.JournalEntry, error) {
	return s.repo.GetByUUID(userID, entryUUID)
}

// ListEntries returns the user's entries after applying retention
func (s *Service) ListEntries(userID uint, offset, limit int) ([]models.JournalEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if _, err := s.PruneExpired(userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(userID, offset, limit)
}

// UpdateEntry replaces the ciphertext of an existing entry
func (s *Service) UpdateEntry(userID uint, entryUUID, ciphertext, iv string, tags []string) (*models.JournalEntry, error) {
	if ciphertext == "" || iv == "" {
		return nil, ErrInvalidEntry
	}
	entry, err := s.repo.GetByUUID(userID, entryUUID)
	if err != nil {
		return nil, err
	}
	entry.Ciphertext = ciphertext
	entry.IV = iv
	if tags != nil {
		data, err := json.Marshal(tags)
		if err != nil {
			return nil, err
		}
		entry.TagsJSON = string(data)
	}
	if err := s.repo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes one entry owned by the user
func (s *Service) DeleteEntry(userID uint, entryUUID string) error {
	return s.repo.Delete(userID, entryUUID)
}

// PruneExpired deletes entries older than the user's retention window.
// Unlimited retention prunes nothing.
func (s *Service) PruneExpired(userID uint) (int64, error) {
	snap, err := s.ents.GetForUser(userID)
	if err != nil {
		return 0, err
	}
	retention := snap.Limits.JournalRetentionDays
	if retention.IsUnlimited() || retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -int(retention))
	return s.repo.DeleteOlderThan(userID, cutoff)
}
