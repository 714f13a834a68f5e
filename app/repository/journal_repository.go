package repository

import (
	"time"

	"github.com/ryvynn-app/ryvynn/app/models"
	"gorm.io/gorm"
)

// journalRepository implements the JournalRepository interface
type journalRepository struct {
	db *gorm.DB
}

// NewJournalRepository creates a new journal repository instance
func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

// Create stores a new encrypted journal entry
func (r *journalRepository) Create(entry *models.JournalEntry) error {
	return r.db.Create(entry).Error
}

// GetByUUID retrieves one entry, scoped to its owner
func (r *journalRepository) GetByUUID(userID uint, uuid string) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := r.db.Where("user_id = ? AND uuid = ?", userID, uuid).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByUser returns the user's entries, newest first
func (r *journalRepository) ListByUser(userID uint, offset, limit int) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// Update replaces the ciphertext of an existing entry
func (r *journalRepository) Update(entry *models.JournalEntry) error {
	return r.db.Save(entry).Error
}

// Delete removes one entry, scoped to its owner
func (r *journalRepository) Delete(userID uint, uuid string) error {
	return r.db.Where("user_id = ? AND uuid = ?", userID, uuid).Delete(&models.JournalEntry{}).Error
}

// DeleteOlderThan prunes entries past the retention cutoff and reports
// how many rows were removed
func (r *journalRepository) DeleteOlderThan(userID uint, cutoff time.Time) (int64, error) {
	res := r.db.Where("user_id = ? AND created_at < ?", userID, cutoff).Delete(&models.JournalEntry{})
	return res.RowsAffected, res.Error
}
