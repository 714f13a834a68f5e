package repository

import (
	"errors"

	"github.com/ryvynn-app/ryvynn/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// usageRepository implements the UsageRepository interface
type usageRepository struct {
	db *gorm.DB
}

// NewUsageRepository creates a new usage counter repository instance
func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

// Get returns the current counter value, or zero when no row exists yet
func (r *usageRepository) Get(userID uint, day, kind string) (int64, error) {
	var counter models.UsageCounter
	err := r.db.Where("user_id = ? AND day = ? AND kind = ?", userID, day, kind).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// Increment bumps the counter without a ceiling check, for unlimited quotas
func (r *usageRepository) Increment(userID uint, day, kind string) (int64, error) {
	if err := r.ensureRow(userID, day, kind); err != nil {
		return 0, err
	}
	err := r.db.Model(&models.UsageCounter{}).
		Where("user_id = ? AND day = ? AND kind = ?", userID, day, kind).
		UpdateColumn("value", gorm.Expr("value + 1")).Error
	if err != nil {
		return 0, err
	}
	return r.Get(userID, day, kind)
}

// IncrementWithCeiling bumps the counter only if it is still below the
// limit. The check and the write are one conditional UPDATE, so two
// callers racing for the last slot cannot both win; the loser sees the
// update touch zero rows.
func (r *usageRepository) IncrementWithCeiling(userID uint, day, kind string, limit int64) (bool, int64, error) {
	if limit <= 0 {
		value, err := r.Get(userID, day, kind)
		return false, value, err
	}
	if err := r.ensureRow(userID, day, kind); err != nil {
		return false, 0, err
	}

	res := r.db.Model(&models.UsageCounter{}).
		Where("user_id = ? AND day = ? AND kind = ? AND value < ?", userID, day, kind, limit).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return false, 0, res.Error
	}

	value, err := r.Get(userID, day, kind)
	if err != nil {
		return false, 0, err
	}
	return res.RowsAffected == 1, value, nil
}

// ensureRow lazily creates the day's counter row at zero. The unique
// index makes the insert a no-op when the row already exists.
func (r *usageRepository) ensureRow(userID uint, day, kind string) error {
	counter := models.UsageCounter{
		UserID: userID,
		Day:    day,
		Kind:   kind,
		Value:  0,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error
}
