package repository

import (
	"github.com/ryvynn-app/ryvynn/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entitlementRepository implements the EntitlementRepository interface
type entitlementRepository struct {
	db *gorm.DB
}

// NewEntitlementRepository creates a new entitlement repository instance
func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepository{db: db}
}

// GetByUserID retrieves the entitlement snapshot for a user
func (r *entitlementRepository) GetByUserID(userID uint) (*models.Entitlement, error) {
	var ent models.Entitlement
	err := r.db.Where("user_id = ?", userID).First(&ent).Error
	if err != nil {
		return nil, err
	}
	return &ent, nil
}

// Upsert writes the entitlement snapshot, replacing any existing row for
// the same user. Limit columns arrive already storage-encoded.
func (r *entitlementRepository) Upsert(ent *models.Entitlement) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_tier",
			"tier_version",
			"flame_calls_per_day",
			"truth_posts_per_day",
			"truth_reads_per_day",
			"api_calls_per_day",
			"journal_retention_days",
			"daily_goals_max",
			"soul_token_earn_rate",
			"features_json",
			"updated_at",
		}),
	}).Create(ent).Error
}
