package repository

import (
	"errors"

	"github.com/ryvynn-app/ryvynn/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// soulTokenRepository implements the SoulTokenRepository interface
type soulTokenRepository struct {
	db *gorm.DB
}

// NewSoulTokenRepository creates a new soul token repository instance
func NewSoulTokenRepository(db *gorm.DB) SoulTokenRepository {
	return &soulTokenRepository{db: db}
}

// GetOrCreate returns the user's token account, creating an empty one on first touch
func (r *soulTokenRepository) GetOrCreate(userID uint) (*models.SoulTokenAccount, error) {
	var account models.SoulTokenAccount
	err := r.db.Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.SoulTokenAccount{UserID: userID}
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&account).Error; err != nil {
			return nil, err
		}
		// a concurrent creator may have won the insert
		if err := r.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
			return nil, err
		}
		return &account, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// AddTokens credits earned tokens to the account, bucketed by source
func (r *soulTokenRepository) AddTokens(userID uint, amount int64, source string) error {
	if amount <= 0 {
		return nil
	}
	if _, err := r.GetOrCreate(userID); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"total_earned":    gorm.Expr("total_earned + ?", amount),
		"current_balance": gorm.Expr("current_balance + ?", amount),
	}
	switch source {
	case models.TokenSourceTruthReading:
		updates["earned_from_reading"] = gorm.Expr("earned_from_reading + ?", amount)
	case models.TokenSourceTruthSharing:
		updates["earned_from_sharing"] = gorm.Expr("earned_from_sharing + ?", amount)
	}

	return r.db.Model(&models.SoulTokenAccount{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}
