package repository

import (
	"github.com/ryvynn-app/ryvynn/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetByProviderSubscriptionID retrieves the local mirror of a provider subscription
func (r *subscriptionRepository) GetByProviderSubscriptionID(providerID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("provider_subscription_id = ?", providerID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetEntitlingByUserID returns the user's subscriptions in an entitling
// status, highest tier first. More than one row is unusual but possible
// mid-switch; the caller takes the best.
func (r *subscriptionRepository) GetEntitlingByUserID(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("user_id = ? AND status IN ?", userID,
		[]string{models.SubscriptionStatusActive, models.SubscriptionStatusTrialing}).
		Order("tier DESC").
		Find(&subs).Error
	return subs, err
}

// Upsert writes the subscription mirror keyed by the provider's id
func (r *subscriptionRepository) Upsert(sub *models.Subscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"provider_customer_id",
			"price_id",
			"tier",
			"status",
			"current_period_start",
			"current_period_end",
			"cancel_at_period_end",
			"canceled_at",
			"updated_at",
		}),
	}).Create(sub).Error
}
