package repository

import (
	"github.com/ryvynn-app/ryvynn/app/models"
	"gorm.io/gorm"
)

// paymentEventRepository implements the PaymentEventRepository interface
type paymentEventRepository struct {
	db *gorm.DB
}

// NewPaymentEventRepository creates a new payment event repository instance
func NewPaymentEventRepository(db *gorm.DB) PaymentEventRepository {
	return &paymentEventRepository{db: db}
}

// Create appends a payment event record
func (r *paymentEventRepository) Create(event *models.PaymentEvent) error {
	return r.db.Create(event).Error
}

// ListBySubscription returns the latest payment events for a subscription
func (r *paymentEventRepository) ListBySubscription(providerSubscriptionID string, limit int) ([]models.PaymentEvent, error) {
	var events []models.PaymentEvent
	err := r.db.Where("provider_subscription_id = ?", providerSubscriptionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
