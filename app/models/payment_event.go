package models

import "time"

const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// PaymentEvent is an append-only record of invoice outcomes, kept for
// reconciliation and support. Not on any entitlement-critical path.
type PaymentEvent struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	ProviderInvoiceID      string    `gorm:"type:varchar(191);not null;index" json:"provider_invoice_id"`
	ProviderSubscriptionID string    `gorm:"type:varchar(191);not null;index" json:"provider_subscription_id"`
	ProviderCustomerID     string    `gorm:"type:varchar(191);not null" json:"provider_customer_id"`
	AmountCents            int64     `gorm:"not null;default:0" json:"amount_cents"`
	Currency               string    `gorm:"type:varchar(8);not null;default:''" json:"currency"`
	Status                 string    `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedAt              time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
