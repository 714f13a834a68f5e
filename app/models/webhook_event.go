package models

import "time"

// WebhookEvent is the processed-events ledger. One row per provider event
// id ever applied; rows are created after the event's side effects
// succeed and are never updated or deleted. The unique index is the
// idempotency boundary.
type WebhookEvent struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProviderEventID string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"provider_event_id"`
	EventType       string    `gorm:"type:varchar(100);not null;index" json:"event_type"`
	ProcessedAt     time.Time `gorm:"autoCreateTime;index" json:"processed_at"`
}
