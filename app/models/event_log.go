package models

import "time"

const (
	EventFlameCall   = "flame_call"
	EventCrisisShown = "crisis_shown"
	EventLimitDenied = "limit_denied"
	EventTruthPosted = "truth_posted"
	EventCrisisHeld  = "crisis_held"
)

// EventLog is an append-only usage event stream. Metadata carries only
// structural fields (crisis level, counter kind) and never message
// content.
type EventLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	EventType    string    `gorm:"type:varchar(50);not null;index" json:"event_type"`
	MetadataJSON string    `gorm:"type:text" json:"metadata_json"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
