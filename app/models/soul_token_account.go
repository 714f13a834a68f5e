package models

import "time"

const (
	TokenSourceTruthReading = "truth_reading"
	TokenSourceTruthSharing = "truth_sharing"
)

// SoulTokenAccount tracks the in-app reward currency for one user.
// Accounting only; tokens have no monetary value and are never spent
// below zero.
type SoulTokenAccount struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalEarned       int64     `gorm:"not null;default:0" json:"total_earned"`
	CurrentBalance    int64     `gorm:"not null;default:0" json:"current_balance"`
	EarnedFromReading int64     `gorm:"not null;default:0" json:"earned_from_reading"`
	EarnedFromSharing int64     `gorm:"not null;default:0" json:"earned_from_sharing"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
