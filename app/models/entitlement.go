package models

import "time"

// Entitlement is the materialized limits/features snapshot for one user.
// Limit columns hold the storage encoding produced by tiers.EncodeLimit;
// nothing outside that package may interpret the raw values. Rows are
// written only by the entitlement service on subscription sync.
type Entitlement struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CurrentTier          int       `gorm:"not null;default:0;index" json:"current_tier"`
	TierVersion          string    `gorm:"type:varchar(32);not null;default:''" json:"tier_version"`
	FlameCallsPerDay     int       `gorm:"not null;default:0" json:"flame_calls_per_day"`
	TruthPostsPerDay     int       `gorm:"not null;default:0" json:"truth_posts_per_day"`
	TruthReadsPerDay     int       `gorm:"not null;default:0" json:"truth_reads_per_day"`
	APICallsPerDay       int       `gorm:"not null;default:0" json:"api_calls_per_day"`
	JournalRetentionDays int       `gorm:"not null;default:0" json:"journal_retention_days"`
	DailyGoalsMax        int       `gorm:"not null;default:0" json:"daily_goals_max"`
	SoulTokenEarnRate    int       `gorm:"not null;default:1" json:"soul_token_earn_rate"`
	FeaturesJSON         string    `gorm:"type:text" json:"features_json"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
