package models

import "time"

// UsageCounter is one per-user, per-day, per-kind counter row. Rows are
// created lazily at zero on first use of the day, only ever incremented,
// and implicitly expire when the day key rolls over. The unique index is
// what the atomic increment-with-ceiling relies on.
type UsageCounter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:ux_usage_counters_user_day_kind,unique,priority:1" json:"user_id"`
	Day       string    `gorm:"type:char(10);not null;index:ux_usage_counters_user_day_kind,unique,priority:2" json:"day"`
	Kind      string    `gorm:"type:varchar(32);not null;index:ux_usage_counters_user_day_kind,unique,priority:3" json:"kind"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UsageDay formats the UTC calendar-day key for counter rows.
func UsageDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
