package models

import "time"

// TruthRead records that a user read a post. At most one row per
// (user, post) pair; the unique index enforces read-once reward
// semantics.
type TruthRead struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uint      `gorm:"not null;index:ux_truth_reads_user_post,unique,priority:1" json:"user_id"`
	PostID uint      `gorm:"not null;index:ux_truth_reads_user_post,unique,priority:2" json:"post_id"`
	ReadAt time.Time `gorm:"autoCreateTime;index" json:"read_at"`
}
