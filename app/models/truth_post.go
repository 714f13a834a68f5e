package models

import "time"

const (
	EmotionTagLight  = "light"
	EmotionTagShadow = "shadow"
)

const (
	TruthPostMinLen = 10
	TruthPostMaxLen = 2000
)

// TruthPost is an anonymous feed post. The author id is stored for limit
// enforcement and moderation but is never exposed to readers; the public
// identifier is the random UUID. Crisis-flagged posts are created hidden
// and only become visible through manual review.
type TruthPost struct {
	ID                     uint       `gorm:"primaryKey" json:"-"`
	UUID                   string     `gorm:"type:char(36);not null;uniqueIndex" json:"id"`
	UserID                 uint       `gorm:"not null;index" json:"-"`
	Content                string     `gorm:"type:text;not null" json:"content"`
	EmotionTag             string     `gorm:"type:varchar(16);not null;index:idx_truth_posts_tag_visible,priority:1" json:"emotion_tag"`
	ContainsCrisisKeywords bool       `gorm:"default:false" json:"-"`
	CrisisLevel            string     `gorm:"type:varchar(16);default:''" json:"-"`
	IsVisible              bool       `gorm:"default:true;index:idx_truth_posts_tag_visible,priority:2" json:"-"`
	ReviewedAt             *time.Time `gorm:"type:timestamp;default:null" json:"-"`
	CreatedAt              time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"-"`
}

// ValidTruthContent checks the allowed content length.
func ValidTruthContent(content string) bool {
	return len(content) >= TruthPostMinLen && len(content) <= TruthPostMaxLen
}

// ValidEmotionTag checks the tag enum.
func ValidEmotionTag(tag string) bool {
	return tag == EmotionTagLight || tag == EmotionTagShadow
}
