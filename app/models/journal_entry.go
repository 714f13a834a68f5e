package models

import "time"

// JournalEntry stores one end-to-end-encrypted journal entry. The server
// only ever sees ciphertext; keys never leave the client. Tags are
// client-side plaintext by user choice and searchable.
type JournalEntry struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UUID        string    `gorm:"type:char(36);not null;uniqueIndex" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_journal_entries_user_created,priority:1" json:"-"`
	Ciphertext  string    `gorm:"type:longtext;not null" json:"ciphertext"`
	IV          string    `gorm:"type:varchar(64);not null" json:"iv"`
	AlgoVersion string    `gorm:"type:varchar(16);not null;default:'v1'" json:"algo_version"`
	TagsJSON    string    `gorm:"type:text" json:"tags_json"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_journal_entries_user_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
