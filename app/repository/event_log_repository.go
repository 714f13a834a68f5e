package repository

import (
	"github.com/ryvynn-app/ryvynn/app/models"
	"gorm.io/gorm"
)

// eventLogRepository implements the EventLogRepository interface
type eventLogRepository struct {
	db *gorm.DB
}

// NewEventLogRepository creates a new event log repository instance
func NewEventLogRepository(db *gorm.DB) EventLogRepository {
	return &eventLogRepository{db: db}
}

// Create appends one usage event
func (r *eventLogRepository) Create(event *models.EventLog) error {
	return r.db.Create(event).Error
}
