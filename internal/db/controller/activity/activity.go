// Package activity provides read access to the append-only activity log.
// Records are written by the audit recorder; nothing here mutates them.
package activity

import (
	"errors"

	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// UpdatesFor retrieves the UPDATE records for one resource, oldest first.
// Lead history is built from these: each record's sanitized request body
// holds the fields that changed.
func UpdatesFor(db *gorm.DB, resourceType, resourceID string) ([]models.ActivityLog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var records []models.ActivityLog
	result := db.
		Where("resource_type = ? AND resource_id = ? AND action = ?", resourceType, resourceID, "UPDATE").
		Order("created_at ASC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}
