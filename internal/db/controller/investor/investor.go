// Package investor provides storage operations for public investor-interest
// submissions.
package investor

import (
	"errors"

	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/db/models"
)

var (
	// ErrInvestorNotFound is returned when a submission does not exist.
	ErrInvestorNotFound = errors.New("investor not found")
	// ErrFullNameEmpty is returned when a submission carries no name.
	ErrFullNameEmpty = errors.New("full name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create stores a new public submission and returns it with its generated id.
func Create(db *gorm.DB, investor *models.Investor) (*models.Investor, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if investor.FullName == "" {
		return nil, ErrFullNameEmpty
	}

	if result := db.Create(investor); result.Error != nil {
		return nil, result.Error
	}

	return investor, nil
}

// List retrieves submissions newest first. A non-nil companyID restricts
// the result to submissions owned by that company.
func List(db *gorm.DB, companyID *uint) ([]models.Investor, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.Order("created_at DESC")
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}

	var investors []models.Investor
	if result := query.Find(&investors); result.Error != nil {
		return nil, result.Error
	}

	return investors, nil
}

// GetByID retrieves a submission by its public id.
func GetByID(db *gorm.DB, id string) (*models.Investor, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var investor models.Investor
	result := db.Where("id = ?", id).First(&investor)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvestorNotFound
		}

		return nil, result.Error
	}

	return &investor, nil
}
