// Package company provides CRUD operations for company records.
package company

import (
	"errors"

	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/db/models"
)

const idQueryPattern = "company_id = ?"

var (
	// ErrCompanyNotFound is returned when a company does not exist.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrCompanyNameEmpty is returned when creating a company with no name.
	ErrCompanyNameEmpty = errors.New("company name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

func withUsers(db *gorm.DB) *gorm.DB {
	return db.Preload("CreatedByUser").Preload("UpdatedByUser")
}

// List retrieves companies newest first. A non-nil companyID restricts the
// result to that single company; callers pass the caller's effective scope.
func List(db *gorm.DB, companyID *uint) ([]models.Company, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := withUsers(db).Order("created_at DESC")
	if companyID != nil {
		query = query.Where(idQueryPattern, *companyID)
	}

	var companies []models.Company
	if result := query.Find(&companies); result.Error != nil {
		return nil, result.Error
	}

	return companies, nil
}

// GetByID retrieves a company by its id.
func GetByID(db *gorm.DB, id uint) (*models.Company, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var company models.Company
	result := withUsers(db).Where(idQueryPattern, id).First(&company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}

		return nil, result.Error
	}

	return &company, nil
}

// Create creates a new company, recording who created it.
func Create(db *gorm.DB, company *models.Company, createdBy string) (*models.Company, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if company.Name == "" {
		return nil, ErrCompanyNameEmpty
	}

	company.CreatedBy = &createdBy
	if result := db.Create(company); result.Error != nil {
		return nil, result.Error
	}

	return GetByID(db, company.CompanyID)
}

// UpdateInput carries the updatable company fields. Nil means "leave as is".
type UpdateInput struct {
	Name        *string
	Description *string
	PhoneNumber *string
	URL         *string
}

// Update applies an update to an existing company and records who did it.
func Update(db *gorm.DB, id uint, input UpdateInput, updatedBy string) (*models.Company, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var company models.Company
	result := db.Where(idQueryPattern, id).First(&company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}

		return nil, result.Error
	}

	changes := map[string]interface{}{"updated_by": updatedBy}
	if input.Name != nil {
		changes["name"] = *input.Name
	}
	if input.Description != nil {
		changes["description"] = *input.Description
	}
	if input.PhoneNumber != nil {
		changes["phone_number"] = *input.PhoneNumber
	}
	if input.URL != nil {
		changes["url"] = *input.URL
	}

	if result := db.Model(&company).Updates(changes); result.Error != nil {
		return nil, result.Error
	}

	return GetByID(db, id)
}

// Delete removes a company by id.
func Delete(db *gorm.DB, id uint) (*models.Company, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var company models.Company
	result := db.Where(idQueryPattern, id).First(&company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}

		return nil, result.Error
	}

	if result := db.Delete(&company); result.Error != nil {
		return nil, result.Error
	}

	return &company, nil
}
