// Package lead provides storage operations for admin leads: filtered
// listing with pagination, creation with phone uniqueness, change-detecting
// updates, the atomic investor transfer and aggregate statistics.
package lead

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/db/models"
)

const idQueryPattern = "id = ?"

var (
	// ErrLeadNotFound is returned when a lead does not exist.
	ErrLeadNotFound = errors.New("Lead not found")
	// ErrDuplicatePhone is returned when another lead already carries the
	// phone number.
	ErrDuplicatePhone = errors.New("Phone number already exists for another lead.")
	// ErrNoChanges is returned when an update contains no actual change.
	ErrNoChanges = errors.New("No changes detected. Please update at least one field before submitting.")
	// ErrInvestorNotFound is returned when transferring a missing submission.
	ErrInvestorNotFound = errors.New("Investor not found")
	// ErrAlreadyTransferred is returned when the submission was already
	// turned into a lead.
	ErrAlreadyTransferred = errors.New("Investor already transferred")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

func withAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Company").Preload("CreatedByUser").Preload("UpdatedByUser")
}

// Filters narrows a lead listing. Zero values mean "no filter"; CompanyID
// carries the caller's effective scope and is never optional for company
// tier callers.
type Filters struct {
	Search      string
	Status      string
	City        string
	Source      string
	CompanyID   *uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	UpdatedFrom *time.Time
	UpdatedTo   *time.Time
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	Total           int64 `json:"total"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return page, limit
}

func applyFilters(query *gorm.DB, filters Filters) *gorm.DB {
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("full_name LIKE ? OR phone_number LIKE ?", pattern, pattern)
	}
	if filters.Status != "" && filters.Status != "all" {
		query = query.Where("lead_status = ?", filters.Status)
	}
	if filters.City != "" && filters.City != "all" {
		query = query.Where("city = ?", filters.City)
	}
	if filters.Source != "" && filters.Source != "all" {
		query = query.Where("source = ?", filters.Source)
	}
	if filters.CompanyID != nil {
		query = query.Where("company_id = ?", *filters.CompanyID)
	}
	if filters.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filters.CreatedFrom)
	}
	if filters.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filters.CreatedTo)
	}
	if filters.UpdatedFrom != nil {
		query = query.Where("updated_at >= ?", *filters.UpdatedFrom)
	}
	if filters.UpdatedTo != nil {
		query = query.Where("updated_at <= ?", *filters.UpdatedTo)
	}

	return query
}

// List retrieves one page of leads matching the filters, newest first.
func List(db *gorm.DB, filters Filters, page, limit int) ([]models.Lead, *Pagination, error) {
	if db == nil {
		return nil, nil, ErrDBNil
	}

	page, limit = normalizePage(page, limit)

	var total int64
	if result := applyFilters(db.Model(&models.Lead{}), filters).Count(&total); result.Error != nil {
		return nil, nil, result.Error
	}

	var leads []models.Lead
	result := applyFilters(withAssociations(db), filters).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&leads)
	if result.Error != nil {
		return nil, nil, result.Error
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return leads, &Pagination{
		Page:            page,
		Limit:           limit,
		Total:           total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}, nil
}

// GetByID retrieves a lead with its associations.
func GetByID(db *gorm.DB, id uint) (*models.Lead, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var lead models.Lead
	result := withAssociations(db).Where(idQueryPattern, id).First(&lead)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}

		return nil, result.Error
	}

	return &lead, nil
}

// Create stores a new lead, recording who created it. The phone number
// must be unique across leads.
func Create(db *gorm.DB, lead *models.Lead, createdBy string) (*models.Lead, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if lead.PhoneNumber != nil {
		taken, err := phoneTaken(db, *lead.PhoneNumber, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicatePhone
		}
	}

	lead.CreatedBy = &createdBy
	if result := db.Create(lead); result.Error != nil {
		return nil, result.Error
	}

	return GetByID(db, lead.ID)
}

func phoneTaken(db *gorm.DB, phone string, excludeID uint) (bool, error) {
	var count int64
	result := db.Model(&models.Lead{}).
		Where("phone_number = ? AND id <> ?", phone, excludeID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// UpdateInput carries the updatable lead fields. Nil means "leave as is".
type UpdateInput struct {
	FullName            *string
	PhoneNumber         *string
	City                *string
	Source              *string
	Notes               *string
	CallingTimes        *int
	LeadStatus          *string
	OriginalInvestorID  *string
	InvestmentAmount    *float64
	CalculatedTotal     *float64
	SharesQuantity      *int
	MsgDate             *time.Time
	EmailSentToAdmin    *bool
	EmailSentToInvestor *bool
}

// changes compares the input against the stored lead and returns the column
// map of fields that actually differ. Submitting the current values again
// is not a change.
func (in UpdateInput) changes(lead *models.Lead) map[string]interface{} {
	changes := map[string]interface{}{}

	if in.FullName != nil && *in.FullName != lead.FullName {
		changes["full_name"] = *in.FullName
	}
	if in.PhoneNumber != nil && !strEq(in.PhoneNumber, lead.PhoneNumber) {
		changes["phone_number"] = *in.PhoneNumber
	}
	if in.City != nil && *in.City != lead.City {
		changes["city"] = *in.City
	}
	if in.Source != nil && *in.Source != lead.Source {
		changes["source"] = *in.Source
	}
	if in.Notes != nil && !strEq(in.Notes, lead.Notes) {
		changes["notes"] = *in.Notes
	}
	if in.CallingTimes != nil && !intEq(in.CallingTimes, lead.CallingTimes) {
		changes["calling_times"] = *in.CallingTimes
	}
	if in.LeadStatus != nil && *in.LeadStatus != lead.LeadStatus {
		changes["lead_status"] = *in.LeadStatus
	}
	if in.OriginalInvestorID != nil && !strEq(in.OriginalInvestorID, lead.OriginalInvestorID) {
		changes["original_investor_id"] = *in.OriginalInvestorID
	}
	if in.InvestmentAmount != nil && !floatEq(in.InvestmentAmount, lead.InvestmentAmount) {
		changes["investment_amount"] = *in.InvestmentAmount
	}
	if in.CalculatedTotal != nil && !floatEq(in.CalculatedTotal, lead.CalculatedTotal) {
		changes["calculated_total"] = *in.CalculatedTotal
	}
	if in.SharesQuantity != nil && !intEq(in.SharesQuantity, lead.SharesQuantity) {
		changes["shares_quantity"] = *in.SharesQuantity
	}
	if in.MsgDate != nil && (lead.MsgDate == nil || !in.MsgDate.Equal(*lead.MsgDate)) {
		changes["msg_date"] = *in.MsgDate
	}
	if in.EmailSentToAdmin != nil && *in.EmailSentToAdmin != lead.EmailSentToAdmin {
		changes["email_sent_to_admin"] = *in.EmailSentToAdmin
	}
	if in.EmailSentToInvestor != nil && *in.EmailSentToInvestor != lead.EmailSentToInvestor {
		changes["email_sent_to_investor"] = *in.EmailSentToInvestor
	}

	return changes
}

func strEq(a *string, b *string) bool {
	return b != nil && *a == *b
}

func intEq(a *int, b *int) bool {
	return b != nil && *a == *b
}

func floatEq(a *float64, b *float64) bool {
	return b != nil && *a == *b
}

// Update applies an update to an existing lead, recording who did it. An
// update where every submitted field equals the stored value is rejected
// with ErrNoChanges so the audit trail never carries empty updates.
func Update(db *gorm.DB, id uint, input UpdateInput, updatedBy string) (*models.Lead, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var lead models.Lead
	result := db.Where(idQueryPattern, id).First(&lead)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}

		return nil, result.Error
	}

	changes := input.changes(&lead)
	if len(changes) == 0 {
		return nil, ErrNoChanges
	}

	if phone, ok := changes["phone_number"].(string); ok {
		taken, err := phoneTaken(db, phone, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicatePhone
		}
	}

	changes["updated_by"] = updatedBy
	if result := db.Model(&lead).Updates(changes); result.Error != nil {
		return nil, result.Error
	}

	return GetByID(db, id)
}

// Transfer turns a public submission into an admin lead. The new lead and
// the submission's transferred flag change in one transaction: either both
// happen or neither does.
func Transfer(db *gorm.DB, investorID string, notes *string, msgDate *time.Time, createdBy string) (*models.Lead, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var created models.Lead

	err := db.Transaction(func(tx *gorm.DB) error {
		var inv models.Investor
		result := tx.Where(idQueryPattern, investorID).First(&inv)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrInvestorNotFound
			}

			return result.Error
		}

		var existing int64
		result = tx.Model(&models.Lead{}).Where("original_investor_id = ?", investorID).Count(&existing)
		if result.Error != nil {
			return result.Error
		}
		if existing > 0 {
			return ErrAlreadyTransferred
		}

		callingTimes := 0
		created = models.Lead{
			FullName:           inv.FullName,
			PhoneNumber:        inv.PhoneNumber,
			SharesQuantity:     inv.SharesQuantity,
			CalculatedTotal:    inv.CalculatedTotal,
			City:               inv.City,
			Source:             inv.Source,
			CompanyID:          inv.CompanyID,
			Notes:              notes,
			CallingTimes:       &callingTimes,
			LeadStatus:         "new",
			MsgDate:            msgDate,
			OriginalInvestorID: &inv.ID,
			CreatedBy:          &createdBy,
		}
		if result := tx.Create(&created); result.Error != nil {
			return result.Error
		}

		// Guards against a concurrent transfer of the same submission.
		result = tx.Model(&models.Investor{}).
			Where("id = ? AND transferred = ?", investorID, false).
			Update("transferred", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyTransferred
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetByID(db, created.ID)
}

// Statistics aggregates the investment amounts of the leads in scope.
type Statistics struct {
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Avg   *float64 `json:"avg"`
	Sum   *float64 `json:"sum"`
	Count int64    `json:"count"`
}

// Stats computes investment statistics, optionally restricted to one
// company. Nil aggregate values mean no lead in scope had an amount.
func Stats(db *gorm.DB, companyID *uint) (*Statistics, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.Model(&models.Lead{})
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}

	var stats Statistics
	result := query.Select(
		"MIN(investment_amount) AS min",
		"MAX(investment_amount) AS max",
		"AVG(investment_amount) AS avg",
		"SUM(investment_amount) AS sum",
		"COUNT(investment_amount) AS count",
	).Scan(&stats)
	if result.Error != nil {
		return nil, result.Error
	}

	return &stats, nil
}
