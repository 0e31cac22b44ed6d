package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/uniuri"
)

// Investor is a public investor-interest form submission. Submissions are
// immutable from the public side; staff turn them into admin leads through
// the transfer operation.
type Investor struct {
	// ID is the opaque public identifier of the submission.
	ID string `gorm:"primaryKey;size:32" json:"id"`
	// FullName is the submitted investor name.
	FullName string `gorm:"size:255;not null" json:"fullName"`
	// PhoneNumber is the submitted contact number.
	PhoneNumber *string `gorm:"size:50" json:"phoneNumber"`
	// SharesQuantity is the requested number of shares.
	SharesQuantity *int `json:"sharesQuantity"`
	// CalculatedTotal is the computed total for the requested shares.
	CalculatedTotal *float64 `json:"calculatedTotal"`
	// City is the submitted city.
	City string `gorm:"size:255" json:"city"`
	// Source records where the submission came from.
	Source string `gorm:"size:100;default:'website'" json:"source"`
	// CompanyID is the owning company, nil for unassigned legacy records.
	CompanyID *uint `gorm:"column:company_id" json:"companyID"`
	// Company is the associated company record, if any.
	Company *Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
	// EmailSentToAdmin marks the admin notification side effect as done.
	EmailSentToAdmin bool `gorm:"default:false" json:"emailSentToAdmin"`
	// EmailSentToInvestor marks the investor confirmation side effect as done.
	EmailSentToInvestor bool `gorm:"default:false" json:"emailSentToInvestor"`
	// Transferred is set once an admin lead was created from this submission.
	Transferred bool `gorm:"default:false" json:"transferred"`
	// CreatedAt is the timestamp when the submission arrived (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the record was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a random public id when none is set.
func (i *Investor) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uniuri.NewLen(uniuri.RecordIDLen)
	}

	return nil
}
