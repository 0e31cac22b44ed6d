package models

import "time"

// Lead is an admin lead, the staff-side record a public submission becomes
// after transfer, or that creator roles enter directly.
type Lead struct {
	// ID is the unique identifier for the lead.
	ID uint `gorm:"primaryKey" json:"id"`
	// FullName is the lead's name.
	FullName string `gorm:"size:255;not null" json:"fullName"`
	// PhoneNumber is the lead's contact number, unique across leads.
	PhoneNumber *string `gorm:"size:50;uniqueIndex" json:"phoneNumber"`
	// SharesQuantity is the requested number of shares.
	SharesQuantity *int `json:"sharesQuantity"`
	// CalculatedTotal is the computed total for the requested shares.
	CalculatedTotal *float64 `json:"calculatedTotal"`
	// InvestmentAmount is the negotiated investment amount.
	InvestmentAmount *float64 `json:"investmentAmount"`
	// City is the lead's city.
	City string `gorm:"size:255" json:"city"`
	// Source records where the lead came from.
	Source string `gorm:"size:100;default:'manual'" json:"source"`
	// Notes holds free-form triage notes.
	Notes *string `gorm:"type:text" json:"notes"`
	// CallingTimes counts how often the lead was called.
	CallingTimes *int `gorm:"default:0" json:"callingTimes"`
	// LeadStatus is the triage status, "new" on creation.
	LeadStatus string `gorm:"size:50;default:'new'" json:"leadStatus"`
	// MsgDate is the date of the originating message, required for creator roles.
	MsgDate *time.Time `json:"msgDate"`
	// OriginalInvestorID links back to the public submission for transferred leads.
	OriginalInvestorID *string `gorm:"size:32;index" json:"originalInvestorId"`
	// CompanyID is the owning company, nil for unassigned legacy records.
	CompanyID *uint `gorm:"column:company_id" json:"companyID"`
	// Company is the associated company record, if any.
	Company *Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
	// EmailSentToAdmin marks the admin notification side effect as done.
	EmailSentToAdmin bool `gorm:"default:false" json:"emailSentToAdmin"`
	// EmailSentToInvestor marks the investor confirmation side effect as done.
	EmailSentToInvestor bool `gorm:"default:false" json:"emailSentToInvestor"`
	// CreatedBy is the id of the user who created the lead.
	CreatedBy *string `gorm:"size:36" json:"createdBy,omitempty"`
	// UpdatedBy is the id of the user who last updated the lead.
	UpdatedBy *string `gorm:"size:36" json:"updatedBy,omitempty"`
	// CreatedByUser is the creating user, if still present.
	CreatedByUser *User `gorm:"foreignKey:CreatedBy;references:ID" json:"createdByUser,omitempty"`
	// UpdatedByUser is the last updating user, if any.
	UpdatedByUser *User `gorm:"foreignKey:UpdatedBy;references:ID" json:"updatedByUser,omitempty"`
	// CreatedAt is the timestamp when the lead was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the lead was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}
