package models

import "time"

// Company represents a company whose leads and users are managed here.
// It is the scoping unit for all company tier roles.
type Company struct {
	// CompanyID is the unique identifier for the company.
	CompanyID uint `gorm:"primaryKey" json:"companyID"`
	// Name is the company display name.
	Name string `gorm:"size:255;not null" json:"name"`
	// Description provides a human-readable description of the company.
	Description *string `gorm:"size:1024" json:"description"`
	// PhoneNumber is the company contact number.
	PhoneNumber *string `gorm:"size:50" json:"phoneNumber"`
	// URL is the company website.
	URL *string `gorm:"size:512" json:"url"`
	// CreatedBy is the id of the user who created the record.
	CreatedBy *string `gorm:"size:36" json:"createdBy,omitempty"`
	// UpdatedBy is the id of the user who last updated the record.
	UpdatedBy *string `gorm:"size:36" json:"updatedBy,omitempty"`
	// CreatedByUser is the creating user, if still present.
	CreatedByUser *User `gorm:"foreignKey:CreatedBy;references:ID" json:"createdByUser,omitempty"`
	// UpdatedByUser is the last updating user, if any.
	UpdatedByUser *User `gorm:"foreignKey:UpdatedBy;references:ID" json:"updatedByUser,omitempty"`
	// CreatedAt is the timestamp when the company was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the company was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Company model.
func (Company) TableName() string {
	return "companies"
}
