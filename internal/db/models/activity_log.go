package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLog is one immutable audit record describing a completed, tracked
// request. Records are append-only: nothing in this codebase updates or
// deletes them.
type ActivityLog struct {
	// ID is the unique identifier for the audit record.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// UserID is the acting user's id, nil for pre-authentication attempts.
	UserID *string `gorm:"size:36;index" json:"userId"`
	// Username is the acting username, "anonymous" when unknown.
	Username string `gorm:"size:100" json:"username"`
	// UserRole is the acting user's role, "none" when unknown.
	UserRole string `gorm:"size:32" json:"userRole"`
	// CompanyID is the acting user's company scope, if any.
	CompanyID *uint `gorm:"column:company_id" json:"companyId"`
	// Action is the derived action verb (CREATE, UPDATE, DELETE, LOGIN, ...).
	Action string `gorm:"size:32;index" json:"action"`
	// ResourceType names the kind of resource acted on.
	ResourceType string `gorm:"size:64;index" json:"resourceType"`
	// ResourceID identifies the specific resource, if one could be resolved.
	ResourceID *string `gorm:"size:64;index" json:"resourceId"`
	// HTTPMethod is the request method.
	HTTPMethod string `gorm:"size:10" json:"httpMethod"`
	// Endpoint is the request path without query string.
	Endpoint string `gorm:"size:512" json:"endpoint"`
	// StatusCode is the final response status.
	StatusCode int `json:"statusCode"`
	// DurationMs is the request handling time in milliseconds.
	DurationMs int64 `json:"duration"`
	// ClientIP is the best-effort client address.
	ClientIP string `gorm:"size:64" json:"ipAddress"`
	// UserAgent is the request user agent.
	UserAgent string `gorm:"size:512" json:"userAgent"`
	// Location is the approximate geo location of the client, if resolved.
	Location *string `gorm:"size:255" json:"location"`
	// RequestBody is the sanitized request body for non-GET requests.
	RequestBody json.RawMessage `gorm:"type:text" json:"requestBody,omitempty"`
	// ErrorMessage is the response error text for failed requests.
	ErrorMessage *string `gorm:"type:text" json:"errorMessage"`
	// Metadata carries query params, filters and route params as JSON.
	Metadata json.RawMessage `gorm:"type:text" json:"metadata,omitempty"`
	// CreatedAt is the timestamp when the record was written (managed by GORM).
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (a *ActivityLog) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	return nil
}

// TableName specifies the database table name for the ActivityLog model.
func (ActivityLog) TableName() string {
	return "activity_logs"
}
