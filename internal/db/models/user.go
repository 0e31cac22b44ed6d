package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// User represents an admin account. Users carry exactly one role; company
// scoped roles additionally carry the company they are pinned to.
type User struct {
	// ID is the unique identifier for the user.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Username is the unique username for login. Lookup is case-sensitive.
	Username string `gorm:"unique;size:100;not null" json:"username"`
	// Email is the user's email address.
	Email string `gorm:"size:255;not null" json:"email"`
	// PasswordHash is the Argon2id hashed password.
	PasswordHash string `gorm:"size:255" json:"-"`
	// Role is the user's role, one of the six defined role constants.
	Role Role `gorm:"type:varchar(32);not null" json:"role"`
	// CompanyID pins company tier roles to their company. Nil for super tiers.
	CompanyID *uint `gorm:"column:company_id" json:"companyId"`
	// Company is the associated company record, if any.
	Company *Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
	// Active indicates whether the user account is active and can log in.
	Active bool `gorm:"default:true" json:"isActive"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	return nil
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating or updating user passwords.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.PasswordHash)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
