package auth

import (
	"time"

	"github.com/leadengine/leadengine/internal/db/models"
)

// Identity is the decoded content of a verified session token. It is
// immutable once decoded and lives only for the duration of one request.
type Identity struct {
	// SubjectID is the user id the token was issued for.
	SubjectID string
	// Username is the login name at issuance time.
	Username string
	// Email is the email address at issuance time.
	Email string
	// Role is the caller's role.
	Role models.Role
	// CompanyScope pins company tier callers to exactly one company.
	// Nil means unrestricted; super tier roles ignore it even if set.
	CompanyScope *uint
	// IssuedAt is the token issuance time.
	IssuedAt time.Time
	// ExpiresAt is the fixed expiry, after which verification fails.
	ExpiresAt time.Time
}

// IdentityFromUser builds the Identity a token is issued for.
func IdentityFromUser(u *models.User) Identity {
	return Identity{
		SubjectID:    u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		CompanyScope: u.CompanyID,
	}
}
