package auth

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/db/models"
)

// Verifier checks username/password pairs against stored accounts.
type Verifier struct {
	db *gorm.DB
}

// NewVerifier builds a Verifier on top of the given database handle.
func NewVerifier(db *gorm.DB) *Verifier {
	return &Verifier{db: db}
}

// Login authenticates a username/password pair and returns the matching
// account. All failure modes, unknown username, deactivated account, wrong
// password, return the same ErrInvalidCredentials so callers cannot probe
// which usernames exist.
//
// The username lookup is case-sensitive.
func (v *Verifier) Login(username, password string) (*models.User, error) {
	var user models.User

	err := v.db.Preload("Company").Where("username = ?", username).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Msg("failed to query user during login")
		}

		return nil, ErrInvalidCredentials
	}

	// MySQL's default collation compares usernames case-insensitively, so
	// the WHERE clause alone cannot be trusted for exact matching. Re-check
	// in Go to keep the lookup case-sensitive on every engine.
	if user.Username != username {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
