package daemon

import (
	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/config"
	"github.com/leadengine/leadengine/internal/db/models"
)

// seed materializes the configured legacy admin credential as an ordinary
// super_admin row. The account goes through the same login, token and audit
// paths as every other user; only the hash comes from the configuration.
func seed(cfg *config.Config, db *gorm.DB) {
	legacy := cfg.Auth.LegacyAdmin
	if legacy.Username == "" || legacy.PasswordHash == "" {
		return
	}

	var count int64
	db.Model(&models.User{}).Where("username = ?", legacy.Username).Count(&count)
	if count > 0 {
		return
	}

	db.Create(
		&models.User{
			Username:     legacy.Username,
			Email:        legacy.Username + "@localhost",
			PasswordHash: legacy.PasswordHash,
			Role:         models.RoleSuperAdmin,
			Active:       true,
		},
	)
}
