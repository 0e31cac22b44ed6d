// Package user provides CRUD operations for admin accounts.
package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/db/models"
)

var (
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameExists is returned when the username is already taken.
	ErrUsernameExists = errors.New("Username already exists")
	// ErrEmailExists is returned when the email is already taken.
	ErrEmailExists = errors.New("Email already exists")
	// ErrSelfDelete is returned when a user tries to delete their own account.
	ErrSelfDelete = errors.New("Cannot delete your own account")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// List retrieves all users newest first, with their company association.
func List(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User
	result := db.Preload("Company").Order("created_at DESC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// GetByID retrieves a user by id.
func GetByID(db *gorm.DB, id string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User
	result := db.Preload("Company").Where("id = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &user, nil
}

// GetByUsername retrieves a user by their exact username.
func GetByUsername(db *gorm.DB, username string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User
	result := db.Preload("Company").Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &user, nil
}

// Create creates a new user from a plaintext password. Username and email
// must both be free; the matching duplicate error reports which one is not.
func Create(db *gorm.DB, username, email, password string, role models.Role, companyID *uint) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var existing models.User
	result := db.Where("username = ? OR email = ?", username, email).First(&existing)
	if result.Error == nil {
		if existing.Username == username {
			return nil, ErrUsernameExists
		}

		return nil, ErrEmailExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: models.HashPassword(password),
		Role:         role,
		CompanyID:    companyID,
		Active:       true,
	}

	if result := db.Create(user); result.Error != nil {
		return nil, result.Error
	}

	return GetByID(db, user.ID)
}

// UpdateInput carries the updatable user fields. Nil means "leave as is".
// Password is a plaintext replacement and is rehashed on the way in.
type UpdateInput struct {
	Username  *string
	Email     *string
	Password  *string
	Role      *models.Role
	CompanyID *uint
	Active    *bool
}

// Update applies an update to an existing user.
func Update(db *gorm.DB, id string, input UpdateInput) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User
	result := db.Where("id = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	changes := map[string]interface{}{}
	if input.Username != nil {
		if taken, err := otherUserHas(db, id, "username", *input.Username); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrUsernameExists
		}
		changes["username"] = *input.Username
	}
	if input.Email != nil {
		if taken, err := otherUserHas(db, id, "email", *input.Email); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrEmailExists
		}
		changes["email"] = *input.Email
	}
	if input.Password != nil {
		changes["password_hash"] = models.HashPassword(*input.Password)
	}
	if input.Role != nil {
		changes["role"] = *input.Role
	}
	if input.CompanyID != nil {
		changes["company_id"] = *input.CompanyID
	}
	if input.Active != nil {
		changes["active"] = *input.Active
	}

	if len(changes) > 0 {
		if result := db.Model(&user).Updates(changes); result.Error != nil {
			return nil, result.Error
		}
	}

	return GetByID(db, id)
}

func otherUserHas(db *gorm.DB, id, column, value string) (bool, error) {
	var count int64
	result := db.Model(&models.User{}).Where(column+" = ? AND id <> ?", value, id).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// Delete removes a user by id. A user can never delete their own account.
func Delete(db *gorm.DB, id, actorID string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if id == actorID {
		return nil, ErrSelfDelete
	}

	var user models.User
	result := db.Where("id = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	if result := db.Delete(&user); result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}
