package user

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/db/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Company{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func TestCreateAndGet(t *testing.T) {
	db := testDB(t)

	created, err := Create(db, "admin", "admin@example.com", "correct horse", models.RoleSuperAdmin, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("no id assigned")
	}
	if !created.Active {
		t.Error("new user not active")
	}
	if !created.VerifyPassword("correct horse") {
		t.Error("stored hash does not verify")
	}

	byName, err := GetByUsername(db, "admin")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byName.ID != created.ID {
		t.Errorf("lookup mismatch: %s vs %s", byName.ID, created.ID)
	}
}

func TestCreateDuplicates(t *testing.T) {
	db := testDB(t)

	if _, err := Create(db, "admin", "admin@example.com", "pw-123456", models.RoleSuperAdmin, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := Create(db, "admin", "other@example.com", "pw-123456", models.RoleSuperViewer, nil)
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("duplicate username: err = %v", err)
	}

	_, err = Create(db, "other", "admin@example.com", "pw-123456", models.RoleSuperViewer, nil)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate email: err = %v", err)
	}
}

func TestUpdateRehashesPassword(t *testing.T) {
	db := testDB(t)

	created, err := Create(db, "admin", "admin@example.com", "old password", models.RoleSuperAdmin, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newPassword := "new password"
	updated, err := Update(db, created.ID, UpdateInput{Password: &newPassword})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.VerifyPassword("new password") {
		t.Error("new password does not verify")
	}
	if updated.VerifyPassword("old password") {
		t.Error("old password still verifies")
	}
}

func TestUpdateDuplicateUsername(t *testing.T) {
	db := testDB(t)

	if _, err := Create(db, "first", "first@example.com", "pw-123456", models.RoleSuperAdmin, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := Create(db, "second", "second@example.com", "pw-123456", models.RoleSuperViewer, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	taken := "first"
	if _, err := Update(db, second.ID, UpdateInput{Username: &taken}); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("err = %v, want ErrUsernameExists", err)
	}
}

func TestDeleteSelfForbidden(t *testing.T) {
	db := testDB(t)

	created, err := Create(db, "admin", "admin@example.com", "pw-123456", models.RoleSuperAdmin, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := Delete(db, created.ID, created.ID); !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("self delete: err = %v", err)
	}

	if _, err := GetByID(db, created.ID); err != nil {
		t.Fatalf("user gone after refused delete: %v", err)
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)

	victim, err := Create(db, "victim", "victim@example.com", "pw-123456", models.RoleSuperViewer, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := Delete(db, victim.ID, "someone-else"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := GetByID(db, victim.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}

	if _, err := Delete(db, victim.ID, "someone-else"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("double delete: err = %v", err)
	}
}
