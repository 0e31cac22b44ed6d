package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/leadengine/leadengine/internal/db/models"
)

func testUser() *models.User {
	companyID := uint(5)

	return &models.User{
		ID:        "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		Username:  "jalil",
		Email:     "jalil@example.com",
		Role:      models.RoleCompanyAdmin,
		CompanyID: &companyID,
		Active:    true,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	token, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	identity, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if identity.SubjectID != "7c9e6679-7425-40de-944b-e07fc1f90ae7" {
		t.Errorf("subject = %q", identity.SubjectID)
	}
	if identity.Username != "jalil" || identity.Email != "jalil@example.com" {
		t.Errorf("identity = %+v", identity)
	}
	if identity.Role != models.RoleCompanyAdmin {
		t.Errorf("role = %s", identity.Role)
	}
	if identity.CompanyScope == nil || *identity.CompanyScope != 5 {
		t.Errorf("company scope = %v, want 5", identity.CompanyScope)
	}
	if identity.ExpiresAt.Before(identity.IssuedAt) {
		t.Errorf("expiry %v before issuance %v", identity.ExpiresAt, identity.IssuedAt)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenCodec("secret-a", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewTokenCodec("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Verify with wrong secret: err = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenExpired(t *testing.T) {
	codec := NewTokenCodec("test-secret", -time.Minute)

	token, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Verify expired: err = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenRejectedFromExpiryInstant(t *testing.T) {
	// A zero TTL puts exp at the issue instant (the claim truncates to
	// whole seconds), so by the time Verify runs exp is at or before now.
	// Rejection here pins down the boundary: a token is dead the moment
	// its expiry timestamp is reached, not one tick later.
	codec := NewTokenCodec("test-secret", 0)

	token, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Verify at expiry: err = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		if _, err := codec.Verify(raw); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Verify(%q): err = %v, want ErrTokenInvalid", raw, err)
		}
	}
}

func TestTokenSnapshotImmutable(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)
	user := testUser()

	token, err := codec.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Mutating the account later must not affect outstanding tokens.
	user.Role = models.RoleSuperAdmin
	user.CompanyID = nil

	identity, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.Role != models.RoleCompanyAdmin {
		t.Errorf("role = %s, want snapshot company_admin", identity.Role)
	}
	if identity.CompanyScope == nil || *identity.CompanyScope != 5 {
		t.Errorf("scope = %v, want snapshot 5", identity.CompanyScope)
	}
}
