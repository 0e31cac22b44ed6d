package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/leadengine/leadengine/internal/db/models"
)

// CookieName is the HTTP cookie the session token travels in.
const CookieName = "admin_jwt"

type sessionClaims struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	Company  *uint       `json:"companyId,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed session tokens. The secret and
// lifetime are fixed at construction; every token this codec issues
// carries the same TTL.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec builds a codec from the shared HMAC secret and token
// lifetime.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token embedding the user's identity snapshot at issue time.
// Later role or company changes do not invalidate outstanding tokens.
func (c *TokenCodec) Issue(user *models.User) (string, error) {
	now := time.Now()

	claims := sessionClaims{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Company:  user.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing session token")
	}

	return signed, nil
}

// Verify parses and validates a token string. Any defect at all, wrong
// signature, wrong algorithm, expired, malformed, collapses into
// ErrTokenInvalid; callers never learn which check failed.
func (c *TokenCodec) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	if !claims.Role.Valid() {
		return nil, ErrTokenInvalid
	}

	identity := &Identity{
		SubjectID:    claims.Subject,
		Username:     claims.Username,
		Email:        claims.Email,
		Role:         claims.Role,
		CompanyScope: claims.Company,
	}

	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}

	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}

	return identity, nil
}

// TTL reports the configured token lifetime, used to set the cookie
// expiry alongside the token's own exp claim.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}
