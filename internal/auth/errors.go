package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for every login failure: unknown
	// username, disabled account or wrong password. A single error value
	// keeps usernames non-enumerable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid is returned when a session token fails verification
	// for any reason: bad signature, malformed structure or elapsed expiry.
	ErrTokenInvalid = errors.New("invalid or expired token")

	// ErrNoCompanyAssigned is returned when a company tier role has no
	// company scope in its token. This is a configuration error, not an
	// authorization failure, and is logged as such. The text is the wire
	// message clients see.
	ErrNoCompanyAssigned = errors.New("No company assigned to your account")
)
