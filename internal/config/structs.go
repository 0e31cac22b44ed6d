package config

import (
	"time"

	"github.com/leadengine/leadengine/internal/logger"
)

// Auth holds authentication and session-token settings.
type Auth struct {
	// JWTSecret signs session tokens. Must be set.
	JWTSecret string
	// TokenTTL is the fixed validity window of an issued token.
	// No sliding renewal. Defaults to 24h.
	TokenTTL time.Duration
	// LegacyAdmin materializes the pre-migration superuser as an ordinary
	// user row at startup. Both fields empty = no legacy account.
	LegacyAdmin LegacyAdmin
}

// LegacyAdmin is the seeded fallback superuser credential.
type LegacyAdmin struct {
	Username     string
	PasswordHash string // argon2id hash, never plaintext
}

// Geo holds the IP geolocation lookup settings.
type Geo struct {
	Enabled  bool
	URL      string        // provider base URL, e.g. http://ip-api.com/json
	CacheTTL time.Duration // per-IP memoization window
	Timeout  time.Duration // outbound lookup timeout
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Auth      Auth
	Geo       Geo
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool   // use clean path middleware to allow multi slash requests
	DisableRecover bool   // disable recover middleware
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
	RateLimit      int    // max non-GET requests per minute per IP, 0 = default
}
