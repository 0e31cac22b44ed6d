// Package logout implements the admin logout endpoint. The activity
// middleware skips this path, so the handler writes its own audit record;
// the identity is read from the cookie being cleared.
package logout

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/leadengine/leadengine/internal/audit"
	"github.com/leadengine/leadengine/internal/auth"
	"github.com/leadengine/leadengine/internal/db/models"
	"github.com/leadengine/leadengine/internal/web/handler"
	"github.com/leadengine/leadengine/internal/web/handler/login"
)

const (
	// Path is the logout endpoint path.
	Path = "/api/admin/users/logout"
)

// Service is the logout handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilADFatalLogMsg)
	}

	s.deps = deps

	app.Post(Path, s.Post)

	return nil
}

// Post clears the session cookie. Logout succeeds with or without a valid
// session; the audit record names the user when the cookie still verified.
func (s *Service) Post(c *fiber.Ctx) error {
	start := time.Now()

	record := &models.ActivityLog{
		Username:     "anonymous",
		UserRole:     "none",
		Action:       "LOGOUT",
		ResourceType: "User",
		HTTPMethod:   fiber.MethodPost,
		Endpoint:     Path,
		StatusCode:   fiber.StatusOK,
		ClientIP:     audit.ClientIP(c),
		UserAgent:    c.Get(fiber.HeaderUserAgent),
	}

	if cookie := c.Cookies(auth.CookieName); cookie != "" {
		if identity, err := s.deps.Codec.Verify(cookie); err == nil {
			userID := identity.SubjectID
			record.UserID = &userID
			record.Username = identity.Username
			record.UserRole = identity.Role.String()
			record.CompanyID = identity.CompanyScope
		}
	}

	login.ClearSessionCookie(c, s.deps.Cfg)

	record.DurationMs = time.Since(start).Milliseconds()
	s.deps.Recorder.Record(record)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
