// Package login implements the admin login endpoint. A successful login
// answers with the session cookie and the account snapshot; every failure
// mode answers 401 with the same message.
package login

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/leadengine/leadengine/internal/auth"
	"github.com/leadengine/leadengine/internal/config"
	"github.com/leadengine/leadengine/internal/db/models"
	"github.com/leadengine/leadengine/internal/web/handler"
)

const (
	// Path is the login endpoint path.
	Path = "/api/admin/users/login"
)

// Service is the login handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilADFatalLogMsg)
	}

	s.deps = deps

	app.Post(Path, s.Post)

	return nil
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Role      models.Role     `json:"role"`
	CompanyID *uint           `json:"companyId"`
	Company   *models.Company `json:"company"`
}

// Post handles the login submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	req.Username = handler.Sanitize(req.Username)

	if err := handler.Validate.Struct(req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	user, err := s.deps.Verifier.Login(req.Username, req.Password)
	if err != nil {
		return handler.Fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := s.deps.Codec.Issue(user)
	if err != nil {
		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	SetSessionCookie(c, s.deps.Cfg, token)

	// Make the fresh identity visible to the activity middleware.
	identity := auth.IdentityFromUser(user)
	auth.StoreIdentity(c, &identity)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user": loginResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Role:      user.Role,
			CompanyID: user.CompanyID,
			Company:   user.Company,
		},
	})
}

// SetSessionCookie writes the session cookie. Secure is dropped in dev
// mode so local plain-HTTP setups keep working.
func SetSessionCookie(c *fiber.Ctx, cfg *config.Config, token string) {
	cookie := &fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		MaxAge:   int(cfg.Auth.TokenTTL.Seconds()),
		Path:     "/",
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if cfg.DevMode {
		cookie.Secure = false
	}

	c.Cookie(cookie)
}

// ClearSessionCookie overwrites the session cookie with an expired one.
func ClearSessionCookie(c *fiber.Ctx, cfg *config.Config) {
	cookie := &fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if cfg.DevMode {
		cookie.Secure = false
	}

	c.Cookie(cookie)
}
