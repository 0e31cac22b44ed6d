// Package user implements the admin account management endpoints. Account
// administration is a super tier concern: listing is open to super_admin
// and super_viewer, everything else to super_admin alone.
package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/leadengine/leadengine/internal/auth"
	"github.com/leadengine/leadengine/internal/db/controller/user"
	"github.com/leadengine/leadengine/internal/db/models"
	"github.com/leadengine/leadengine/internal/web/handler"
)

const (
	// Path is the user management route group.
	Path = "/api/admin/users"
)

// Service is the user management handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the user management handler.
var Handler = Service{}

// Init initializes the user management handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilADFatalLogMsg)
	}

	s.deps = deps
	authed := auth.RequireAuth(deps.Codec)

	app.Route(Path, func(router fiber.Router) {
		// The profile route must precede the id route.
		router.Get("/me/profile", authed, s.Profile)
		router.Get(handler.RouterRootPath, authed,
			auth.RequireRoles(models.RoleSuperAdmin, models.RoleSuperViewer), s.List)
		router.Get("/:id", authed, auth.RequireRoles(models.RoleSuperAdmin), s.Get)
		router.Post(handler.RouterRootPath, authed, auth.RequireRoles(models.RoleSuperAdmin), s.Post)
		router.Put("/:id", authed, auth.RequireRoles(models.RoleSuperAdmin), s.Put)
		router.Delete("/:id", authed, auth.RequireRoles(models.RoleSuperAdmin), s.Delete)
	})

	return nil
}

// List returns every account, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := user.List(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.OK(c, users)
}

// Get returns one account by id.
func (s *Service) Get(c *fiber.Ctx) error {
	found, err := user.GetByID(s.deps.DB, c.Params("id"))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "User not found")
		}
		log.Error().Err(err).Msg("failed to fetch user")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.OK(c, found)
}

// Profile returns the caller's own account.
func (s *Service) Profile(c *fiber.Ctx) error {
	identity := auth.IdentityFromCtx(c)

	found, err := user.GetByID(s.deps.DB, identity.SubjectID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "User not found")
		}
		log.Error().Err(err).Msg("failed to fetch profile")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.OK(c, found)
}

type createRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"required"`
	CompanyID *uint  `json:"companyId" validate:"omitempty,gt=0"`
}

// Post creates an account.
func (s *Service) Post(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	req.Username = handler.Sanitize(req.Username)
	req.Email = handler.Sanitize(req.Email)

	if err := handler.Validate.Struct(req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		return handler.ValidationFail(c, []fiber.Map{{"path": "role", "message": "unknown role"}})
	}

	created, err := user.Create(s.deps.DB, req.Username, req.Email, req.Password, role, req.CompanyID)
	if err != nil {
		if errors.Is(err, user.ErrUsernameExists) || errors.Is(err, user.ErrEmailExists) {
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		}
		log.Error().Err(err).Msg("failed to create user")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.Created(c, created)
}

type updateRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role"`
	// CompanyID reassigns the account's company scope.
	CompanyID *uint `json:"companyId" validate:"omitempty,gt=0"`
	IsActive  *bool `json:"isActive"`
}

// Put updates an account.
func (s *Service) Put(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	req.Username = handler.SanitizePtr(req.Username)
	req.Email = handler.SanitizePtr(req.Email)

	if err := handler.Validate.Struct(req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	input := user.UpdateInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		CompanyID: req.CompanyID,
		Active:    req.IsActive,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		if !role.Valid() {
			return handler.ValidationFail(c, []fiber.Map{{"path": "role", "message": "unknown role"}})
		}
		input.Role = &role
	}

	updated, err := user.Update(s.deps.DB, c.Params("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			return handler.Fail(c, fiber.StatusNotFound, "User not found")
		case errors.Is(err, user.ErrUsernameExists), errors.Is(err, user.ErrEmailExists):
			return handler.Fail(c, fiber.StatusBadRequest, "Username or email already exists")
		}
		log.Error().Err(err).Msg("failed to update user")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.OK(c, updated)
}

// Delete removes an account. Nobody deletes themselves.
func (s *Service) Delete(c *fiber.Ctx) error {
	identity := auth.IdentityFromCtx(c)

	deleted, err := user.Delete(s.deps.DB, c.Params("id"), identity.SubjectID)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrSelfDelete):
			return handler.Fail(c, fiber.StatusBadRequest, "Cannot delete your own account")
		case errors.Is(err, user.ErrUserNotFound):
			return handler.Fail(c, fiber.StatusNotFound, "User not found")
		}
		log.Error().Err(err).Msg("failed to delete user")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.OK(c, fiber.Map{
		"id":       deleted.ID,
		"username": deleted.Username,
		"email":    deleted.Email,
	})
}
