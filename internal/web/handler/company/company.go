// Package company implements the company management endpoints. Reads are
// scoped: company tier callers see only their own company. Creation is a
// super tier privilege.
package company

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/leadengine/leadengine/internal/auth"
	"github.com/leadengine/leadengine/internal/db/controller/company"
	"github.com/leadengine/leadengine/internal/db/models"
	"github.com/leadengine/leadengine/internal/web/handler"
)

const (
	// Path is the company route group.
	Path = "/api/admin/company"
)

// readRoles mirrors the read grant minus company_creator: creators work
// with leads, not company records.
var readRoles = []models.Role{
	models.RoleSuperAdmin,
	models.RoleCompanyAdmin,
	models.RoleSuperViewer,
	models.RoleCompanyViewer,
	models.RoleSuperCreator,
}

// Service is the company handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the company handler.
var Handler = Service{}

// Init initializes the company handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilADFatalLogMsg)
	}

	s.deps = deps
	authed := auth.RequireAuth(deps.Codec)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, authed, auth.RequireRoles(readRoles...),
			auth.RequireOperation(auth.OpRead), s.List)
		router.Get("/:companyID", authed, auth.RequireRoles(readRoles...),
			auth.RequireCompanyAccess(), s.Get)
		router.Post(handler.RouterRootPath, authed,
			auth.RequireRoles(models.RoleSuperAdmin, models.RoleSuperCreator), s.Post)
		router.Put("/:companyID", authed, auth.RequireOperation(auth.OpUpdate),
			auth.RequireCompanyAccess(), s.Put)
		router.Delete("/:companyID", authed, auth.RequireOperation(auth.OpDelete),
			auth.RequireCompanyAccess(), s.Delete)
	})

	return nil
}

// List returns the companies visible to the caller.
func (s *Service) List(c *fiber.Ctx) error {
	companies, err := company.List(s.deps.DB, auth.DecisionFromCtx(c).Scope)
	if err != nil {
		log.Error().Err(err).Msg("failed to list companies")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.OK(c, companies)
}

func parseCompanyID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("companyID"), 10, 32)
	if err != nil {
		return 0, false
	}

	return uint(id), true
}

// Get returns one company by id.
func (s *Service) Get(c *fiber.Ctx) error {
	id, ok := parseCompanyID(c)
	if !ok {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid company ID")
	}

	found, err := company.GetByID(s.deps.DB, id)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "Company not found")
		}
		log.Error().Err(err).Msg("failed to fetch company")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.OK(c, found)
}

type createRequest struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Description *string `json:"description"`
	PhoneNumber *string `json:"phoneNumber"`
	URL         *string `json:"url" validate:"omitempty,url"`
}

// Post creates a company.
func (s *Service) Post(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	req.Name = handler.Sanitize(req.Name)
	req.Description = handler.SanitizePtr(req.Description)
	req.PhoneNumber = handler.SanitizePtr(req.PhoneNumber)

	if err := handler.Validate.Struct(req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	identity := auth.IdentityFromCtx(c)

	created, err := company.Create(s.deps.DB, &models.Company{
		Name:        req.Name,
		Description: req.Description,
		PhoneNumber: req.PhoneNumber,
		URL:         req.URL,
	}, identity.SubjectID)
	if err != nil {
		log.Error().Err(err).Msg("failed to create company")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.Created(c, created)
}

type updateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	PhoneNumber *string `json:"phoneNumber"`
	URL         *string `json:"url" validate:"omitempty,url"`
}

// Put updates a company.
func (s *Service) Put(c *fiber.Ctx) error {
	id, ok := parseCompanyID(c)
	if !ok {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid company ID")
	}

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	req.Name = handler.SanitizePtr(req.Name)
	req.Description = handler.SanitizePtr(req.Description)
	req.PhoneNumber = handler.SanitizePtr(req.PhoneNumber)

	if err := handler.Validate.Struct(req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	identity := auth.IdentityFromCtx(c)

	updated, err := company.Update(s.deps.DB, id, company.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		PhoneNumber: req.PhoneNumber,
		URL:         req.URL,
	}, identity.SubjectID)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "Company not found")
		}
		log.Error().Err(err).Msg("failed to update company")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.OK(c, updated)
}

// Delete removes a company.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := parseCompanyID(c)
	if !ok {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid company ID")
	}

	deleted, err := company.Delete(s.deps.DB, id)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "Company not found")
		}
		log.Error().Err(err).Msg("failed to delete company")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.OK(c, deleted)
}
