// Package investorform implements the public investor-interest form: an
// unauthenticated submission endpoint plus a gated listing for staff.
package investorform

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/leadengine/leadengine/internal/auth"
	"github.com/leadengine/leadengine/internal/db/controller/investor"
	"github.com/leadengine/leadengine/internal/web/handler"

	"github.com/leadengine/leadengine/internal/db/models"
)

// Path is the public investor form route group.
const Path = "/api/investor-form"

// Service is the investor form handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the investor form handler.
var Handler = Service{}

// Init initializes the investor form handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilADFatalLogMsg)
	}

	s.deps = deps
	authed := auth.RequireAuth(deps.Codec)

	app.Route(Path, func(router fiber.Router) {
		// Submission is the one endpoint without authentication.
		router.Post(handler.RouterRootPath, s.Post)
		router.Get(handler.RouterRootPath, authed, auth.RequireOperation(auth.OpRead), s.List)
	})

	return nil
}

type submitRequest struct {
	FullName        string   `json:"fullName" validate:"required,min=1"`
	PhoneNumber     string   `json:"phoneNumber" validate:"required,min=1"`
	City            string   `json:"city" validate:"required,min=1"`
	SharesQuantity  *int     `json:"sharesQuantity" validate:"omitempty,gt=0"`
	CalculatedTotal *float64 `json:"calculatedTotal" validate:"omitempty,gt=0"`
	CompanyID       *uint    `json:"companyID" validate:"omitempty,gt=0"`
}

// Post accepts a public form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	req.FullName = handler.Sanitize(req.FullName)
	req.City = handler.Sanitize(req.City)

	if err := handler.Validate.Struct(req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}
	if !handler.ValidPhone(req.PhoneNumber) {
		return handler.ValidationFail(c, []fiber.Map{{"path": "phoneNumber", "message": "Invalid phone number format"}})
	}

	phone := req.PhoneNumber
	created, err := investor.Create(s.deps.DB, &models.Investor{
		FullName:        req.FullName,
		PhoneNumber:     &phone,
		City:            req.City,
		SharesQuantity:  req.SharesQuantity,
		CalculatedTotal: req.CalculatedTotal,
		CompanyID:       req.CompanyID,
		Source:          "website",
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to store investor submission")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	if s.deps.Notifier != nil {
		s.deps.Notifier.SubmissionReceived(created)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Submission received",
		"data": fiber.Map{
			"id":        created.ID,
			"createdAt": created.CreatedAt,
		},
	})
}

// List returns submissions within the caller's company scope.
func (s *Service) List(c *fiber.Ctx) error {
	identity := auth.IdentityFromCtx(c)
	companyScope := auth.EffectiveCompanyFilter(identity, requestedCompanyID(c))

	investors, err := investor.List(s.deps.DB, companyScope)
	if err != nil {
		log.Error().Err(err).Msg("failed to list investor submissions")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.OK(c, investors)
}

func requestedCompanyID(c *fiber.Ctx) *uint {
	raw := c.Query("companyID")
	if raw == "" || raw == "all" {
		return nil
	}

	id := c.QueryInt("companyID", 0)
	if id <= 0 {
		return nil
	}

	out := uint(id)

	return &out
}
