// Package investoradmin implements the admin lead endpoints: filtered
// listing, creation, updates, the investor transfer, per-lead history and
// aggregate statistics. Company tier callers are pinned to their own
// company throughout; list filters for other companies are silently
// overridden, writes for other companies are rejected.
package investoradmin

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/auth"
	"github.com/leadengine/leadengine/internal/db/controller/activity"
	"github.com/leadengine/leadengine/internal/db/controller/lead"
	"github.com/leadengine/leadengine/internal/db/models"
	"github.com/leadengine/leadengine/internal/web/handler"
)

const (
	// Path is the admin lead route group.
	Path = "/api/admin/investor-admin"

	// resourceType is how the audit log names these records.
	resourceType = "InvestorAdmin"
)

// Service is the admin lead handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the admin lead handler.
var Handler = Service{}

// Init initializes the admin lead handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilADFatalLogMsg)
	}

	s.deps = deps
	authed := auth.RequireAuth(deps.Codec)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, authed, auth.RequireOperation(auth.OpRead), s.List)
		// The statistics route must precede the id routes.
		router.Get("/statistics", authed, auth.RequireOperation(auth.OpRead), s.Statistics)
		router.Get("/:id/history", authed, auth.RequireOperation(auth.OpRead), s.History)
		router.Post(handler.RouterRootPath, authed, auth.RequireOperation(auth.OpCreate), s.Post)
		router.Post("/transfer/:investorId", authed, auth.RequireOperation(auth.OpCreate), s.Transfer)
		router.Put("/:id", authed, auth.RequireOperation(auth.OpUpdate), s.Put)
	})

	return nil
}

func queryCompanyID(c *fiber.Ctx) *uint {
	raw := c.Query("companyID")
	if raw == "" || raw == "all" {
		return nil
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}

	out := uint(id)

	return &out
}

// parseDay reads a date or timestamp filter value. Date-only "to" bounds
// are pushed to the end of the day so the whole day is included.
func parseDay(raw string, endOfDay bool) *time.Time {
	if raw == "" {
		return nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}

	if endOfDay {
		t = t.Add(24*time.Hour - time.Millisecond)
	}

	return &t
}

// List returns one page of leads in scope.
func (s *Service) List(c *fiber.Ctx) error {
	identity := auth.IdentityFromCtx(c)
	companyScope := auth.EffectiveCompanyFilter(identity, queryCompanyID(c))

	filters := lead.Filters{
		Search:      c.Query("search"),
		Status:      c.Query("status"),
		City:        c.Query("city"),
		Source:      c.Query("source"),
		CompanyID:   companyScope,
		CreatedFrom: parseDay(c.Query("createdAtFrom"), false),
		CreatedTo:   parseDay(c.Query("createdAtTo"), true),
		UpdatedFrom: parseDay(c.Query("updatedAtFrom"), false),
		UpdatedTo:   parseDay(c.Query("updatedAtTo"), true),
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 0)

	leads, pagination, err := lead.List(s.deps.DB, filters, page, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list leads")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"data":       leads,
		"pagination": pagination,
	})
}

type createRequest struct {
	FullName           string     `json:"fullName" validate:"required,min=1"`
	PhoneNumber        *string    `json:"phoneNumber"`
	CompanyID          *uint      `json:"companyID" validate:"omitempty,gt=0"`
	SharesQuantity     *int       `json:"sharesQuantity" validate:"omitempty,gt=0"`
	CalculatedTotal    *float64   `json:"calculatedTotal" validate:"omitempty,gt=0"`
	InvestmentAmount   *float64   `json:"investmentAmount" validate:"omitempty,gt=0"`
	City               string     `json:"city" validate:"required,min=1"`
	Source             *string    `json:"source"`
	Notes              *string    `json:"notes"`
	LeadStatus         *string    `json:"leadStatus"`
	CallingTimes       *int       `json:"callingTimes" validate:"omitempty,gte=0"`
	OriginalInvestorID *string    `json:"originalInvestorId"`
	MsgDate            *time.Time `json:"msgDate"`
}

func (s *Service) sanitizeCreate(req *createRequest) {
	req.FullName = handler.Sanitize(req.FullName)
	req.City = handler.Sanitize(req.City)
	req.Notes = handler.SanitizePtr(req.Notes)
	req.Source = handler.SanitizePtr(req.Source)
}

// Post creates a lead.
func (s *Service) Post(c *fiber.Ctx) error {
	identity := auth.IdentityFromCtx(c)

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	s.sanitizeCreate(&req)

	if err := handler.Validate.Struct(req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}
	if req.PhoneNumber != nil && *req.PhoneNumber != "" && !handler.ValidPhone(*req.PhoneNumber) {
		return handler.ValidationFail(c, []fiber.Map{{"path": "phoneNumber", "message": "Invalid phone number format"}})
	}

	// Creator roles enter leads from incoming messages; the message date
	// is the one field they cannot skip.
	if identity.Role == models.RoleSuperCreator || identity.Role == models.RoleCompanyCreator {
		if req.MsgDate == nil {
			return handler.Fail(c, fiber.StatusBadRequest, "msgDate is required for creator roles")
		}
	}

	decision := auth.DecisionFromCtx(c)
	if req.CompanyID != nil && !decision.PermitsResource(req.CompanyID) {
		return handler.Fail(c, fiber.StatusForbidden, fmt.Sprintf(
			"Access denied. You can only create leads for company ID %d, but you tried to create for company ID %d",
			*decision.Scope, *req.CompanyID))
	}
	if decision.Scope != nil {
		req.CompanyID = decision.Scope
	}

	newLead := &models.Lead{
		FullName:           req.FullName,
		PhoneNumber:        req.PhoneNumber,
		CompanyID:          req.CompanyID,
		SharesQuantity:     req.SharesQuantity,
		CalculatedTotal:    req.CalculatedTotal,
		InvestmentAmount:   req.InvestmentAmount,
		City:               req.City,
		Notes:              req.Notes,
		OriginalInvestorID: req.OriginalInvestorID,
		MsgDate:            req.MsgDate,
		LeadStatus:         "new",
		Source:             "manual",
	}
	if req.LeadStatus != nil && *req.LeadStatus != "" {
		newLead.LeadStatus = *req.LeadStatus
	}
	if req.Source != nil && *req.Source != "" {
		newLead.Source = *req.Source
	}
	if req.CallingTimes != nil {
		newLead.CallingTimes = req.CallingTimes
	}

	created, err := lead.Create(s.deps.DB, newLead, identity.SubjectID)
	if err != nil {
		if errors.Is(err, lead.ErrDuplicatePhone) {
			return handler.Fail(c, fiber.StatusConflict, err.Error())
		}
		log.Error().Err(err).Msg("failed to create lead")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.Created(c, created)
}

type updateRequest struct {
	FullName            *string    `json:"fullName" validate:"omitempty,min=1"`
	PhoneNumber         *string    `json:"phoneNumber"`
	SharesQuantity      *int       `json:"sharesQuantity" validate:"omitempty,gt=0"`
	CalculatedTotal     *float64   `json:"calculatedTotal" validate:"omitempty,gt=0"`
	InvestmentAmount    *float64   `json:"investmentAmount" validate:"omitempty,gt=0"`
	City                *string    `json:"city" validate:"omitempty,min=1"`
	Source              *string    `json:"source"`
	Notes               *string    `json:"notes"`
	LeadStatus          *string    `json:"leadStatus"`
	CallingTimes        *int       `json:"callingTimes" validate:"omitempty,gte=0"`
	OriginalInvestorID  *string    `json:"originalInvestorId"`
	MsgDate             *time.Time `json:"msgDate"`
	EmailSentToAdmin    *bool      `json:"emailSentToAdmin"`
	EmailSentToInvestor *bool      `json:"emailSentToInvestor"`
}

// Put updates a lead. Submitting only unchanged values is rejected so the
// audit history never records an empty update.
func (s *Service) Put(c *fiber.Ctx) error {
	identity := auth.IdentityFromCtx(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	existing, err := lead.GetByID(s.deps.DB, uint(id))
	if err != nil {
		if errors.Is(err, lead.ErrLeadNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "Lead not found")
		}
		log.Error().Err(err).Msg("failed to fetch lead")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	if !auth.DecisionFromCtx(c).PermitsResource(existing.CompanyID) {
		return handler.Fail(c, fiber.StatusForbidden, "Access denied to this lead")
	}

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}

	req.FullName = handler.SanitizePtr(req.FullName)
	req.City = handler.SanitizePtr(req.City)
	req.Notes = handler.SanitizePtr(req.Notes)
	req.Source = handler.SanitizePtr(req.Source)

	if err := handler.Validate.Struct(req); err != nil {
		return handler.ValidationFail(c, handler.ValidationDetails(err))
	}
	if req.PhoneNumber != nil && *req.PhoneNumber != "" && !handler.ValidPhone(*req.PhoneNumber) {
		return handler.ValidationFail(c, []fiber.Map{{"path": "phoneNumber", "message": "Invalid phone number format"}})
	}

	updated, err := lead.Update(s.deps.DB, uint(id), lead.UpdateInput{
		FullName:            req.FullName,
		PhoneNumber:         req.PhoneNumber,
		City:                req.City,
		Source:              req.Source,
		Notes:               req.Notes,
		CallingTimes:        req.CallingTimes,
		LeadStatus:          req.LeadStatus,
		OriginalInvestorID:  req.OriginalInvestorID,
		InvestmentAmount:    req.InvestmentAmount,
		CalculatedTotal:     req.CalculatedTotal,
		SharesQuantity:      req.SharesQuantity,
		MsgDate:             req.MsgDate,
		EmailSentToAdmin:    req.EmailSentToAdmin,
		EmailSentToInvestor: req.EmailSentToInvestor,
	}, identity.SubjectID)
	if err != nil {
		switch {
		case errors.Is(err, lead.ErrLeadNotFound):
			return handler.Fail(c, fiber.StatusNotFound, "Lead not found")
		case errors.Is(err, lead.ErrNoChanges):
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, lead.ErrDuplicatePhone):
			return handler.Fail(c, fiber.StatusConflict, err.Error())
		}
		log.Error().Err(err).Msg("failed to update lead")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.OK(c, updated)
}

type transferRequest struct {
	Notes   *string    `json:"notes"`
	MsgDate *time.Time `json:"msgDate"`
}

// Transfer turns a public submission into a lead.
func (s *Service) Transfer(c *fiber.Ctx) error {
	identity := auth.IdentityFromCtx(c)
	investorID := c.Params("investorId")

	var req transferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return handler.ValidationFail(c, handler.ValidationDetails(err))
		}
	}

	req.Notes = handler.SanitizePtr(req.Notes)

	if identity.Role == models.RoleSuperCreator || identity.Role == models.RoleCompanyCreator {
		if req.MsgDate == nil {
			return handler.Fail(c, fiber.StatusBadRequest, "msgDate is required for creator roles")
		}
	}

	if decision := auth.DecisionFromCtx(c); decision.Scope != nil {
		inv, err := s.investorCompany(investorID)
		if err != nil {
			if errors.Is(err, lead.ErrInvestorNotFound) {
				return handler.Fail(c, fiber.StatusNotFound, "Investor not found")
			}
			log.Error().Err(err).Msg("failed to fetch investor")

			return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
		}

		if !decision.PermitsResource(inv) {
			return handler.Fail(c, fiber.StatusForbidden, "Access denied to this investor")
		}
	}

	created, err := lead.Transfer(s.deps.DB, investorID, req.Notes, req.MsgDate, identity.SubjectID)
	if err != nil {
		switch {
		case errors.Is(err, lead.ErrInvestorNotFound):
			return handler.Fail(c, fiber.StatusNotFound, "Investor not found")
		case errors.Is(err, lead.ErrAlreadyTransferred):
			return handler.Fail(c, fiber.StatusConflict, "Investor already transferred")
		}
		log.Error().Err(err).Msg("failed to transfer investor")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.Created(c, created)
}

func (s *Service) investorCompany(investorID string) (*uint, error) {
	var inv models.Investor
	result := s.deps.DB.Select("company_id").Where("id = ?", investorID).First(&inv)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, lead.ErrInvestorNotFound
		}

		return nil, result.Error
	}

	return inv.CompanyID, nil
}

// History returns the creation record plus every audited update of a lead,
// oldest first.
func (s *Service) History(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	found, err := lead.GetByID(s.deps.DB, uint(id))
	if err != nil {
		if errors.Is(err, lead.ErrLeadNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "Lead not found")
		}
		log.Error().Err(err).Msg("failed to fetch lead")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	if !auth.DecisionFromCtx(c).PermitsResource(found.CompanyID) {
		return handler.Fail(c, fiber.StatusForbidden, "Access denied to this lead")
	}

	updates, err := activity.UpdatesFor(s.deps.DB, resourceType, strconv.FormatUint(id, 10))
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch lead history")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	history := make([]fiber.Map, 0, len(updates)+1)
	history = append(history, fiber.Map{
		"action":        "CREATE",
		"createdAt":     found.CreatedAt,
		"createdByUser": found.CreatedByUser,
		"changes": fiber.Map{
			"fullName":    found.FullName,
			"phoneNumber": found.PhoneNumber,
		},
	})

	for _, update := range updates {
		history = append(history, fiber.Map{
			"action":    "UPDATE",
			"updatedAt": update.CreatedAt,
			"updatedByUser": fiber.Map{
				"id":       update.UserID,
				"username": update.Username,
			},
			"userRole": update.UserRole,
			"changes":  update.RequestBody,
		})
	}

	return handler.OK(c, fiber.Map{
		"id":           found.ID,
		"fullName":     found.FullName,
		"history":      history,
		"totalUpdates": len(updates),
	})
}

// Statistics aggregates investment amounts within the caller's scope.
func (s *Service) Statistics(c *fiber.Ctx) error {
	stats, err := lead.Stats(s.deps.DB, auth.DecisionFromCtx(c).Scope)
	if err != nil {
		log.Error().Err(err).Msg("failed to compute lead statistics")

		return handler.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return handler.OK(c, stats)
}
