package audit

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/leadengine/leadengine/internal/auth"
	"github.com/leadengine/leadengine/internal/db/models"
)

// skipEndpoints are never recorded by the middleware. Logout writes its
// own record from the handler.
var skipEndpoints = map[string]struct{}{
	"/health":                 {},
	"/api/admin/users/logout": {},
}

// Middleware returns the terminal activity-tracking middleware. It runs
// the rest of the chain first, then decides whether the finished request
// is worth a record. Everything the record needs is copied out of the
// request context before Record is called, because fiber recycles the
// context the moment the handler chain returns.
func Middleware(recorder *Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		if !shouldTrack(c) {
			return err
		}

		record := buildRecord(c, time.Since(start))
		recorder.Record(record)

		return err
	}
}

func shouldTrack(c *fiber.Ctx) bool {
	// Read traffic is high volume and low interest.
	if c.Method() == fiber.MethodGet {
		return false
	}

	if _, skip := skipEndpoints[c.Path()]; skip {
		return false
	}

	// Unauthenticated requests are only interesting on the auth endpoints,
	// where failed attempts are exactly the point.
	if auth.IdentityFromCtx(c) == nil && !isAuthEndpoint(c.Path()) {
		return false
	}

	return true
}

func isAuthEndpoint(path string) bool {
	return strings.Contains(path, "/login") || strings.Contains(path, "/logout")
}

func buildRecord(c *fiber.Ctx, elapsed time.Duration) *models.ActivityLog {
	path := utils.CopyString(c.Path())
	responseBody := utils.CopyBytes(c.Response().Body())
	status := c.Response().StatusCode()

	record := &models.ActivityLog{
		Username:     "anonymous",
		UserRole:     "none",
		Action:       DeriveAction(c.Method(), path),
		ResourceType: DeriveResourceType(path),
		ResourceID:   copyStringPtr(deriveResourceID(c, responseBody)),
		HTTPMethod:   utils.CopyString(c.Method()),
		Endpoint:     path,
		StatusCode:   status,
		DurationMs:   elapsed.Milliseconds(),
		ClientIP:     ClientIP(c),
		UserAgent:    utils.CopyString(c.Get(fiber.HeaderUserAgent)),
		RequestBody:  SanitizeBody(c.Body()),
		Metadata:     extractMetadata(c),
	}

	if identity := auth.IdentityFromCtx(c); identity != nil {
		userID := identity.SubjectID
		record.UserID = &userID
		record.Username = identity.Username
		record.UserRole = identity.Role.String()
		record.CompanyID = copyUintPtr(identity.CompanyScope)
	} else if strings.Contains(path, "/login") {
		// Failed login: the only identity hint is the attempted username.
		if username := usernameFromBody(c.Body()); username != "" {
			record.Username = username
		}
	}

	if status >= fiber.StatusBadRequest {
		if msg := errorFromResponse(responseBody); msg != "" {
			record.ErrorMessage = &msg
		}
	}

	return record
}

// ClientIP resolves the caller's address, trusting proxy headers when
// present. The first X-Forwarded-For hop is the original client.
func ClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")

		return utils.CopyString(strings.TrimSpace(first))
	}

	if realIP := c.Get("X-Real-Ip"); realIP != "" {
		return utils.CopyString(realIP)
	}

	return utils.CopyString(c.IP())
}

func usernameFromBody(body []byte) string {
	var payload struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	return payload.Username
}

func errorFromResponse(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if payload.Error != "" {
		return payload.Error
	}

	return payload.Message
}

func copyStringPtr(v *string) *string {
	if v == nil {
		return nil
	}

	out := utils.CopyString(*v)

	return &out
}

func copyUintPtr(v *uint) *uint {
	if v == nil {
		return nil
	}

	out := *v

	return &out
}
