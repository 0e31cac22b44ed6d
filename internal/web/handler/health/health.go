// Package health implements the liveness probe endpoint.
package health

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/leadengine/leadengine/internal/web/handler"
)

// Path is the health check route.
const Path = "/health"

// Service is the health handler service.
type Service struct{}

// Handler is the health handler.
var Handler = Service{}

// Init initializes the health handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilADFatalLogMsg)
	}

	app.Get(Path, s.Get)

	return nil
}

// Get reports process liveness. It carries no dependencies on purpose so it
// stays green while the database is down.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}
