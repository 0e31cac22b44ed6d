package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/audit"
	"github.com/leadengine/leadengine/internal/auth"
	"github.com/leadengine/leadengine/internal/config"
	"github.com/leadengine/leadengine/internal/notify"
)

// Deps bundles the services the route handlers share.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Codec    *auth.TokenCodec
	Verifier *auth.Verifier
	Recorder *audit.Recorder
	Notifier notify.Notifier
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}
