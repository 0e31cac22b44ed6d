// Package web assembles the fiber application: middleware chain, handler
// registration and the server lifecycle.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/audit"
	"github.com/leadengine/leadengine/internal/auth"
	"github.com/leadengine/leadengine/internal/config"
	fiberlogger "github.com/leadengine/leadengine/internal/logger/adapter/fiber"
	"github.com/leadengine/leadengine/internal/notify"
	"github.com/leadengine/leadengine/internal/web/handler"
	"github.com/leadengine/leadengine/internal/web/handler/company"
	"github.com/leadengine/leadengine/internal/web/handler/health"
	"github.com/leadengine/leadengine/internal/web/handler/investoradmin"
	"github.com/leadengine/leadengine/internal/web/handler/investorform"
	"github.com/leadengine/leadengine/internal/web/handler/login"
	"github.com/leadengine/leadengine/internal/web/handler/logout"
	"github.com/leadengine/leadengine/internal/web/handler/user"
)

// defaultRateLimit caps non-GET requests per client IP per minute when the
// configuration does not set one.
const defaultRateLimit = 50

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	recorder     *audit.Recorder
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		// let queued audit records reach the database before the process exits
		s.recorder.Drain()

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, recorder *audit.Recorder) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:    cfg.Log,
		HealthURI: health.Path,
	}))

	// Audit sits before the rate limiter so throttled mutations are recorded
	// too. It inspects requests after the rest of the chain ran.
	app.Use(audit.Middleware(recorder))

	app.Use(limiter.New(limiter.Config{
		Max:        rateLimit(cfg),
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			// reads and the liveness probe are never throttled
			return c.Method() == fiber.MethodGet || c.Path() == health.Path
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Too many requests, please try again later.",
			})
		},
	}))

	service := &Service{
		cfg:      cfg,
		App:      app,
		db:       db,
		recorder: recorder,
	}
	service.alive.Store(true)

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Codec:    auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Verifier: auth.NewVerifier(db),
		Recorder: recorder,
		Notifier: notify.LogNotifier{},
	}

	for _, h := range []handler.Service{
		&health.Handler,
		&login.Handler,
		&logout.Handler,
		&user.Handler,
		&company.Handler,
		&investoradmin.Handler,
		&investorform.Handler,
	} {
		if err := h.Init(app, deps); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize web handler")
		}
	}

	return service
}

func rateLimit(cfg *config.Config) int {
	if cfg.Webserver.RateLimit > 0 {
		return cfg.Webserver.RateLimit
	}

	return defaultRateLimit
}
