// Package daemon wires configuration, database, audit recording and the web
// service into one runnable process.
package daemon

import (
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/audit"
	"github.com/leadengine/leadengine/internal/config"
	"github.com/leadengine/leadengine/internal/db/dsn"
	"github.com/leadengine/leadengine/internal/db/models"
	"github.com/leadengine/leadengine/internal/geo"
	"github.com/leadengine/leadengine/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start(addr string) error {
	return d.webService.Start(addr)
}

// WaitShutdown blocks until the web service shut down.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Investor{},
		&models.Lead{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	recorder := audit.NewRecorder(db, geo.NewResolver(cfg.Geo))

	return &Daemon{
		webService: web.New(cfg, db, recorder),
	}
}

func openDialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case "postgres":
		return gormpostgres.Open(dsn.Create(cfg))
	case "sqlite":
		return sqlite.Open(cfg.DB.Name)
	default:
		return gormmysql.Open(dsn.Create(cfg))
	}
}
