package daemon

import (
	"fmt"
	"time"

	"github.com/gofiber/storage"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/config"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/db/dsn"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/db/models"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	var dbDriver gorm.Dialector
	if cfg.DB.GormEngine == "postgres" {
		dbDriver = gormpostgres.Open(dsn.Create(cfg))
	} else {
		dbDriver = gormmysql.Open(dsn.Create(cfg))
	}

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.AuditEvent{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	session.Init(newSessionStorage(cfg))

	client := safeq.New(safeq.Config{
		ServerURL: cfg.SafeQ.ServerURL,
		APIKey:    cfg.SafeQ.APIKey,
		Timeout:   time.Duration(cfg.SafeQ.TimeoutSeconds) * time.Second,
	})

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, client),
	}
}

// newSessionStorage creates the fiber session store backend matching the
// configured GormEngine, so sessions land next to the console tables.
func newSessionStorage(cfg *config.Config) storage.Storage {
	if cfg.DB.GormEngine == "postgres" {
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}

	return sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})
}
