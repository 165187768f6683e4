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
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/audit"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/config"
	fiberlogger "github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/logger/adapter/fiber"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler/auditlog"
	entrahandler "github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler/auth/entra"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler/dashboard"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler/documents"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler/groups"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler/login"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler/logout"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler/reports"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler/users"
)

// CheckAlivePath is the health check path used by load balancers.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	client       *safeq.Client
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

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, client *safeq.Client) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	// access log middleware
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	// session auth middleware
	app.Use(AuthMiddleware)

	recorder := audit.NewRecorder(db)

	// init web service
	service := &Service{
		cfg:      cfg,
		App:      app,
		db:       db,
		client:   client,
		recorder: recorder,
	}
	service.alive.Store(true)

	// init handlers (they register their own routes with role checks)
	if err := login.Handler.Init(app, cfg, db, client, recorder); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	entrahandler.Handler.Init(app, cfg, db, client, recorder)

	if err := logout.Handler.Init(app, cfg, db, recorder); err != nil {
		log.Fatal().Err(err).Msg("failed to init logout handler")
	}

	dashboard.Handler.Init(app, cfg, db, client)
	users.Handler.Init(app, cfg, db, client, recorder)
	groups.Handler.Init(app, cfg, db, client)
	documents.Handler.Init(app, cfg, db, client)
	reports.Handler.Init(app, cfg, db, client)
	auditlog.Handler.Init(app, cfg, db, recorder)

	// health check for load balancers
	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	// redirect root to dashboard
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service
}
