// Package auditlog renders the recorded console events for superadmins.
package auditlog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/audit"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/config"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler"
	authmw "github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/middleware/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/navigation"
)

const (
	// Path is the path for the audit log page.
	Path = handler.RootPath + "audit"

	// TemplateList is the audit log template.
	TemplateList = "audit/list"

	// recentLimit bounds how many events the page shows.
	recentLimit = 200
)

// Service provides the audit log handler.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	recorder *audit.Recorder
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, recorder *audit.Recorder) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.recorder = recorder

	app.Get(Path, authmw.RequireRole(auth.RoleSuperAdmin), s.List)
}

// List renders the most recent audit events.
func (s *Service) List(c *fiber.Ctx) error {
	record, _ := authmw.Record(c)

	events, err := s.recorder.Recent(recentLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load audit events")
		events = nil
	}

	nav := navigation.NewContext("Audit Log", "audit", "audit").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Audit", Path, true).
		WithItems(record.Role)

	return c.Render(TemplateList, fiber.Map{
		"nav":    nav,
		"record": record,
		"events": events,
	}, handler.BaseLayout)
}
