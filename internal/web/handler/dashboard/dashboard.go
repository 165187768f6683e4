// Package dashboard renders the landing page: counts of the users, groups
// and documents visible to the session's department scope.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/config"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler"
	authmw "github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/middleware/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	client *safeq.Client
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, client *safeq.Client) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.client = client

	app.Get(Path,
		authmw.RequireRole(auth.RoleViewer, auth.RoleSupport, auth.RoleAdmin, auth.RoleSuperAdmin),
		s.Get,
	)
}

// Get handles the dashboard page rendering. Backend listing failures degrade
// to zero counts; the dashboard never hard-fails on a backend outage.
func (s *Service) Get(c *fiber.Ctx) error {
	record, _ := authmw.Record(c)

	nav := navigation.NewContext("Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true).
		WithItems(record.Role)

	ctx := c.UserContext()
	maxRecords := s.cfg.SafeQ.MaxRecords

	users, err := s.client.Users(ctx, s.cfg.SafeQ.LocalProvider, maxRecords)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users for dashboard")
	}

	groups, err := s.client.Groups(ctx, s.cfg.SafeQ.LocalProvider, maxRecords)
	if err != nil {
		log.Error().Err(err).Msg("failed to list groups for dashboard")
	}

	docs, err := s.client.Documents(ctx, maxRecords)
	if err != nil {
		log.Error().Err(err).Msg("failed to list documents for dashboard")
	}

	return c.Render(TemplateName, fiber.Map{
		"nav":           nav,
		"record":        record,
		"userCount":     len(auth.FilterUsers(users, record.Scope)),
		"groupCount":    len(auth.FilterGroups(groups, record.Scope)),
		"documentCount": len(auth.FilterDocuments(docs, record.Scope)),
	}, handler.BaseLayout)
}
