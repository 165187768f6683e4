// Package groups lists SafeQ groups filtered by the session's department scope.
package groups

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
	// Path is the path for the group listing.
	Path = handler.RootPath + "groups"

	// TemplateList is the template for listing groups.
	TemplateList = "groups/list"
)

// Service provides the SafeQ group listing handler.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	client *safeq.Client
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
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
		s.List,
	)
}

// List renders the groups visible to the session scope. Department groups
// are marked so the template can show which rows scope other listings.
func (s *Service) List(c *fiber.Ctx) error {
	record, _ := authmw.Record(c)

	groups, err := s.client.Groups(c.UserContext(), s.cfg.SafeQ.LocalProvider, s.cfg.SafeQ.MaxRecords)
	if err != nil {
		log.Error().Err(err).Msg("failed to list groups")
		groups = nil
	}

	visible := auth.FilterGroups(groups, record.Scope)

	type row struct {
		safeq.Group
		IsDepartment bool
	}

	rows := make([]row, 0, len(visible))
	for _, g := range visible {
		rows = append(rows, row{Group: g, IsDepartment: auth.IsDepartment(g.Name)})
	}

	nav := navigation.NewContext("Groups", "groups", "groups").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Groups", Path, true).
		WithItems(record.Role)

	return c.Render(TemplateList, fiber.Map{
		"nav":    nav,
		"record": record,
		"groups": rows,
	}, handler.BaseLayout)
}
