// Package documents lists print jobs filtered by the session's department scope.
package documents

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
	// Path is the path for the document listing.
	Path = handler.RootPath + "documents"

	// TemplateList is the template for listing documents.
	TemplateList = "documents/list"
)

// Service provides the print-document listing handler.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	client *safeq.Client
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. Viewers cannot see documents; inspection starts at
// the support role.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, client *safeq.Client) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.client = client

	app.Get(Path,
		authmw.RequireRole(auth.RoleSupport, auth.RoleAdmin, auth.RoleSuperAdmin),
		s.List,
	)
}

// List renders the documents visible to the session scope.
func (s *Service) List(c *fiber.Ctx) error {
	record, _ := authmw.Record(c)

	docs, err := s.client.Documents(c.UserContext(), s.cfg.SafeQ.MaxRecords)
	if err != nil {
		log.Error().Err(err).Msg("failed to list documents")
		docs = nil
	}

	nav := navigation.NewContext("Documents", "documents", "documents").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Documents", Path, true).
		WithItems(record.Role)

	return c.Render(TemplateList, fiber.Map{
		"nav":       nav,
		"record":    record,
		"documents": auth.FilterDocuments(docs, record.Scope),
	}, handler.BaseLayout)
}
