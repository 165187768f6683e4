// Package reports renders per-department usage counts. It is the one page
// the school_manager role exists for, and is reachable by every role.
package reports

import (
	"sort"

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
	// Path is the path for the reports page.
	Path = handler.RootPath + "reports"

	// TemplateName is the reports template.
	TemplateName = "reports/reports"
)

// Row is one department line of the usage report.
type Row struct {
	Department string
	Documents  int
	Pages      int
}

// Service provides the usage report handler.
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

	app.Get(Path, authmw.RequireAuthenticated(), s.Get)
}

// Get renders per-department document and page counts over the documents
// visible to the session scope.
func (s *Service) Get(c *fiber.Ctx) error {
	record, _ := authmw.Record(c)

	docs, err := s.client.Documents(c.UserContext(), s.cfg.SafeQ.MaxRecords)
	if err != nil {
		log.Error().Err(err).Msg("failed to list documents for report")
		docs = nil
	}

	rows := Aggregate(auth.FilterDocuments(docs, record.Scope))

	nav := navigation.NewContext("Reports", "reports", "reports").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Reports", Path, true).
		WithItems(record.Role)

	return c.Render(TemplateName, fiber.Map{
		"nav":    nav,
		"record": record,
		"rows":   rows,
	}, handler.BaseLayout)
}

// Aggregate sums documents and pages per department, sorted by department name.
func Aggregate(docs []safeq.Document) []Row {
	byDept := make(map[string]*Row)

	for _, d := range docs {
		row, ok := byDept[d.Department]
		if !ok {
			row = &Row{Department: d.Department}
			byDept[d.Department] = row
		}

		row.Documents++
		row.Pages += d.Pages
	}

	rows := make([]Row, 0, len(byDept))
	for _, r := range byDept {
		rows = append(rows, *r)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Department < rows[j].Department
	})

	return rows
}
