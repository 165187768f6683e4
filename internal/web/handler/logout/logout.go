// Package logout terminates the session and returns the user to the login page.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/audit"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/config"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler"
	authmw "github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/middleware/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/session"
)

// Path is the logout path.
const Path = "/logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	recorder *audit.Recorder
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, recorder *audit.Recorder) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app or db is nil")
	}

	s.cfg = cfg
	s.db = db
	s.recorder = recorder

	app.Get(Path, s.Get)

	return nil
}

// Get removes the server-side session, clears the cookie and redirects to
// the login page. Entra sessions additionally go through the provider logout
// under /auth/entra/logout.
func (s *Service) Get(c *fiber.Ctx) error {
	sessionID := c.Cookies(authmw.SessionCookie)
	if sessionID != "" {
		sessData := new(session.Data)
		if err := sessData.Read(sessionID); err == nil && sessData.Valid() {
			s.recorder.Record(audit.ActionLogout, sessData.Record.ExternalUsername,
				string(sessData.Record.Source), true, "", c.IP())

			if sessData.Record.Source == auth.SourceEntra {
				_ = sessData.Delete(sessionID)
				return c.Redirect("/auth/entra/logout")
			}
		}

		_ = sessData.Delete(sessionID)
	}

	c.ClearCookie(authmw.SessionCookie)

	return c.Redirect("/login")
}
