// Package login renders the login page and handles the emergency local and
// cloud-local (card id) login paths. The Entra flow lives under handler/auth/entra.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/audit"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/config"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// CloudPath is the path of the cloud-local (card id) login form.
	CloudPath = Path + "/cloud"

	// TemplateName is the login page template.
	TemplateName = "login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	client   *safeq.Client
	recorder *audit.Recorder
	local    *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	client *safeq.Client,
	recorder *audit.Recorder,
) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app or db is nil")
	}

	s.db = db
	s.cfg = cfg
	s.client = client
	s.recorder = recorder
	s.local = auth.NewLocalProvider(db)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.PostEmergency)
		router.Post("/cloud", s.PostCloud)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, s.viewData(""))
}

// PostEmergency handles the emergency local credential form.
func (s *Service) PostEmergency(c *fiber.Ctx) error {
	if !s.cfg.Auth.Emergency.Enabled {
		return c.Status(fiber.StatusForbidden).SendString("Emergency login is disabled")
	}

	var form struct {
		Username string `form:"username"`
		Password string `form:"password"`
	}

	if err := c.BodyParser(&form); err != nil {
		return err
	}

	record, err := s.local.Authenticate(form.Username, form.Password)
	if err != nil {
		s.recorder.Record(audit.ActionLoginEmergency, form.Username,
			string(auth.SourceEmergency), false, err.Error(), c.IP())

		return c.Render(TemplateName, s.viewData("Invalid username or password"))
	}

	if err := handler.EstablishSession(c, s.cfg, record); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return c.Render(TemplateName, s.viewData("Internal server error"))
	}

	s.recorder.Record(audit.ActionLoginEmergency, form.Username,
		string(auth.SourceEmergency), true, "", c.IP())

	log.Info().Str("user", form.Username).Msg("emergency login succeeded")

	return c.Redirect("/dashboard")
}

// PostCloud handles the cloud-local card id form.
func (s *Service) PostCloud(c *fiber.Ctx) error {
	if !s.cfg.Auth.CloudLocal.Enabled {
		return c.Status(fiber.StatusForbidden).SendString("Cloud-local login is disabled")
	}

	var form struct {
		Username string `form:"username"`
		CardID   string `form:"cardid"`
	}

	if err := c.BodyParser(&form); err != nil {
		return err
	}

	record := auth.AuthenticateCloudLocal(c.UserContext(), s.client, form.Username, form.CardID,
		auth.FallbackConfig{
			LocalProvider: s.cfg.SafeQ.LocalProvider,
			RequiredGroup: s.cfg.Auth.CloudLocal.RequiredGroup,
		})

	s.recorder.Record(audit.ActionLoginCloudLocal, form.Username,
		string(auth.SourceCloudLocal), record.Success, record.ErrorMessage, c.IP())

	if !record.Success {
		return c.Render(TemplateName, s.viewData(record.ErrorMessage))
	}

	if err := handler.EstablishSession(c, s.cfg, record); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return c.Render(TemplateName, s.viewData("Internal server error"))
	}

	log.Info().Str("user", form.Username).Msg("cloud-local login succeeded")

	return c.Redirect("/reports")
}

func (s *Service) viewData(errorMessage string) fiber.Map {
	data := fiber.Map{
		"entra_enabled":       s.cfg.Auth.Entra.Enabled,
		"emergency_enabled":   s.cfg.Auth.Emergency.Enabled,
		"cloud_local_enabled": s.cfg.Auth.CloudLocal.Enabled,
		"title":               s.cfg.Title,
	}

	if errorMessage != "" {
		data["error"] = errorMessage
	}

	return data
}
