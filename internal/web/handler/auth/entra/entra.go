// Package entra implements the Entra ID (OIDC) login flow: redirect to the
// provider, handle the callback, run permission initialization and establish
// the session.
package entra

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/audit"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/config"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/uniuri"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler/login"
)

const (
	// LoginPath is the path to initiate the Entra login.
	LoginPath = handler.RootPath + "auth/entra/login"

	// CallbackPath is the path for the Entra callback.
	CallbackPath = handler.RootPath + "auth/entra/callback"

	// LogoutPath is the path for the Entra logout.
	LogoutPath = handler.RootPath + "auth/entra/logout"

	stateTokenLength = 32
	stateTokenTTL    = 5 * time.Minute
)

// Service is the Entra handler service.
type Service struct {
	handler.Service
	cfg          *config.Config
	db           *gorm.DB
	client       *safeq.Client
	recorder     *audit.Recorder
	oidcProvider *auth.OIDCProvider

	stateMu    sync.Mutex
	stateStore map[string]time.Time
}

// Handler is the Entra handler.
var Handler = Service{
	stateStore: make(map[string]time.Time),
}

// Init initializes the Entra handler.
func (s *Service) Init(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	client *safeq.Client,
	recorder *audit.Recorder,
) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.client = client
	s.recorder = recorder

	if !cfg.Auth.Entra.Enabled {
		log.Info().Msg("Entra authentication is disabled by configuration")
		return
	}

	oidcConfig := auth.OIDCConfig{
		Enabled:      cfg.Auth.Entra.Enabled,
		ProviderURL:  cfg.Auth.Entra.ProviderURL,
		ClientID:     cfg.Auth.Entra.ClientID,
		ClientSecret: cfg.Auth.Entra.ClientSecret,
		RedirectURL:  cfg.Auth.Entra.RedirectURL,
		Scopes:       cfg.Auth.Entra.Scopes,
		GroupsClaim:  cfg.Auth.Entra.GroupsClaim,
	}

	oidcProvider, err := auth.NewOIDCProvider(context.Background(), &oidcConfig)
	if err != nil {
		if errors.Is(err, auth.ErrOIDCDisabled) {
			log.Info().Msg("Entra authentication is disabled by configuration")
		} else {
			log.Warn().Err(err).Msg("failed to initialize Entra provider, Entra login will be unavailable")
		}

		return
	}

	s.oidcProvider = oidcProvider

	log.Info().Msg("Entra authentication provider initialized")

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)
	app.Get(LogoutPath, s.Logout)

	go s.cleanupStates()
}

// Login initiates the Entra login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	if s.oidcProvider == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("Entra authentication is not available")
	}

	state := uniuri.NewLen(stateTokenLength)

	s.stateMu.Lock()
	s.stateStore[state] = time.Now().Add(stateTokenTTL)
	s.stateMu.Unlock()

	return c.Redirect(s.oidcProvider.GetAuthURL(state))
}

// Callback handles the Entra callback: verify state, exchange the code, then
// run permission initialization. A failed permission record is audited and
// rendered on the login page with the record's error message.
func (s *Service) Callback(c *fiber.Ctx) error {
	if s.oidcProvider == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("Entra authentication is not available")
	}

	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		log.Error().Msg("missing code or state in Entra callback")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid callback parameters")
	}

	if !s.consumeState(state) {
		log.Error().Msg("invalid or expired state token in Entra callback")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid state token")
	}

	info, groups, err := s.oidcProvider.HandleCallback(c.UserContext(), code)
	if err != nil {
		log.Error().Err(err).Msg("Entra authentication failed")
		return c.Status(fiber.StatusUnauthorized).SendString("Authentication failed")
	}

	record := auth.InitializePermissions(c.UserContext(), s.client, info, groups,
		auth.InitializerConfig{
			RoleGroups:    s.cfg.AuthRoleGroups(),
			LocalProvider: s.cfg.SafeQ.LocalProvider,
		})

	s.recorder.Record(audit.ActionLoginEntra, record.ExternalUsername,
		string(auth.SourceEntra), record.Success, record.ErrorMessage, c.IP())

	if !record.Success {
		log.Warn().
			Str("user", record.ExternalUsername).
			Str("reason", record.ErrorMessage).
			Msg("Entra login denied")

		return c.Render(login.TemplateName, fiber.Map{
			"entra_enabled": true,
			"error":         record.ErrorMessage,
		})
	}

	if err = handler.EstablishSession(c, s.cfg, record); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	log.Info().
		Str("user", record.ExternalUsername).
		Str("role", string(record.Role)).
		Msg("user logged in via Entra")

	return c.Redirect("/dashboard")
}

// Logout clears the session cookie and redirects to the provider's logout
// endpoint when it has one.
func (s *Service) Logout(c *fiber.Ctx) error {
	c.ClearCookie("session")

	if s.oidcProvider != nil {
		if logoutURL := s.oidcProvider.GetLogoutURL("", s.cfg.Webserver.URL); logoutURL != "" {
			return c.Redirect(logoutURL)
		}
	}

	return c.Redirect(login.Path)
}

// consumeState validates a state token and removes it so it cannot be replayed.
func (s *Service) consumeState(state string) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	expiration, exists := s.stateStore[state]
	delete(s.stateStore, state)

	return exists && time.Now().Before(expiration)
}

// cleanupStates periodically removes expired state tokens.
func (s *Service) cleanupStates() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		s.stateMu.Lock()
		for state, expiration := range s.stateStore {
			if now.After(expiration) {
				delete(s.stateStore, state)
			}
		}
		s.stateMu.Unlock()
	}
}
