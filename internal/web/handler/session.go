package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/config"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/session"
)

// EstablishSession stores the permission record in a fresh session and sets
// the session cookie on the response. Used by all three login paths.
func EstablishSession(c *fiber.Ctx, cfg *config.Config, record auth.PermissionRecord) error {
	sessionID := session.GenerateSessionID()

	sessData := &session.Data{Record: record}
	if err := sessData.Write(sessionID, cfg.Webserver.Session.ExpiryTime); err != nil {
		return err
	}

	cookie := &fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		MaxAge:   int(cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if cfg.DevMode {
		cookie.Secure = false
	}

	c.Cookie(cookie)

	return nil
}
