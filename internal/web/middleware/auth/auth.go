// Package auth provides Fiber middleware gating routes on the session's
// permission record.
package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/session"
)

// recordLocalsKey is the fiber.Locals key holding the session's permission record.
const recordLocalsKey = "PermissionRecord"

// SessionCookie is the name of the session cookie.
const SessionCookie = "session"

// Record returns the permission record of the request's session. The boolean
// is false when no authenticated session exists.
func Record(c *fiber.Ctx) (auth.PermissionRecord, bool) {
	if rec, ok := c.Locals(recordLocalsKey).(auth.PermissionRecord); ok && rec.Success {
		return rec, true
	}

	sessionID := c.Cookies(SessionCookie)
	if sessionID == "" {
		return auth.PermissionRecord{}, false
	}

	sessData := new(session.Data)
	if err := sessData.Read(sessionID); err != nil || !sessData.Valid() {
		return auth.PermissionRecord{}, false
	}

	c.Locals(recordLocalsKey, sessData.Record)

	return sessData.Record, true
}

// RequireRole creates middleware that requires the session role to be one of
// the given roles.
func RequireRole(roles ...auth.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec, ok := Record(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		for _, r := range roles {
			if rec.Role == r {
				return c.Next()
			}
		}

		log.Warn().
			Str("user", rec.ExternalUsername).
			Str("role", string(rec.Role)).
			Str("path", c.Path()).
			Msg("session role not allowed for route")

		return c.Status(fiber.StatusForbidden).
			SendString("Forbidden: your role does not allow access to this resource")
	}
}

// RequireAuthenticated creates middleware that only requires an established
// session, regardless of role.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := Record(c); !ok {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		return c.Next()
	}
}
