package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler/dashboard"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler/login"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/session"
)

// AuthMiddleware is a Fiber middleware that checks for an authenticated
// session and redirects anonymous requests to the login page. The login,
// Entra flow, logout, static and health paths stay reachable without a
// session.
func AuthMiddleware(c *fiber.Ctx) error {
	var (
		isLoginPage   = IsLoginPage(c)
		sessDataValid bool
	)

	originalURL := strings.ToLower(c.OriginalURL())
	for _, open := range []string{"/static", "/auth/entra", "/logout", "/checkalive"} {
		if strings.HasPrefix(originalURL, open) {
			return c.Next()
		}
	}

	// get session cookie
	loginCookie := c.Cookies("session")

	// if no session cookie, redirect to login page
	if loginCookie == "" && !isLoginPage {
		return c.Redirect(login.Path)
	}

	// check session validity
	sessData := new(session.Data)
	if err := sessData.Read(loginCookie); err != nil && !isLoginPage {
		return c.Redirect(login.Path)
	}

	if sessData.Valid() {
		sessDataValid = true
	}

	if sessDataValid && isLoginPage {
		return c.Redirect(dashboard.Path)
	}

	if !sessDataValid && !isLoginPage {
		return c.Redirect(login.Path)
	}

	return c.Next()
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, login.Path)
}
