package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/outdecked/outdecked/backend/handlers"
	"github.com/outdecked/outdecked/backend/utils"
	appconfig "github.com/outdecked/outdecked/outdecked/config"
)

// AuthRequired middleware ensures the user is authenticated
func AuthRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := webApp.GetSession(c)
		if err != nil {
			slog.Debug("Auth required: no valid session", slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Authentication required")
		}

		if session == nil || session.UserID == 0 {
			slog.Debug("Auth required: invalid session")
			return utils.SendUnauthorized(c, "Authentication required")
		}

		// Sliding expiry: re-sign the cookie once a session has burned
		// through half its lifetime.
		if time.Until(session.ExpiresAt) < appconfig.SessionTimeout/2 {
			if err := webApp.SessionService.RefreshSession(c, session); err != nil {
				slog.Warn("Session refresh failed", slog.String("error", err.Error()))
			}
		}

		c.Locals("user", session)
		return c.Next()
	}
}

// AdminRequired middleware ensures the user has admin privileges
func AdminRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			slog.Warn("Admin required: no user in context")
			return utils.SendForbidden(c, "Access denied")
		}

		if !utils.IsAdmin(c) {
			slog.Warn("Admin required: user lacks admin privileges",
				slog.Int64("user_id", session.UserID),
				slog.String("username", session.Username))
			return utils.SendForbidden(c, "Admin access required")
		}

		return c.Next()
	}
}

// OptionalAuth adds user info to context if authenticated, but doesn't require it
func OptionalAuth(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := webApp.GetSession(c)
		if err == nil && session != nil && session.UserID != 0 {
			c.Locals("user", session)
		}
		return c.Next()
	}
}
