package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/teacher-portal-api/internal/service"
	"github.com/campusworks/teacher-portal-api/internal/utils"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "portal_session"

// RequireSession resolves the session cookie and binds the teacher record to
// the request. Requests without a live session are rejected.
func RequireSession(sessions service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		session, err := sessions.Resolve(c.UserContext(), token)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "session expired or invalid")
		}

		c.Locals("session_id", session.ID)
		c.Locals("teacher", session.Teacher)

		return c.Next()
	}
}
