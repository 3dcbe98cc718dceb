package server

import (
	"blog/internal/middleware"
	"blog/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Identity resolves the session cookie and loads the signed-in user. An
// invalid token or a deleted account leaves the request anonymous.
func (s *Server) Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := s.sessions.FromRequest(c)
		if !ok {
			return c.Next()
		}

		user, err := s.authService.CurrentUser(c.UserContext(), userID)
		if err != nil {
			return err
		}
		if user != nil {
			c.Locals(userLocalsKey, user)
			c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))
		}
		return c.Next()
	}
}

// AdminRequired rejects every caller except the administrator with a bare 403.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !service.IsAdministrator(currentUser(c)) {
			middleware.Forbidden.Inc()
			return c.Status(fiber.StatusForbidden).SendString("Forbidden")
		}
		return c.Next()
	}
}
