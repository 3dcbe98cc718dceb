package server

import (
	"errors"
	"log/slog"

	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/service"
	"blog/internal/views"

	"github.com/gofiber/fiber/v2"
)

const userLocalsKey = "user"

// currentUser returns the signed-in user resolved by Identity, or nil.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}

// parseID extracts a route parameter as a positive uint. Anything else is a
// NotFoundError, since no post can have that id.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, models.NewNotFoundError("Post", c.Params(param))
	}
	return uint(id), nil
}

// page returns template data carrying the request's identity and CSRF token.
func (s *Server) page(c *fiber.Ctx, title string) *views.Page {
	user := currentUser(c)
	token, _ := c.Locals(csrfContextKey).(string)
	return &views.Page{
		Title:       title,
		CurrentUser: user,
		IsAdmin:     service.IsAdministrator(user),
		CSRFToken:   token,
		Form:        map[string]string{},
		Year:        views.CurrentYear(),
	}
}

// render writes the named template with status.
func (s *Server) render(c *fiber.Ctx, status int, name string, p *views.Page) error {
	return c.Status(status).Render(name, p)
}

// renderError renders the error page for err with the status its code maps to.
func (s *Server) renderError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	p := s.page(c, "Error")
	p.Status = status
	p.Error = models.PublicMessage(err)
	if renderErr := s.render(c, status, "error", p); renderErr != nil {
		return c.Status(status).SendString(p.Error)
	}
	return nil
}

// errorHandler turns anything a handler returns into a rendered page.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		p := s.page(c, "Error")
		p.Status = fiberErr.Code
		p.Error = fiberErr.Message
		if renderErr := s.render(c, fiberErr.Code, "error", p); renderErr != nil {
			return c.Status(fiberErr.Code).SendString(fiberErr.Message)
		}
		return nil
	}
	return s.renderError(c, err)
}
