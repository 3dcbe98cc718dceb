package server

import (
	"log/slog"

	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/service"
	"blog/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RegisterPage handles GET /register
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "register", s.page(c, "Register"))
}

// Register handles POST /register
func (s *Server) Register(c *fiber.Ctx) error {
	var form validation.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return s.registerFailed(c, form, models.NewValidationError("Invalid form submission"))
	}
	form.Normalize()
	if err := validation.Struct(&form); err != nil {
		return s.registerFailed(c, form, err)
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Email:    form.Email,
		Password: form.Password,
		Name:     form.Name,
	})
	if err != nil {
		if models.HasCode(err, models.CodeDuplicate) {
			middleware.AuthEvents.WithLabelValues("register", "duplicate").Inc()
			p := s.page(c, "Login")
			p.Error = models.PublicMessage(err)
			p.Form["email"] = form.Email
			return s.render(c, fiber.StatusConflict, "login", p)
		}
		return s.registerFailed(c, form, err)
	}

	if err := s.sessions.Login(c, user.ID); err != nil {
		return models.NewInternalError(err)
	}
	middleware.AuthEvents.WithLabelValues("register", "success").Inc()
	return c.Redirect("/")
}

func (s *Server) registerFailed(c *fiber.Ctx, form validation.RegisterForm, err error) error {
	if !models.HasCode(err, models.CodeValidation) {
		return err
	}
	middleware.AuthEvents.WithLabelValues("register", "invalid").Inc()
	p := s.page(c, "Register")
	p.Error = models.PublicMessage(err)
	p.Form["email"] = form.Email
	p.Form["name"] = form.Name
	return s.render(c, fiber.StatusBadRequest, "register", p)
}

// LoginPage handles GET /login. ?notice=comment explains a bounced comment.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	p := s.page(c, "Login")
	if c.Query("notice") == "comment" {
		p.Notice = service.LoginToCommentMessage
	}
	return s.render(c, fiber.StatusOK, "login", p)
}

// Login handles POST /login
func (s *Server) Login(c *fiber.Ctx) error {
	p := s.page(c, "Login")

	var form validation.LoginForm
	if err := c.BodyParser(&form); err != nil {
		middleware.AuthEvents.WithLabelValues("login", "invalid").Inc()
		p.Error = "Invalid form submission"
		return s.render(c, fiber.StatusBadRequest, "login", p)
	}
	form.Normalize()
	p.Form["email"] = form.Email

	if err := validation.Struct(&form); err != nil {
		middleware.AuthEvents.WithLabelValues("login", "invalid").Inc()
		p.Error = models.PublicMessage(err)
		return s.render(c, fiber.StatusBadRequest, "login", p)
	}

	user, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		if !models.HasCode(err, models.CodeUnauthorized) {
			return err
		}
		middleware.AuthEvents.WithLabelValues("login", "rejected").Inc()
		p.Error = models.PublicMessage(err)
		return s.render(c, fiber.StatusUnauthorized, "login", p)
	}

	if err := s.sessions.Login(c, user.ID); err != nil {
		return models.NewInternalError(err)
	}
	middleware.AuthEvents.WithLabelValues("login", "success").Inc()
	return c.Redirect("/")
}

// Logout handles GET /logout
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Logout(c); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session revocation failed", slog.String("error", err.Error()))
	}
	middleware.AuthEvents.WithLabelValues("logout", "success").Inc()
	return c.Redirect("/")
}
