// Package validation checks submitted forms before they reach the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"blog/internal/models"

	"github.com/go-playground/validator/v10"
)

// RegisterForm is the account sign-up form.
type RegisterForm struct {
	Email    string `form:"email" validate:"required,email,max=100"`
	Password string `form:"password" validate:"required,max=72"`
	Name     string `form:"name" validate:"required,max=100"`
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// PostForm is used by both the new-post and edit-post pages. Author is only
// shown when editing.
type PostForm struct {
	Title    string `form:"title" validate:"required,max=250"`
	Subtitle string `form:"subtitle" validate:"required,max=250"`
	ImageURL string `form:"img_url" validate:"omitempty,url,max=250"`
	Author   string `form:"author" validate:"max=100"`
	Body     string `form:"body" validate:"required"`
}

// CommentForm is the reply box under a post.
type CommentForm struct {
	Comment string `form:"comment" validate:"required"`
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Normalize trims surrounding whitespace from every text field of form and
// lower-cases email addresses.
func (f *RegisterForm) Normalize() {
	f.Email = NormalizeEmail(f.Email)
	f.Name = strings.TrimSpace(f.Name)
}

// Normalize lower-cases the email address.
func (f *LoginForm) Normalize() {
	f.Email = NormalizeEmail(f.Email)
}

// Normalize trims the single-line fields of the form.
func (f *PostForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Subtitle = strings.TrimSpace(f.Subtitle)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	f.Author = strings.TrimSpace(f.Author)
}

// Normalize drops a comment that is only whitespace.
func (f *CommentForm) Normalize() {
	if strings.TrimSpace(f.Comment) == "" {
		f.Comment = ""
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Struct validates form and returns a ValidationError describing the first
// failing field.
func Struct(form any) error {
	err := instance().Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return models.NewValidationError("Invalid form submission")
	}
	return models.NewValidationError(message(verrs[0]))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label(field))
	case "email":
		return "Please enter a valid email address."
	case "url":
		return fmt.Sprintf("%s must be a valid URL.", label(field))
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label(field), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", label(field))
	}
}

func label(field string) string {
	switch field {
	case "img_url":
		return "Image URL"
	case "":
		return "Field"
	default:
		return strings.ToUpper(field[:1]) + field[1:]
	}
}
