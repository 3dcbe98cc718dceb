// Package views renders the blog's HTML pages from embedded templates.
package views

import (
	"crypto/md5"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"blog/internal/models"

	"github.com/gofiber/template/html/v2"
	"github.com/microcosm-cc/bluemonday"
)

// Layout is the template every page renders inside.
const Layout = "layouts/main"

//go:embed templates
var templateFS embed.FS

var policy = bluemonday.UGCPolicy()

// Page is the data handed to every template.
type Page struct {
	Title       string
	CurrentUser *models.User
	IsAdmin     bool
	CSRFToken   string
	Error       string
	Notice      string
	Form        map[string]string
	Posts       []models.Post
	Post        *models.Post
	IsEdit      bool
	Status      int
	Year        int
}

// NewEngine returns a template engine over the embedded templates.
func NewEngine() (*html.Engine, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("open embedded templates: %w", err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("sanitize", Sanitize)
	engine.AddFunc("gravatar", Gravatar)
	return engine, nil
}

// Sanitize strips markup that is unsafe in user-generated content and marks
// the remainder as trusted HTML.
func Sanitize(s string) template.HTML {
	return template.HTML(policy.Sanitize(s)) //nolint:gosec // sanitized above
}

// Gravatar returns the avatar URL for email at 100px, rated g, with the retro fallback.
func Gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email)))) //nolint:gosec // gravatar addressing, not security
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=100&d=retro&r=g"
}

// CurrentYear is used by the footer.
func CurrentYear() int {
	return time.Now().Year()
}
