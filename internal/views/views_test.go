package views

import (
	"bytes"
	"testing"

	"blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, name string, page *Page) string {
	t.Helper()
	engine, err := NewEngine()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, name, page, Layout))
	return buf.String()
}

func TestSanitize(t *testing.T) {
	out := string(Sanitize(`<p onclick="x()">Hi<script>alert(1)</script> <a href="javascript:evil()">l</a></p>`))
	assert.Contains(t, out, "<p>Hi")
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript:")
}

func TestGravatar(t *testing.T) {
	// md5("test@example.com")
	assert.Equal(t,
		"https://www.gravatar.com/avatar/55502f40dc8b7c769880b10874abc9d0?s=100&d=retro&r=g",
		Gravatar("  Test@Example.com "))
}

func TestRender_Index(t *testing.T) {
	out := render(t, "index", &Page{
		Posts: []models.Post{
			{ID: 1, Title: "First", Subtitle: "Sub", AuthorName: "Angela", Date: "March 04, 2024"},
			{ID: 2, Title: "Second", Author: models.User{Name: "Fallback"}},
		},
		Year: 2024,
	})

	assert.Contains(t, out, `href="/show_post/1"`)
	assert.Contains(t, out, "Posted by Angela on March 04, 2024")
	assert.Contains(t, out, "Posted by Fallback")
	assert.NotContains(t, out, "Create New Post")
	assert.Contains(t, out, `href="/login"`)
}

func TestRender_IndexAdmin(t *testing.T) {
	admin := &models.User{ID: 1, Name: "Admin", IsAdmin: true}
	out := render(t, "index", &Page{CurrentUser: admin, IsAdmin: true})
	assert.Contains(t, out, "Create New Post")
	assert.Contains(t, out, "No posts yet.")
	assert.Contains(t, out, "Log Out")
}

func TestRender_PostSanitizesBodyAndComments(t *testing.T) {
	out := render(t, "post", &Page{
		Post: &models.Post{
			ID:    3,
			Title: "Hello",
			Body:  `<p>Safe</p><script>alert("x")</script>`,
			Comments: []models.Comment{
				{Body: `<b>nice</b><img src=x onerror=alert(1)>`, User: models.User{Name: "Reader", Email: "r@example.com"}},
			},
		},
		CSRFToken: "tok",
	})

	assert.Contains(t, out, "<p>Safe</p>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<b>nice</b>")
	assert.NotContains(t, out, "onerror")
	assert.Contains(t, out, "gravatar.com/avatar/")
	assert.Contains(t, out, `value="tok"`)
	assert.NotContains(t, out, "Edit Post")
}

func TestRender_LoginPrefill(t *testing.T) {
	out := render(t, "login", &Page{
		Error: "You already have an account, kindly login.",
		Form:  map[string]string{"email": "a@example.com"},
	})
	assert.Contains(t, out, "You already have an account, kindly login.")
	assert.Contains(t, out, `value="a@example.com"`)
}

func TestRender_MakePostEdit(t *testing.T) {
	out := render(t, "make-post", &Page{
		IsEdit: true,
		Post:   &models.Post{ID: 8},
		Form:   map[string]string{"title": "T", "author": "Guest"},
	})
	assert.Contains(t, out, `action="/edit_post/8"`)
	assert.Contains(t, out, `name="author" value="Guest"`)
}

func TestRender_Error(t *testing.T) {
	out := render(t, "error", &Page{Status: 404, Error: "Post with ID 9 not found"})
	assert.Contains(t, out, "404")
	assert.Contains(t, out, "Post with ID 9 not found")
}
