// Package service holds the blog's business flows: accounts, posts and comments.
package service

import (
	"blog/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IsAdministrator reports whether user may author and edit posts.
func IsAdministrator(user *models.User) bool {
	return user != nil && user.IsAdmin
}

// TitleCase upper-cases the first letter of each word and lower-cases the rest.
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}
