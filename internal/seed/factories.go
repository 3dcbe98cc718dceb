package seed

import (
	"fmt"
	"strings"
	"time"

	"blog/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds unsaved entities filled with fake content.
type Factory struct {
	faker   *gofakeit.Faker
	maxDays int
	now     func() time.Time
}

// NewFactory creates a Factory drawing from faker. maxDays <= 0 spreads
// post dates over the last 90 days.
func NewFactory(faker *gofakeit.Faker, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{faker: faker, maxDays: maxDays, now: time.Now}
}

// Intn returns a pseudo-random int in [0, n).
func (f *Factory) Intn(n int) int {
	return f.faker.IntRange(0, n-1)
}

// User builds the i-th account. The index keeps emails unique.
func (f *Factory) User(i int, passwordHash string) *models.User {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	return &models.User{
		Email:    strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, i)),
		Password: passwordHash,
		Name:     first + " " + last,
	}
}

// Post builds the i-th post by author. The index keeps titles unique.
func (f *Factory) Post(i int, author *models.User) *models.Post {
	title := strings.TrimSuffix(f.faker.Sentence(f.faker.IntRange(3, 7)), ".")
	daysBack := f.faker.IntRange(0, f.maxDays-1)

	paragraphs := make([]string, 0, 3)
	for p := 0; p < 3; p++ {
		paragraphs = append(paragraphs, "<p>"+f.faker.Paragraph(1, 4, 12, " ")+"</p>")
	}

	return &models.Post{
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Title:      fmt.Sprintf("%s #%d", title, i+1),
		Subtitle:   f.faker.HipsterSentence(6),
		ImageURL:   fmt.Sprintf("https://picsum.photos/seed/%s/1200/600", f.faker.UUID()),
		Date:       f.now().AddDate(0, 0, -daysBack).Format(models.PostDateLayout),
		Body:       strings.Join(paragraphs, "\n"),
	}
}

// Comment builds a comment by userID under postID.
func (f *Factory) Comment(postID, userID uint) *models.Comment {
	return &models.Comment{
		Body:   "<p>" + f.faker.Sentence(f.faker.IntRange(4, 16)) + "</p>",
		PostID: postID,
		UserID: userID,
	}
}
