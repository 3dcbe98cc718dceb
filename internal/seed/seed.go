// Package seed fills the database with demo accounts, posts and comments for
// local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blog/internal/credentials"
	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded account shares.
const DefaultPassword = "password123"

// Options configure a seeding run.
type Options struct {
	NumUsers        int
	NumPosts        int
	CommentsPerPost int
	// MaxDays bounds how far back post dates are spread.
	MaxDays int
	// RandSeed makes the generated content reproducible when non-zero.
	RandSeed int64
}

// Result summarizes what a run wrote.
type Result struct {
	Users    []models.User
	Posts    []models.Post
	Comments int
}

// Seeder writes demo data through the repositories so the usual store
// rules apply, including first-account administrator election.
type Seeder struct {
	db       *gorm.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:       db,
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
	}
}

// ClearAll removes every comment, post and user, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Comment{}, &models.Post{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// Run creates opts.NumUsers accounts, opts.NumPosts posts written by the
// administrator and opts.CommentsPerPost comments under each post. When the
// store is empty the first generated account becomes the administrator.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	f := NewFactory(gofakeit.New(seed), opts.MaxDays)

	hash, err := credentials.Hash(DefaultPassword)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i := 0; i < opts.NumUsers; i++ {
		user := f.User(i, hash)
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user %s: %w", user.Email, err)
		}
		res.Users = append(res.Users, *user)
	}

	if opts.NumPosts > 0 {
		var admin models.User
		if err := s.db.WithContext(ctx).Where("is_admin = ?", true).Order("id").First(&admin).Error; err != nil {
			return nil, fmt.Errorf("posts need an administrator: %w", err)
		}

		for i := 0; i < opts.NumPosts; i++ {
			post := f.Post(i, &admin)
			if err := s.posts.Create(ctx, post); err != nil {
				return nil, fmt.Errorf("create post %q: %w", post.Title, err)
			}
			res.Posts = append(res.Posts, *post)
		}
	}

	if len(res.Users) > 0 {
		for _, post := range res.Posts {
			for j := 0; j < opts.CommentsPerPost; j++ {
				author := res.Users[f.Intn(len(res.Users))]
				if err := s.comments.Create(ctx, f.Comment(post.ID, author.ID)); err != nil {
					return nil, fmt.Errorf("create comment on post %d: %w", post.ID, err)
				}
				res.Comments++
			}
		}
	}

	middleware.Logger.Info("seed complete",
		slog.Int("users", len(res.Users)),
		slog.Int("posts", len(res.Posts)),
		slog.Int("comments", res.Comments),
	)
	return res, nil
}
