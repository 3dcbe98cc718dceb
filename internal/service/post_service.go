package service

import (
	"context"
	"time"

	"blog/internal/models"
	"blog/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

// PostInput carries the editable fields of a post. Author is the byline and
// is only read by UpdatePost.
type PostInput struct {
	Title    string
	Subtitle string
	ImageURL string
	Author   string
	Body     string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		now:      time.Now,
	}
}

// ListPosts returns all posts in publication order.
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}

// GetPost returns a post with its author.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// CreatePost publishes a post authored by actor, who must be the administrator.
func (s *PostService) CreatePost(ctx context.Context, actor *models.User, in PostInput) (*models.Post, error) {
	if !IsAdministrator(actor) {
		return nil, models.NewForbiddenError()
	}
	if in.Title == "" || in.Subtitle == "" || in.Body == "" {
		return nil, models.NewValidationError("Title, subtitle and body are required.")
	}

	post := &models.Post{
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Title:      in.Title,
		Subtitle:   TitleCase(in.Subtitle),
		ImageURL:   in.ImageURL,
		Date:       s.now().Format(models.PostDateLayout),
		Body:       in.Body,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = *actor
	return post, nil
}

// UpdatePost applies an edit by actor, who must be the administrator. The
// publication date and author account never change; an empty byline keeps
// the current one.
func (s *PostService) UpdatePost(ctx context.Context, actor *models.User, id uint, in PostInput) (*models.Post, error) {
	if !IsAdministrator(actor) {
		return nil, models.NewForbiddenError()
	}
	if in.Title == "" || in.Subtitle == "" || in.Body == "" {
		return nil, models.NewValidationError("Title, subtitle and body are required.")
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Subtitle = in.Subtitle
	post.ImageURL = in.ImageURL
	post.Body = in.Body
	if in.Author != "" {
		post.AuthorName = in.Author
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}
