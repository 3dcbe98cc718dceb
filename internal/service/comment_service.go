package service

import (
	"context"
	"strings"

	"blog/internal/models"
	"blog/internal/repository"
)

// LoginToCommentMessage is shown when an anonymous visitor tries to comment.
const LoginToCommentMessage = "You need to login to comment."

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	PostID uint
	Body   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment stores one comment by actor. Anonymous actors get an
// UnauthorizedError and nothing is written.
func (s *CommentService) CreateComment(ctx context.Context, actor *models.User, in CreateCommentInput) (*models.Comment, error) {
	if actor == nil {
		return nil, models.NewUnauthorizedError(LoginToCommentMessage)
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, models.NewValidationError("Comment is required.")
	}

	comment := &models.Comment{
		Body:   in.Body,
		UserID: actor.ID,
		PostID: in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.User = *actor
	return comment, nil
}

// ListComments returns the thread under a post, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}
