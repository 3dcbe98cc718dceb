package repository

import (
	"context"
	"errors"

	"blog/internal/models"
	"blog/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DuplicateTitleMessage is shown when a post title is already taken.
const DuplicateTitleMessage = "A post with that title already exists"

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// List returns every post with its author in insertion order.
func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	ctx, span := observability.StartRepositorySpan(ctx, "List", "posts")
	defer span.End()

	var posts []models.Post
	if err := r.db.WithContext(ctx).Preload("Author").Order("id ASC").Find(&posts).Error; err != nil {
		span.RecordError(err)
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// GetByID returns the post with its author. The comment thread is loaded
// separately through CommentRepository.ListByPost.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	ctx, span := observability.StartRepositorySpan(ctx, "GetByID", "posts")
	defer span.End()

	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		span.RecordError(err)
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, span := observability.StartRepositorySpan(ctx, "Create", "posts")
	defer span.End()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateError(DuplicateTitleMessage)
		}
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User", post.AuthorID)
		}
		span.RecordError(err)
		return models.NewInternalError(err)
	}
	return nil
}

// Update writes the editable fields of post. Author and date are never changed.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	ctx, span := observability.StartRepositorySpan(ctx, "Update", "posts")
	defer span.End()

	result := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
		"title":       post.Title,
		"subtitle":    post.Subtitle,
		"img_url":     post.ImageURL,
		"author_name": post.AuthorName,
		"body":        post.Body,
	})
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return models.NewDuplicateError(DuplicateTitleMessage)
		}
		span.RecordError(result.Error)
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}
