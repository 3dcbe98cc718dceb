package service

import (
	"context"
	"testing"

	"blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous writes nothing", func(t *testing.T) {
		t.Parallel()
		comments := noopCommentRepo()
		comments.createFn = func(context.Context, *models.Comment) error {
			t.Fatal("create must not be called")
			return nil
		}
		svc := NewCommentService(comments, noopPostRepo())

		_, err := svc.CreateComment(ctx, nil, CreateCommentInput{PostID: 1, Body: "hi"})
		assertCode(t, err, models.CodeUnauthorized)
		assert.Equal(t, LoginToCommentMessage, models.PublicMessage(err))
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.CreateComment(ctx, reader, CreateCommentInput{PostID: 1, Body: "   "})
		assertValidationError(t, err)
	})

	t.Run("post not found propagates", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewCommentService(noopCommentRepo(), posts)
		_, err := svc.CreateComment(ctx, reader, CreateCommentInput{PostID: 9, Body: "hi"})
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("creates one comment linked to post and user", func(t *testing.T) {
		t.Parallel()
		var created []*models.Comment
		comments := noopCommentRepo()
		comments.createFn = func(_ context.Context, c *models.Comment) error {
			created = append(created, c)
			return nil
		}
		svc := NewCommentService(comments, noopPostRepo())

		comment, err := svc.CreateComment(ctx, reader, CreateCommentInput{PostID: 3, Body: "<p>Nice</p>"})
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, uint(3), comment.PostID)
		assert.Equal(t, reader.ID, comment.UserID)
		assert.Equal(t, "<p>Nice</p>", comment.Body)
		assert.Equal(t, "Reader", comment.User.Name)
	})
}

func TestCommentService_ListComments(t *testing.T) {
	comments := noopCommentRepo()
	comments.listByPostFn = func(_ context.Context, postID uint) ([]models.Comment, error) {
		return []models.Comment{{ID: 1, PostID: postID}}, nil
	}
	got, err := NewCommentService(comments, noopPostRepo()).ListComments(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(4), got[0].PostID)
}
