package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListByPost_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE post_id = $1 ORDER BY id ASC`)).
		WithArgs(5).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.ListByPost(context.Background(), 5)
	assert.True(t, models.HasCode(err, models.CodeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_CreateAndList(t *testing.T) {
	db := setupSQLite(t)
	users := NewUserRepository(db)
	admin := createUser(t, users, "admin@example.com", "Admin")
	reader := createUser(t, users, "reader@example.com", "Reader")
	post := newPost(admin.ID, "Hello")
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))

	repo := NewCommentRepository(db)
	ctx := context.Background()
	for _, body := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &models.Comment{Body: body, UserID: reader.ID, PostID: post.ID}))
	}

	thread, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, "a", thread[0].Body)
	assert.Equal(t, "c", thread[2].Body)
	assert.Equal(t, "Reader", thread[0].User.Name)

	empty, err := repo.ListByPost(ctx, post.ID+1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCommentRepository_MissingPost(t *testing.T) {
	db := setupSQLite(t)
	reader := createUser(t, NewUserRepository(db), "reader@example.com", "Reader")
	repo := NewCommentRepository(db)

	err := repo.Create(context.Background(), &models.Comment{Body: "lost", UserID: reader.ID, PostID: 77})
	assert.True(t, models.HasCode(err, models.CodeNotFound), "got %v", err)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_posts_title" (SQLSTATE 23505)`)))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, isUniqueConstraintError(errors.New("connection reset")))
	assert.True(t, isForeignKeyError(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, isForeignKeyError(errors.New("timeout")))
}
