package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"blog/internal/config"
	"blog/internal/credentials"
	"blog/internal/database"
	"blog/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{Env: "test", DBDriver: "sqlite", SQLitePath: ":memory:"}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.ApplySchema(context.Background(), db, cfg))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestFactory_Post(t *testing.T) {
	f := NewFactory(gofakeit.New(42), 30)
	author := &models.User{ID: 7, Name: "Angela Yu"}

	p := f.Post(0, author)
	assert.Equal(t, uint(7), p.AuthorID)
	assert.Equal(t, "Angela Yu", p.AuthorName)
	assert.True(t, strings.HasSuffix(p.Title, " #1"))
	assert.True(t, strings.HasPrefix(p.ImageURL, "https://picsum.photos/seed/"))

	date, err := time.Parse(models.PostDateLayout, p.Date)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), date, 31*24*time.Hour)
}

func TestFactory_UserEmailsAreUnique(t *testing.T) {
	f := NewFactory(gofakeit.New(1), 0)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		u := f.User(i, "hash")
		assert.False(t, seen[u.Email], u.Email)
		seen[u.Email] = true
		assert.Equal(t, strings.ToLower(u.Email), u.Email)
	}
}

func TestSeeder_Run(t *testing.T) {
	db := setupDB(t)
	s := NewSeeder(db)

	res, err := s.Run(context.Background(), Options{NumUsers: 4, NumPosts: 3, CommentsPerPost: 2, RandSeed: 99})
	require.NoError(t, err)
	assert.Len(t, res.Users, 4)
	assert.Len(t, res.Posts, 3)
	assert.Equal(t, 6, res.Comments)

	var users []models.User
	require.NoError(t, db.Order("id").Find(&users).Error)
	require.Len(t, users, 4)
	assert.True(t, users[0].IsAdmin)
	for _, u := range users[1:] {
		assert.False(t, u.IsAdmin)
	}
	assert.True(t, credentials.Verify(DefaultPassword, users[1].Password))

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		assert.Equal(t, users[0].ID, p.AuthorID)
	}

	var comments int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Equal(t, int64(6), comments)
}

func TestSeeder_PostsNeedAdministrator(t *testing.T) {
	db := setupDB(t)
	_, err := NewSeeder(db).Run(context.Background(), Options{NumPosts: 1})
	assert.Error(t, err)
}

func TestSeeder_ClearAll(t *testing.T) {
	db := setupDB(t)
	s := NewSeeder(db)
	_, err := s.Run(context.Background(), Options{NumUsers: 2, NumPosts: 2, CommentsPerPost: 1})
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(context.Background()))

	for _, model := range []interface{}{&models.User{}, &models.Post{}, &models.Comment{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n)
	}
}
