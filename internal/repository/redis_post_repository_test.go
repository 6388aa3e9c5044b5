package repository

import (
	"context"
	"errors"
	"testing"

	"chalu_psychology/internal/domain/models"
	redisapp "chalu_psychology/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPostRepo_Load(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisPostRepo(&redisapp.Client{Client: db}, "chalu_blog_posts")
	ctx := context.Background()

	mock.ExpectGet("chalu_blog_posts").
		SetVal(`[{"id":1,"title":"A","category":"Ethics","imageUrl":"","excerpt":"","content":"a","date":"Jan 1, 2024"}]`)

	posts, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(1), posts[0].ID)
	assert.Equal(t, "Ethics", posts[0].Category)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPostRepo_LoadMissingKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisPostRepo(&redisapp.Client{Client: db}, "chalu_blog_posts")

	mock.ExpectGet("chalu_blog_posts").RedisNil()

	posts, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestRedisPostRepo_Replace(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisPostRepo(&redisapp.Client{Client: db}, "chalu_blog_posts")

	posts := []models.Post{{ID: 1, Title: "A", Category: "Ethics", Content: "a", Date: "Jan 1, 2024"}}
	raw, err := encodePosts(posts)
	require.NoError(t, err)

	mock.ExpectSet("chalu_blog_posts", raw, 0).SetVal("OK")

	require.NoError(t, repo.Replace(context.Background(), posts))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPostRepo_ReplaceError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisPostRepo(&redisapp.Client{Client: db}, "chalu_blog_posts")

	posts := []models.Post{{ID: 1, Title: "A"}}
	raw, err := encodePosts(posts)
	require.NoError(t, err)

	mock.ExpectSet("chalu_blog_posts", raw, 0).SetErr(errors.New("connection refused"))

	assert.Error(t, repo.Replace(context.Background(), posts))
}
