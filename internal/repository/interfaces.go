package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"chalu_psychology/internal/domain/models"
)

// PostRepository stores the blog collection wholesale. There is no
// per-record operation: every write serializes the entire sequence and
// replaces whatever was stored before (last writer wins).
type PostRepository interface {
	Load(ctx context.Context) ([]models.Post, error)
	Replace(ctx context.Context, posts []models.Post) error
}

// The collection is stored double-encoded: the value under the key is a
// JSON string holding the JSON array of posts.
func encodePosts(posts []models.Post) (string, error) {
	if posts == nil {
		posts = []models.Post{}
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return "", fmt.Errorf("encode posts: %w", err)
	}
	return string(raw), nil
}

func decodePosts(raw string) ([]models.Post, error) {
	var posts []models.Post
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}
