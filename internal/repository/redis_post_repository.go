package repository

import (
	"context"
	"fmt"

	"chalu_psychology/internal/domain/models"
	"chalu_psychology/internal/metrics"
	redisapp "chalu_psychology/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

// RedisPostRepo is a drop-in alternative to the REST backend for
// deployments with direct Redis reachability. Same key, same
// double-encoded payload, so the two can point at the same database.
type RedisPostRepo struct {
	Client *redisapp.Client
	key    string
}

func NewRedisPostRepo(client *redisapp.Client, key string) *RedisPostRepo {
	return &RedisPostRepo{Client: client, key: key}
}

func (r *RedisPostRepo) Load(ctx context.Context) ([]models.Post, error) {
	const op = "repository.redis_post_repository.Load"

	raw, err := r.Client.Get(ctx, r.key).Result()
	if err == redis.Nil {
		metrics.StoreOperationsTotal.WithLabelValues("load", "ok").Inc()
		return []models.Post{}, nil
	}
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	posts, err := decodePosts(raw)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.StoreOperationsTotal.WithLabelValues("load", "ok").Inc()
	return posts, nil
}

func (r *RedisPostRepo) Replace(ctx context.Context, posts []models.Post) error {
	const op = "repository.redis_post_repository.Replace"

	raw, err := encodePosts(posts)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("replace", "error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.Client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("replace", "error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.StoreOperationsTotal.WithLabelValues("replace", "ok").Inc()
	return nil
}
