package repository

import (
	"context"
	"fmt"

	"chalu_psychology/internal/domain/models"
	"chalu_psychology/internal/metrics"
	"chalu_psychology/internal/storage/kv"
)

// KVPostRepo keeps the collection under a single key of the hosted REST
// key-value store. This is the primary backend.
type KVPostRepo struct {
	client *kv.Client
	key    string
}

func NewKVPostRepo(client *kv.Client, key string) *KVPostRepo {
	return &KVPostRepo{client: client, key: key}
}

func (r *KVPostRepo) Load(ctx context.Context) ([]models.Post, error) {
	const op = "repository.kv_post_repository.Load"

	raw, found, err := r.client.Get(ctx, r.key)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		metrics.StoreOperationsTotal.WithLabelValues("load", "ok").Inc()
		return []models.Post{}, nil
	}

	posts, err := decodePosts(raw)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.StoreOperationsTotal.WithLabelValues("load", "ok").Inc()
	return posts, nil
}

func (r *KVPostRepo) Replace(ctx context.Context, posts []models.Post) error {
	const op = "repository.kv_post_repository.Replace"

	raw, err := encodePosts(posts)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("replace", "error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.client.Set(ctx, r.key, raw); err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("replace", "error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.StoreOperationsTotal.WithLabelValues("replace", "ok").Inc()
	return nil
}
