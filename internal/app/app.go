package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "chalu_psychology/internal/app/http"
	"chalu_psychology/internal/config"
	"chalu_psychology/internal/repository"
	blogsvc "chalu_psychology/internal/services/blog_service"
	leadsvc "chalu_psychology/internal/services/lead_service"
	"chalu_psychology/internal/storage/kv"
	redisapp "chalu_psychology/internal/storage/redis"
	httprouters "chalu_psychology/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
}

func New(log *slog.Logger, cfg *config.Config) *App {
	repo, err := buildRepository(context.Background(), cfg.Storage)
	if err != nil {
		panic(err)
	}

	blogService := blogsvc.NewBlogService(log, repo)
	blogService.LoadCollection(context.Background())

	leadService := leadsvc.NewLeadService(log, cfg.Telegram)

	routers := httprouters.NewRouter(log, blogService, leadService, cfg.Admin)

	server := httpapp.New(log, cfg.Admin.TokenSecret, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	return &App{
		HTTPServer: server,
	}
}

func buildRepository(ctx context.Context, cfg config.StorageConfig) (repository.PostRepository, error) {
	switch cfg.Backend {
	case "kv", "":
		client := kv.NewClient(cfg.KV.BaseURL, cfg.KV.Token, cfg.KV.Timeout)
		return repository.NewKVPostRepo(client, cfg.KV.Key), nil
	case "redis":
		client := redisapp.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		return repository.NewRedisPostRepo(client, cfg.Redis.Key), nil
	case "postgres":
		return repository.NewPostgresPostRepo(ctx, cfg.Postgres.DSN)
	default:
		return nil, fmt.Errorf("app.buildRepository: unknown storage backend %q", cfg.Backend)
	}
}
