package repository

import (
	"context"
	"fmt"

	"chalu_psychology/internal/domain/models"
	"chalu_psychology/internal/metrics"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

const postsTable = "posts"

// PostgresPostRepo keeps the collection in a relational table while
// preserving the wholesale replace semantics of the other backends:
// Replace rewrites the whole table in one transaction, Load returns the
// rows in the order they were written.
type PostgresPostRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPostgresPostRepo(ctx context.Context, dsn string) (*PostgresPostRepo, error) {
	const op = "repository.postgres_post_repository.New"

	db, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo := &PostgresPostRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}

	if err := repo.ensureTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return repo, nil
}

func (r *PostgresPostRepo) ensureTable(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+postsTable+` (
			position    INT PRIMARY KEY,
			id          BIGINT NOT NULL,
			title       TEXT NOT NULL,
			category    TEXT NOT NULL,
			image_url   TEXT NOT NULL DEFAULT '',
			excerpt     TEXT NOT NULL DEFAULT '',
			content     TEXT NOT NULL DEFAULT '',
			date        TEXT NOT NULL DEFAULT '',
			font_family TEXT NOT NULL DEFAULT ''
		)`)
	return err
}

func (r *PostgresPostRepo) Close() {
	r.db.Close()
}

func (r *PostgresPostRepo) Load(ctx context.Context) ([]models.Post, error) {
	const op = "repository.postgres_post_repository.Load"

	query, args, err := r.sb.Select(
		"id", "title", "category", "image_url",
		"excerpt", "content", "date", "font_family",
	).
		From(postsTable).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Category,
			&post.ImageURL,
			&post.Excerpt,
			&post.Content,
			&post.Date,
			&post.FontFamily,
		)
		if err != nil {
			metrics.StoreOperationsTotal.WithLabelValues("load", "error").Inc()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.StoreOperationsTotal.WithLabelValues("load", "ok").Inc()
	return posts, nil
}

func (r *PostgresPostRepo) Replace(ctx context.Context, posts []models.Post) error {
	const op = "repository.postgres_post_repository.Replace"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("replace", "error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM "+postsTable); err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("replace", "error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(posts) > 0 {
		builder := r.sb.Insert(postsTable).Columns(
			"position", "id", "title", "category", "image_url",
			"excerpt", "content", "date", "font_family",
		)
		for i, post := range posts {
			builder = builder.Values(
				i,
				post.ID,
				post.Title,
				post.Category,
				post.ImageURL,
				post.Excerpt,
				post.Content,
				post.Date,
				post.FontFamily,
			)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			metrics.StoreOperationsTotal.WithLabelValues("replace", "error").Inc()
			return fmt.Errorf("%s: %w", op, err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			metrics.StoreOperationsTotal.WithLabelValues("replace", "error").Inc()
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("replace", "error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.StoreOperationsTotal.WithLabelValues("replace", "ok").Inc()
	return nil
}
