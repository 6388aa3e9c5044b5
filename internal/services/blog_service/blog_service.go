package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"chalu_psychology/internal/domain/models"
	"chalu_psychology/internal/lib/logger/sl"
	"chalu_psychology/internal/repository"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrMissingFields = errors.New("title and content are required")
)

// BlogService holds the full in-memory collection and is the single
// mutation entry point. Every write recomputes the whole collection and
// replaces the stored value; in-memory state is overwritten only after
// the store acknowledges, so a failed write leaves the previous state
// byte for byte intact. Mutations are serialized behind the lock.
type BlogService struct {
	log  *slog.Logger
	repo repository.PostRepository

	mu     sync.RWMutex
	posts  []models.Post
	lastID int64
}

func NewBlogService(log *slog.Logger, repo repository.PostRepository) *BlogService {
	return &BlogService{log: log, repo: repo}
}

// LoadCollection fetches the stored collection once at startup. A failed
// or unparseable fetch degrades to an empty collection rather than
// failing the process; the condition is logged for diagnosis.
func (s *BlogService) LoadCollection(ctx context.Context) {
	const op = "blog_service.LoadCollection"
	log := s.log.With(slog.String("op", op))

	posts, err := s.repo.Load(ctx)
	if err != nil {
		log.Error("failed to load collection, starting empty", sl.Err(err))
		posts = []models.Post{}
	}

	s.mu.Lock()
	s.posts = posts
	for _, post := range posts {
		if post.ID > s.lastID {
			s.lastID = post.ID
		}
	}
	s.mu.Unlock()

	log.Info("collection loaded", slog.Int("posts", len(posts)))
}

// nextID returns the current time in milliseconds, bumped when needed so
// ids stay strictly increasing even for back-to-back creates within the
// same millisecond. Caller must hold the lock.
func (s *BlogService) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func validateDraft(draft Draft) error {
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Content) == "" {
		return ErrMissingFields
	}
	return nil
}

// CreatePost builds a new post from the draft and prepends it to the
// collection.
func (s *BlogService) CreatePost(ctx context.Context, draft Draft) (models.Post, error) {
	const op = "blog_service.CreatePost"
	log := s.log.With(slog.String("op", op))

	if err := validateDraft(draft); err != nil {
		log.Warn("draft rejected", sl.Err(err))
		return models.Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post := models.Post{
		ID:         s.nextID(),
		Title:      draft.Title,
		Category:   draft.resolveCategory(),
		ImageURL:   draft.resolveImage(),
		Excerpt:    draft.Excerpt,
		Content:    draft.Content,
		Date:       models.StampDate(time.Now()),
		FontFamily: draft.resolveFont(),
	}

	next := make([]models.Post, 0, len(s.posts)+1)
	next = append(next, post)
	next = append(next, s.posts...)

	if err := s.applyAndPersist(ctx, next); err != nil {
		log.Error("failed to persist new post", sl.Err(err))
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post created", slog.Int64("post_id", post.ID), slog.String("title", post.Title))
	return post, nil
}

// UpdatePost replaces the fields of the post with the given id, keeping
// its id and position and refreshing the date stamp.
func (s *BlogService) UpdatePost(ctx context.Context, id int64, draft Draft) (models.Post, error) {
	const op = "blog_service.UpdatePost"
	log := s.log.With(slog.String("op", op), slog.Int64("post_id", id))

	if err := validateDraft(draft); err != nil {
		log.Warn("draft rejected", sl.Err(err))
		return models.Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Post, len(s.posts))
	copy(next, s.posts)

	var updated models.Post
	found := false
	for i, post := range next {
		if post.ID != id {
			continue
		}
		updated = models.Post{
			ID:         post.ID,
			Title:      draft.Title,
			Category:   draft.resolveCategory(),
			ImageURL:   draft.resolveImage(),
			Excerpt:    draft.Excerpt,
			Content:    draft.Content,
			Date:       models.StampDate(time.Now()),
			FontFamily: draft.resolveFont(),
		}
		next[i] = updated
		found = true
		break
	}
	if !found {
		log.Warn("post not found")
		return models.Post{}, ErrPostNotFound
	}

	if err := s.applyAndPersist(ctx, next); err != nil {
		log.Error("failed to persist update", sl.Err(err))
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post updated", slog.String("title", updated.Title))
	return updated, nil
}

// DeletePost removes the post with the given id from the collection.
func (s *BlogService) DeletePost(ctx context.Context, id int64) error {
	const op = "blog_service.DeletePost"
	log := s.log.With(slog.String("op", op), slog.Int64("post_id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if post.ID != id {
			next = append(next, post)
		}
	}
	if len(next) == len(s.posts) {
		log.Warn("post not found")
		return ErrPostNotFound
	}

	if err := s.applyAndPersist(ctx, next); err != nil {
		log.Error("failed to persist delete", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post deleted")
	return nil
}

// applyAndPersist is the single choke point between a proposed collection
// and the store: commit in-memory state only on acknowledged success.
// Caller must hold the write lock.
func (s *BlogService) applyAndPersist(ctx context.Context, next []models.Post) error {
	if err := s.repo.Replace(ctx, next); err != nil {
		return err
	}
	s.posts = next
	return nil
}

// Posts returns a snapshot copy of the collection in stored order.
func (s *BlogService) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]models.Post, len(s.posts))
	copy(snapshot, s.posts)
	return snapshot
}

func (s *BlogService) GetPost(id int64) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, post := range s.posts {
		if post.ID == id {
			return post, nil
		}
	}
	return models.Post{}, ErrPostNotFound
}

// ListPosts runs the listing engine over the current collection.
func (s *BlogService) ListPosts(query, category, sortKey string) []models.Post {
	return ListCollection(s.Posts(), query, category, sortKey)
}

// Categories returns the filter options derived from the collection.
func (s *BlogService) Categories() []string {
	return CategoryOptions(s.Posts())
}

// DraftForPost loads an existing post into an editable draft.
func (s *BlogService) DraftForPost(id int64) (Draft, error) {
	post, err := s.GetPost(id)
	if err != nil {
		return Draft{}, err
	}
	return DraftFromPost(post), nil
}
