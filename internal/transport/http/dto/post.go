package dto

import (
	"chalu_psychology/internal/domain/models"
)

// PostDraftRequest carries the authoring form for both create and update.
// Category may be any fixed category or the Other sentinel, in which case
// CustomCategory holds the free-form value.
type PostDraftRequest struct {
	Title          string `json:"title" validate:"required"`
	Category       string `json:"category"`
	CustomCategory string `json:"customCategory"`
	ImageURL       string `json:"imageUrl"`
	Excerpt        string `json:"excerpt"`
	Content        string `json:"content" validate:"required"`
	FontFamily     string `json:"fontFamily"`
}

// PostListResponse is the public listing payload: the filtered and sorted
// posts plus the category options derived from the full collection.
type PostListResponse struct {
	Posts      []models.Post `json:"posts"`
	Categories []string      `json:"categories"`
	Total      int           `json:"total"`
}

// PostDraftResponse is an existing post loaded back into form shape for
// editing.
type PostDraftResponse struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	CustomCategory string `json:"customCategory"`
	ImageURL       string `json:"imageUrl"`
	Excerpt        string `json:"excerpt"`
	Content        string `json:"content"`
	FontFamily     string `json:"fontFamily"`
}
