package services

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"chalu_psychology/internal/domain/models"
)

// Draft mirrors the authoring form: the post fields under edit plus the
// custom-category text shown when the Other sentinel is selected.
type Draft struct {
	Title          string
	Category       string
	CustomCategory string
	ImageURL       string
	Excerpt        string
	Content        string
	FontFamily     string
}

// DraftFromPost populates a draft for editing an existing post. A stored
// category outside the fixed set round-trips through the Other sentinel
// with the original value in CustomCategory. A custom string that exactly
// matches a fixed category name is indistinguishable from it here and
// loads as the standard category.
func DraftFromPost(post models.Post) Draft {
	draft := Draft{
		Title:      post.Title,
		Category:   post.Category,
		ImageURL:   post.ImageURL,
		Excerpt:    post.Excerpt,
		Content:    post.Content,
		FontFamily: post.FontFamily,
	}

	if !models.IsFixedCategory(post.Category) {
		draft.Category = models.CategoryOther
		draft.CustomCategory = post.Category
	}
	if draft.FontFamily == "" {
		draft.FontFamily = models.FontDefault
	}

	return draft
}

// resolveCategory flattens the category/custom pair back to the single
// persisted field, falling back to the default label when nothing usable
// was supplied.
func (d Draft) resolveCategory() string {
	category := d.Category
	if category == models.CategoryOther {
		category = strings.TrimSpace(d.CustomCategory)
	}
	if category == "" {
		category = models.CategoryFallback
	}
	return category
}

func (d Draft) resolveFont() string {
	if !models.IsKnownFont(d.FontFamily) {
		return models.FontDefault
	}
	return d.FontFamily
}

// EncodeImageFile reads an uploaded file and embeds it as a data URI. No
// size limit and no validation beyond sniffing the content type.
func EncodeImageFile(header *multipart.FileHeader) (string, error) {
	const op = "blog_service.EncodeImageFile"

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// resolveImage keeps a pasted URL or data URI as-is apart from trimming.
// Empty means the post renders without an image.
func (d Draft) resolveImage() string {
	return strings.TrimSpace(d.ImageURL)
}
