package models

import (
	"time"
)

// DateLayout is the human-readable date stamped on a post at creation or
// edit time. Sorting by recency parses this layout back.
const DateLayout = "Jan 2, 2006"

const (
	// CategoryOther is the sentinel the authoring form uses for a
	// free-form category value.
	CategoryOther = "Other"
	// CategoryFallback is assigned when a post is submitted with no
	// resolvable category.
	CategoryFallback = "General"
)

// Categories is the fixed set offered by the authoring form. Anything
// outside it is a custom category entered through the Other sentinel.
var Categories = []string{
	"Psychology", "Philosophy", "News", "Research", "Education",
	"Mental Health", "Relationships", "Culture", "Personal Growth", "Ethics",
	"Neuroscience", "Spirituality", "Sociology",
}

const FontDefault = "font-serif"

// Fonts are the typographic style identifiers a post may carry.
var Fonts = []string{
	"font-serif",
	"font-sans",
	"font-['Lato']",
	"font-['Playfair_Display']",
	"font-mono",
}

type Post struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	ImageURL   string `json:"imageUrl"`
	Excerpt    string `json:"excerpt"`
	Content    string `json:"content"`
	Date       string `json:"date"`
	FontFamily string `json:"fontFamily,omitempty"`
}

// IsFixedCategory reports whether c is one of the enumerated categories.
func IsFixedCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

func IsKnownFont(f string) bool {
	for _, font := range Fonts {
		if font == f {
			return true
		}
	}
	return false
}

// StampDate formats t into the display layout posts carry.
func StampDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads a post's display date back into a time for recency
// comparison. Unparseable dates compare as the zero time.
func ParseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
