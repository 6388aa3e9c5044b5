package services

import (
	"sort"
	"strings"

	"chalu_psychology/internal/domain/models"
)

// CategoryAll is the filter sentinel that passes every category.
const CategoryAll = "All"

const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortTitleAZ = "az"
	SortTitleZA = "za"
)

// ListCollection derives the display list from the full collection and the
// three reader inputs. It is pure: the input slice is never modified and
// the same inputs always produce the same output.
func ListCollection(posts []models.Post, query, category, sortKey string) []models.Post {
	result := filterPosts(posts, query, category)
	sortPosts(result, sortKey)
	return result
}

func filterPosts(posts []models.Post, query, category string) []models.Post {
	result := make([]models.Post, 0, len(posts))

	query = strings.ToLower(strings.TrimSpace(query))
	for _, post := range posts {
		if query != "" && !matchesQuery(post, query) {
			continue
		}
		if category != "" && category != CategoryAll && post.Category != category {
			continue
		}
		result = append(result, post)
	}

	return result
}

// matchesQuery reports whether the lowercased query is a substring of the
// post's title, excerpt or category.
func matchesQuery(post models.Post, query string) bool {
	return strings.Contains(strings.ToLower(post.Title), query) ||
		strings.Contains(strings.ToLower(post.Excerpt), query) ||
		strings.Contains(strings.ToLower(post.Category), query)
}

// sortPosts orders in place. Equal keys keep the underlying collection
// order; an unknown sort key leaves the order untouched.
func sortPosts(posts []models.Post, sortKey string) {
	switch sortKey {
	case SortNewest:
		sort.SliceStable(posts, func(i, j int) bool {
			return models.ParseDate(posts[i].Date).After(models.ParseDate(posts[j].Date))
		})
	case SortOldest:
		sort.SliceStable(posts, func(i, j int) bool {
			return models.ParseDate(posts[i].Date).Before(models.ParseDate(posts[j].Date))
		})
	case SortTitleAZ:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Title < posts[j].Title
		})
	case SortTitleZA:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Title > posts[j].Title
		})
	}
}

// CategoryOptions derives the filter choices offered to the reader: the
// distinct categories present in the collection, lexicographically sorted,
// with the All sentinel prepended.
func CategoryOptions(posts []models.Post) []string {
	seen := make(map[string]struct{}, len(posts))
	options := make([]string, 0, len(posts)+1)

	for _, post := range posts {
		if _, ok := seen[post.Category]; ok {
			continue
		}
		seen[post.Category] = struct{}{}
		options = append(options, post.Category)
	}

	sort.Strings(options)
	return append([]string{CategoryAll}, options...)
}
