// Package search filters index entries by a free-text query.
package search

import (
	"strings"

	"github.com/starford/docsite/internal/models"
)

// DefaultLimit caps the number of results when no limit is given.
const DefaultLimit = 8

// Search returns the entries whose title, excerpt, category or any tag
// contains query, ignoring case. Results keep the order of entries and are
// capped at limit; limit <= 0 means DefaultLimit. A blank query matches
// nothing.
func Search(query string, entries []models.Entry, limit int) []models.Entry {
	out := []models.Entry{}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return out
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	for _, e := range entries {
		if len(out) == limit {
			break
		}
		if Matches(e, q) {
			out = append(out, e)
		}
	}
	return out
}

// Matches reports whether e matches the already lowercased query q.
func Matches(e models.Entry, q string) bool {
	if contains(e.Title, q) || contains(e.Excerpt, q) || contains(e.Category, q) {
		return true
	}
	for _, t := range e.Tags {
		if contains(t, q) {
			return true
		}
	}
	return false
}

func contains(field, q string) bool {
	return strings.Contains(strings.ToLower(field), q)
}
