// Package nav derives navigation data (sidebar, breadcrumbs, neighbours)
// from the index.
package nav

import (
	"cmp"
	"net/url"
	"slices"
	"strings"

	"github.com/starford/docsite/internal/models"
)

// RootLabel is the label of the first breadcrumb.
const RootLabel = "Documentation"

// Section is one sidebar group.
type Section struct {
	Category string         `json:"category"`
	Entries  []models.Entry `json:"entries"`
}

// Crumb is one breadcrumb link.
type Crumb struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// DocPath returns the page path of slug.
func DocPath(slug string) string {
	return "/entries/" + slug
}

// CategoryPath returns the listing path filtered to category.
func CategoryPath(category string) string {
	return "/?category=" + strings.ReplaceAll(url.QueryEscape(category), "+", "%20")
}

// Sidebar groups entries by category. Sections are sorted by category name
// and entries within a section by order; equal orders keep input order.
func Sidebar(entries []models.Entry) []Section {
	groups := make(map[string][]models.Entry)
	for _, e := range entries {
		c := e.Category
		if c == "" {
			c = models.DefaultCategory
		}
		groups[c] = append(groups[c], e)
	}

	cats := make([]string, 0, len(groups))
	for c := range groups {
		cats = append(cats, c)
	}
	slices.Sort(cats)

	out := make([]Section, 0, len(cats))
	for _, c := range cats {
		items := groups[c]
		slices.SortStableFunc(items, func(a, b models.Entry) int {
			return cmp.Compare(a.Order, b.Order)
		})
		out = append(out, Section{Category: c, Entries: items})
	}
	return out
}

// Breadcrumbs returns the trail for doc. The category crumb is omitted for
// the default category.
func Breadcrumbs(doc models.Entry) []Crumb {
	crumbs := []Crumb{{Label: RootLabel, Href: "/"}}
	if doc.Category != "" && doc.Category != models.DefaultCategory {
		crumbs = append(crumbs, Crumb{Label: doc.Category, Href: CategoryPath(doc.Category)})
	}
	return append(crumbs, Crumb{Label: doc.Title, Href: DocPath(doc.Slug), Active: true})
}

// Neighbors returns the entries immediately before and after slug. Either
// is nil at the ends or when slug is absent.
func Neighbors(entries []models.Entry, slug string) (prev, next *models.Entry) {
	i := slices.IndexFunc(entries, func(e models.Entry) bool { return e.Slug == slug })
	if i < 0 {
		return nil, nil
	}
	if i > 0 {
		p := entries[i-1]
		prev = &p
	}
	if i+1 < len(entries) {
		n := entries[i+1]
		next = &n
	}
	return prev, next
}
