// Package index builds the sorted, immutable documentation index and its
// JSON snapshot.
package index

import "github.com/starford/docsite/internal/models"

// Index is an immutable, sorted collection of documents. A rebuild produces
// a new Index; existing values are never mutated. The nil *Index is empty.
type Index struct {
	docs   []*models.Doc
	bySlug map[string]int
}

func newIndex(docs []*models.Doc) *Index {
	ix := &Index{docs: docs, bySlug: make(map[string]int, len(docs))}
	for i, d := range docs {
		ix.bySlug[d.Slug] = i
	}
	return ix
}

// Len returns the number of documents.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.docs)
}

// Docs returns the documents in index order.
func (ix *Index) Docs() []*models.Doc {
	if ix == nil {
		return []*models.Doc{}
	}
	out := make([]*models.Doc, len(ix.docs))
	copy(out, ix.docs)
	return out
}

// Slugs returns the slugs in index order.
func (ix *Index) Slugs() []string {
	out := make([]string, 0, ix.Len())
	for _, d := range ix.Docs() {
		out = append(out, d.Slug)
	}
	return out
}

// Get returns the indexed document for slug.
func (ix *Index) Get(slug string) (*models.Doc, bool) {
	if ix == nil {
		return nil, false
	}
	i, ok := ix.bySlug[slug]
	if !ok {
		return nil, false
	}
	return ix.docs[i], true
}

// Entries returns the snapshot projection in index order.
func (ix *Index) Entries() []models.Entry {
	out := make([]models.Entry, 0, ix.Len())
	for _, d := range ix.Docs() {
		out = append(out, d.Entry())
	}
	return out
}

// Tags returns every distinct tag in order of first appearance.
func (ix *Index) Tags() []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, d := range ix.Docs() {
		for _, t := range d.Tags {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// Categories returns every distinct category in index order.
func (ix *Index) Categories() []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, d := range ix.Docs() {
		if _, dup := seen[d.Category]; dup {
			continue
		}
		seen[d.Category] = struct{}{}
		out = append(out, d.Category)
	}
	return out
}

// ByTag returns the documents carrying tag.
func (ix *Index) ByTag(tag string) []*models.Doc {
	return ix.filter(func(d *models.Doc) bool {
		for _, t := range d.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
}

// ByCategory returns the documents in category.
func (ix *Index) ByCategory(category string) []*models.Doc {
	return ix.filter(func(d *models.Doc) bool { return d.Category == category })
}

func (ix *Index) filter(keep func(*models.Doc) bool) []*models.Doc {
	out := []*models.Doc{}
	for _, d := range ix.Docs() {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
