// Package docservice coordinates the loader, the index builder and the
// persisted snapshot behind the document lookup interface.
package docservice

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"github.com/starford/docsite/internal/index"
	"github.com/starford/docsite/internal/loader"
	"github.com/starford/docsite/internal/models"
	"github.com/starford/docsite/internal/nav"
	"github.com/starford/docsite/internal/search"
	"github.com/starford/docsite/internal/storage"
)

// Page is a document with its navigation context.
type Page struct {
	Doc         *models.Doc   `json:"doc"`
	Breadcrumbs []nav.Crumb   `json:"breadcrumbs"`
	Prev        *models.Entry `json:"prev"`
	Next        *models.Entry `json:"next"`
}

// Service holds the current index and answers lookups. The index is
// replaced wholesale on every rebuild.
type Service struct {
	store        storage.Provider
	loader       *loader.Loader
	builder      *index.Builder
	logger       *slog.Logger
	snapshotPath string
	searchLimit  int
	onRebuild    func(documents int)

	rebuildMu sync.Mutex
	current   atomic.Pointer[index.Index]
}

// Option configures a Service.
type Option func(*Service)

// WithSearchLimit sets the search result cap.
func WithSearchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.searchLimit = n
		}
	}
}

// WithRebuildHook registers fn to run after each rebuild with the number
// of indexed documents.
func WithRebuildHook(fn func(documents int)) Option {
	return func(s *Service) { s.onRebuild = fn }
}

// New creates a Service. snapshotPath is where Rebuild persists the
// snapshot and where Search reads it from.
func New(store storage.Provider, ldr *loader.Loader, builder *index.Builder, snapshotPath string, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:        store,
		loader:       ldr,
		builder:      builder,
		logger:       logger,
		snapshotPath: snapshotPath,
		searchLimit:  search.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SnapshotPath returns the location of the persisted snapshot.
func (s *Service) SnapshotPath() string { return s.snapshotPath }

// Current returns the index from the last rebuild. Before the first
// rebuild it is empty.
func (s *Service) Current() *index.Index { return s.current.Load() }

// ListSlugs enumerates the slugs present in the docs directory.
func (s *Service) ListSlugs(_ context.Context) []string {
	slugs, err := s.store.ListSlugs()
	if err != nil {
		s.logger.Warn("docservice: list slugs", slog.String("error", err.Error()))
		return []string{}
	}
	if slugs == nil {
		return []string{}
	}
	return slugs
}

// GetBySlug loads slug fresh from disk.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Doc, bool) {
	return s.loader.Get(ctx, slug)
}

// Rebuild builds a new index, persists its snapshot and makes it current.
// Rebuilds run one at a time. A cancelled build leaves the current index
// and the snapshot untouched; a complete one is installed even when
// persisting fails.
func (s *Service) Rebuild(ctx context.Context) (*index.Index, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	ix, err := s.builder.Build(ctx)
	if err != nil {
		s.logger.Warn("docservice: rebuild abandoned", slog.String("error", err.Error()))
		return nil, err
	}
	s.current.Store(ix)

	res, err := index.Persist(ix, s.snapshotPath)
	if err != nil {
		s.logger.Error("docservice: persist snapshot",
			slog.String("path", s.snapshotPath),
			slog.String("error", err.Error()))
	} else {
		s.logger.Info("docservice: index rebuilt",
			slog.Int("documents", res.Documents),
			slog.String("snapshot", res.Path),
			slog.String("size", humanize.Bytes(uint64(res.Bytes))),
			slog.Bool("written", res.Written))
	}

	if s.onRebuild != nil {
		s.onRebuild(ix.Len())
	}
	return ix, err
}

// List returns index entries, optionally narrowed to a tag and a category.
func (s *Service) List(_ context.Context, tag, category string) []models.Entry {
	out := []models.Entry{}
	for _, e := range s.Current().Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if tag != "" && !hasTag(e.Tags, tag) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Search matches query against the persisted snapshot. limit may lower the
// configured cap but never raise it. A missing or unreadable snapshot
// yields no results.
func (s *Service) Search(_ context.Context, query string, limit int) []models.Entry {
	if limit <= 0 || limit > s.searchLimit {
		limit = s.searchLimit
	}
	entries, err := index.LoadSnapshot(s.snapshotPath)
	if err != nil {
		s.logger.Warn("docservice: snapshot unavailable for search",
			slog.String("path", s.snapshotPath),
			slog.String("error", err.Error()))
		return []models.Entry{}
	}
	return search.Search(query, entries, limit)
}

// Tags returns every distinct tag in the current index.
func (s *Service) Tags(_ context.Context) []string { return s.Current().Tags() }

// Categories returns every distinct category in the current index.
func (s *Service) Categories(_ context.Context) []string { return s.Current().Categories() }

// Sidebar returns the navigation sections of the current index.
func (s *Service) Sidebar(_ context.Context) []nav.Section {
	return nav.Sidebar(s.Current().Entries())
}

// Page loads slug and attaches its breadcrumbs and neighbours in the
// current index.
func (s *Service) Page(ctx context.Context, slug string) (*Page, bool) {
	doc, ok := s.GetBySlug(ctx, slug)
	if !ok {
		return nil, false
	}
	prev, next := nav.Neighbors(s.Current().Entries(), slug)
	return &Page{
		Doc:         doc,
		Breadcrumbs: nav.Breadcrumbs(doc.Entry()),
		Prev:        prev,
		Next:        next,
	}, true
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
