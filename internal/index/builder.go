package index

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/starford/docsite/internal/loader"
	"github.com/starford/docsite/internal/models"
	"github.com/starford/docsite/internal/storage"
)

// Builder enumerates the docs directory and assembles an Index.
type Builder struct {
	store   storage.Provider
	loader  *loader.Loader
	logger  *slog.Logger
	workers int
}

// NewBuilder creates a Builder. workers bounds concurrent loads; values
// below one use GOMAXPROCS.
func NewBuilder(store storage.Provider, ldr *loader.Loader, logger *slog.Logger, workers int) *Builder {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Builder{store: store, loader: ldr, logger: logger, workers: workers}
}

// Build loads every enumerated slug and returns them sorted by category,
// then order. Documents that fail to load are left out. An unreadable docs
// directory yields an empty index; the directory is recreated if possible.
// The only error is cancellation of ctx, in which case no index is returned.
func (b *Builder) Build(ctx context.Context) (*Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("index: build: %w", err)
	}

	slugs, err := b.store.ListSlugs()
	if err != nil {
		b.logger.Warn("index: enumerate failed, using empty index",
			slog.String("root", b.store.Root()),
			slog.String("error", err.Error()))
		if mkErr := os.MkdirAll(b.store.Root(), 0o755); mkErr != nil {
			b.logger.Warn("index: create docs dir failed",
				slog.String("root", b.store.Root()),
				slog.String("error", mkErr.Error()))
		}
		return newIndex(nil), nil
	}

	// Each load writes only its own slot, so completion order is irrelevant.
	loaded := make([]*models.Doc, len(slugs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, slug := range slugs {
		g.Go(func() error {
			if doc, ok := b.loader.Get(gCtx, slug); ok {
				loaded[i] = doc
			}
			return nil
		})
	}
	_ = g.Wait()

	// A cancelled load looks like a missing document; never mistake the
	// partial result for a complete index.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("index: build: %w", err)
	}

	docs := make([]*models.Doc, 0, len(loaded))
	for _, d := range loaded {
		if d != nil {
			docs = append(docs, d)
		}
	}
	Sort(docs)

	b.logger.Debug("index: built",
		slog.Int("enumerated", len(slugs)),
		slog.Int("indexed", len(docs)))
	return newIndex(docs), nil
}

// Sort orders docs by category, then order. Ties keep their input order.
func Sort(docs []*models.Doc) {
	slices.SortStableFunc(docs, func(a, b *models.Doc) int {
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return cmp.Compare(a.Order, b.Order)
	})
}
