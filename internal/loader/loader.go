// Package loader turns a single documentation source file into a models.Doc.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/starford/docsite/internal/apperr"
	"github.com/starford/docsite/internal/checksum"
	"github.com/starford/docsite/internal/models"
	"github.com/starford/docsite/internal/parser"
	"github.com/starford/docsite/internal/storage"
)

const (
	// DefaultExcerptLength is the number of characters kept by the
	// truncation fallback.
	DefaultExcerptLength = 150
	// WordsPerMinute drives the reading-time estimate.
	WordsPerMinute = 200

	ellipsis = "..."
)

// Front-matter keys with a typed projection on models.Doc. Every other key
// is carried in Doc.Extra.
var knownKeys = map[string]struct{}{
	"title":    {},
	"date":     {},
	"updated":  {},
	"tags":     {},
	"excerpt":  {},
	"category": {},
	"order":    {},
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Loader reads and normalizes documents. It holds no per-document state.
type Loader struct {
	store         storage.Provider
	logger        *slog.Logger
	excerptLength int
}

// Option configures a Loader.
type Option func(*Loader)

// WithExcerptLength overrides the truncation length of the excerpt fallback.
func WithExcerptLength(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.excerptLength = n
		}
	}
}

// New creates a Loader reading from store.
func New(store storage.Provider, logger *slog.Logger, opts ...Option) *Loader {
	l := &Loader{store: store, logger: logger, excerptLength: DefaultExcerptLength}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Get loads slug and reports absence for any failure. Failures are logged
// with the slug and cause; they never propagate.
func (l *Loader) Get(ctx context.Context, slug string) (*models.Doc, bool) {
	doc, err := l.Load(ctx, slug)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, apperr.ErrNotFound) {
			level = slog.LevelDebug
		}
		l.logger.Log(ctx, level, "loader: document unavailable",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
		return nil, false
	}
	return doc, true
}

// Load reads and parses the document for slug. Errors wrap
// apperr.ErrInvalidSlug, apperr.ErrNotFound or apperr.ErrParse.
func (l *Loader) Load(ctx context.Context, slug string) (*models.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := l.store.ReadDoc(slug)
	if err != nil {
		return nil, err
	}
	res, err := parser.Parse(f.Data)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", slug, err)
	}
	return l.build(f, res), nil
}

func (l *Loader) build(f *storage.File, res *parser.Result) *models.Doc {
	meta := res.Meta
	doc := &models.Doc{
		Slug:        f.Slug,
		Title:       stringOr(meta["title"], models.DefaultTitle),
		Content:     res.Body,
		Category:    stringOr(meta["category"], models.DefaultCategory),
		Tags:        tags(meta["tags"]),
		Order:       models.DefaultOrder,
		Excerpt:     l.excerpt(meta["excerpt"], res.Body),
		ReadingTime: ReadingTime(res.Body),
		Date:        l.timestamp(f.Slug, "date", meta["date"], f.BirthTime),
		Updated:     l.timestamp(f.Slug, "updated", meta["updated"], f.ModTime),
		Headings:    parser.Headings(res.Body),
		Checksum:    checksum.Sum(f.Data),
	}
	if n, ok := meta["order"].Int(); ok {
		doc.Order = n
	}
	for k, v := range meta {
		if _, known := knownKeys[k]; known {
			continue
		}
		if doc.Extra == nil {
			doc.Extra = make(map[string]models.Value)
		}
		doc.Extra[k] = v
	}
	return doc
}

// excerpt applies the precedence: explicit front matter, then the text
// before the separator, then the truncated body. Blank candidates fall
// through.
func (l *Loader) excerpt(explicit models.Value, body string) string {
	if s, ok := explicit.Str(); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	s, found := parser.SplitExcerpt(body)
	if found && s != "" {
		return s
	}
	if found {
		body = strings.Replace(body, parser.ExcerptSeparator, "", 1)
	}
	return Truncate(body, l.excerptLength)
}

// timestamp parses a front-matter date, falling back to the file time.
func (l *Loader) timestamp(slug, key string, v models.Value, fallback time.Time) time.Time {
	s, ok := v.Str()
	if !ok || strings.TrimSpace(s) == "" {
		return fallback.UTC()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.UTC()
		}
	}
	l.logger.Warn("loader: unparseable date, using file time",
		slog.String("slug", slug),
		slog.String("key", key),
		slog.String("value", s))
	return fallback.UTC()
}

// Truncate returns the first n characters of body, trimmed, with an
// ellipsis appended when anything was cut.
func Truncate(body string, n int) string {
	if utf8.RuneCountInString(body) <= n {
		return strings.TrimSpace(body)
	}
	runes := []rune(body)
	return strings.TrimSpace(string(runes[:n])) + ellipsis
}

// ReadingTime estimates whole minutes at WordsPerMinute. Any non-empty
// content takes at least a minute.
func ReadingTime(body string) int {
	if strings.TrimSpace(body) == "" {
		return 0
	}
	words := parser.WordCount(body)
	return max(1, int(math.Ceil(float64(words)/WordsPerMinute)))
}

// stringOr renders scalar values as text; lists, maps and blanks yield def.
func stringOr(v models.Value, def string) string {
	switch v.Kind() {
	case models.KindString, models.KindInt, models.KindFloat, models.KindBool:
		if s := v.String(); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return def
}

// tags de-duplicates the front-matter tags, keeping first occurrences.
func tags(v models.Value) []string {
	out := []string{}
	items, _ := v.Strings()
	seen := make(map[string]struct{}, len(items))
	for _, t := range items {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
