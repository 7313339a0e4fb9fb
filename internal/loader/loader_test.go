package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/docsite/internal/apperr"
	"github.com/starford/docsite/internal/models"
	"github.com/starford/docsite/internal/storage"
	"github.com/starford/docsite/internal/testutil"
)

func newLoader(t *testing.T) (*Loader, *storage.FS) {
	t.Helper()
	_, store := testutil.TestDocs(t)
	return New(store, testutil.Logger()), store
}

func TestLoad_FullFrontmatter(t *testing.T) {
	l, store := newLoader(t)
	testutil.WriteDoc(t, store, "getting-started", map[string]any{
		"title":    "Getting Started",
		"category": "Guides",
		"tags":     []string{"intro", "setup", "intro"},
		"order":    2,
		"excerpt":  "Start here.",
		"date":     "2024-01-15",
		"updated":  "2024-02-01T10:30:00Z",
		"author":   map[string]any{"name": "Ada"},
		"draft":    false,
	}, "# Getting Started\n\nWelcome.\n")

	doc, err := l.Load(context.Background(), "getting-started")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Slug != "getting-started" {
		t.Errorf("slug = %q", doc.Slug)
	}
	if doc.Title != "Getting Started" || doc.Category != "Guides" || doc.Order != 2 {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.Tags) != 2 || doc.Tags[0] != "intro" || doc.Tags[1] != "setup" {
		t.Errorf("tags = %v, want [intro setup]", doc.Tags)
	}
	if doc.Excerpt != "Start here." {
		t.Errorf("excerpt = %q", doc.Excerpt)
	}
	if !doc.Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", doc.Date)
	}
	if !doc.Updated.Equal(time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("updated = %v", doc.Updated)
	}
	if doc.Content != "# Getting Started\n\nWelcome.\n" {
		t.Errorf("content = %q", doc.Content)
	}
	if len(doc.Headings) != 1 || doc.Headings[0].ID != "getting-started" {
		t.Errorf("headings = %+v", doc.Headings)
	}
	if _, ok := doc.Extra["author"].Map(); !ok {
		t.Errorf("author not passed through: %v", doc.Extra)
	}
	if _, ok := doc.Extra["draft"]; !ok {
		t.Errorf("draft not passed through: %v", doc.Extra)
	}
	if _, ok := doc.Extra["title"]; ok {
		t.Errorf("known key leaked into extra")
	}
	if doc.Checksum == "" {
		t.Error("checksum not set")
	}
}

func TestLoad_Defaults(t *testing.T) {
	l, store := newLoader(t)
	testutil.WriteDoc(t, store, "bare", nil, "Just text.")
	stamp := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(store.Root(), "bare.md"), stamp, stamp); err != nil {
		t.Fatal(err)
	}

	doc, err := l.Load(context.Background(), "bare")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Title != models.DefaultTitle {
		t.Errorf("title = %q, want %q", doc.Title, models.DefaultTitle)
	}
	if doc.Category != models.DefaultCategory {
		t.Errorf("category = %q", doc.Category)
	}
	if doc.Order != models.DefaultOrder {
		t.Errorf("order = %d", doc.Order)
	}
	if doc.Tags == nil || len(doc.Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil", doc.Tags)
	}
	if !doc.Updated.Equal(stamp) {
		t.Errorf("updated = %v, want file mtime %v", doc.Updated, stamp)
	}
	if doc.Date.IsZero() {
		t.Error("date should fall back to file time")
	}
	if doc.Excerpt != "Just text." {
		t.Errorf("excerpt = %q", doc.Excerpt)
	}
}

func TestLoad_ExplicitZeroOrder(t *testing.T) {
	l, store := newLoader(t)
	testutil.WriteDoc(t, store, "first", map[string]any{"order": 0}, "x")
	doc, err := l.Load(context.Background(), "first")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Order != 0 {
		t.Errorf("order = %d, want 0", doc.Order)
	}
}

func TestLoad_SingleStringTag(t *testing.T) {
	l, store := newLoader(t)
	testutil.WriteDoc(t, store, "one", map[string]any{"tags": "solo"}, "x")
	doc, _ := l.Load(context.Background(), "one")
	if len(doc.Tags) != 1 || doc.Tags[0] != "solo" {
		t.Errorf("tags = %v", doc.Tags)
	}
}

func TestLoad_SlugMatchesInput(t *testing.T) {
	l, store := newLoader(t)
	for _, slug := range []string{"a", "b-c", "release.notes"} {
		testutil.WriteDoc(t, store, slug, map[string]any{"title": slug}, "body")
	}
	for _, slug := range []string{"a", "b-c", "release.notes"} {
		doc, ok := l.Get(context.Background(), slug)
		if !ok || doc.Slug != slug {
			t.Errorf("Get(%q) = %+v, %v", slug, doc, ok)
		}
	}
}

func TestLoad_NotFound(t *testing.T) {
	l, _ := newLoader(t)
	_, err := l.Load(context.Background(), "ghost")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if doc, ok := l.Get(context.Background(), "ghost"); ok || doc != nil {
		t.Errorf("Get(ghost) = %v, %v, want absent", doc, ok)
	}
}

func TestLoad_ParseFailureIsAbsent(t *testing.T) {
	l, store := newLoader(t)
	_ = store.Write("broken.md", []byte("---\ntitle: [unclosed\n---\nbody\n"))
	_, err := l.Load(context.Background(), "broken")
	if !errors.Is(err, apperr.ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
	if _, ok := l.Get(context.Background(), "broken"); ok {
		t.Error("Get should report absence for a parse failure")
	}
}

func TestLoad_TraversalRejected(t *testing.T) {
	parent := t.TempDir()
	store, err := storage.NewFS(filepath.Join(parent, "docs"))
	if err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(filepath.Join(parent, "outside.md"), []byte("---\ntitle: Secret\n---\n"), 0o644)
	l := New(store, testutil.Logger())

	for _, slug := range []string{"../outside", "..%2Foutside", "sub/../../outside", "/etc/passwd"} {
		doc, ok := l.Get(context.Background(), slug)
		if ok || doc != nil {
			t.Errorf("Get(%q) returned a document", slug)
		}
	}
	_, err = l.Load(context.Background(), "../outside")
	if !errors.Is(err, apperr.ErrInvalidSlug) {
		t.Errorf("err = %v, want ErrInvalidSlug", err)
	}
}

func TestExcerpt_Precedence(t *testing.T) {
	long := strings.Repeat("a", 200)
	cases := []struct {
		name string
		meta map[string]any
		body string
		want string
	}{
		{"explicit wins over separator", map[string]any{"excerpt": "Explicit"}, "Before\n<!-- excerpt -->\nAfter", "Explicit"},
		{"separator", map[string]any{}, "Before sep\n<!-- excerpt -->\nAfter", "Before sep"},
		{"blank explicit falls through", map[string]any{"excerpt": "  "}, "Before\n<!-- excerpt -->\n", "Before"},
		{"empty before separator falls through", map[string]any{}, "<!-- excerpt -->\nShort body", "Short body"},
		{"short body untouched", map[string]any{}, "Short body.", "Short body."},
		{"long body truncated", map[string]any{}, long, strings.Repeat("a", 150) + "..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, store := newLoader(t)
			testutil.WriteDoc(t, store, "doc", tc.meta, tc.body)
			doc, err := l.Load(context.Background(), "doc")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if doc.Excerpt != tc.want {
				t.Errorf("excerpt = %q, want %q", doc.Excerpt, tc.want)
			}
		})
	}
}

func TestExcerpt_CustomLength(t *testing.T) {
	_, store := testutil.TestDocs(t)
	l := New(store, testutil.Logger(), WithExcerptLength(10))
	testutil.WriteDoc(t, store, "doc", nil, "0123456789abcdef")
	doc, _ := l.Load(context.Background(), "doc")
	if doc.Excerpt != "0123456789..." {
		t.Errorf("excerpt = %q", doc.Excerpt)
	}
}

func TestTruncate_Runes(t *testing.T) {
	if got := Truncate("héllo wörld", 5); got != "héllo..." {
		t.Errorf("Truncate = %q", got)
	}
}

func TestReadingTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{1, 1},
		{200, 1},
		{201, 2},
		{400, 2},
		{401, 3},
	}
	for _, tc := range cases {
		if got := ReadingTime(testutil.Words(tc.words)); got != tc.want {
			t.Errorf("ReadingTime(%d words) = %d, want %d", tc.words, got, tc.want)
		}
	}
	if got := ReadingTime(""); got != 0 {
		t.Errorf("ReadingTime(empty) = %d, want 0", got)
	}
}

func TestLoad_UnparseableDateFallsBack(t *testing.T) {
	l, store := newLoader(t)
	testutil.WriteDoc(t, store, "d", map[string]any{"date": "next tuesday"}, "x")
	doc, err := l.Load(context.Background(), "d")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Date.IsZero() || doc.Date.Year() < 2000 {
		t.Errorf("date = %v, want file time", doc.Date)
	}
}

func TestLoad_NoCaching(t *testing.T) {
	l, store := newLoader(t)
	testutil.WriteDoc(t, store, "live", map[string]any{"title": "One"}, "x")
	first, _ := l.Get(context.Background(), "live")
	testutil.WriteDoc(t, store, "live", map[string]any{"title": "Two"}, "x")
	second, _ := l.Get(context.Background(), "live")
	if first.Title != "One" || second.Title != "Two" {
		t.Errorf("titles = %q, %q", first.Title, second.Title)
	}
}
