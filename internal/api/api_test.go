package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/docsite/internal/docservice"
	"github.com/starford/docsite/internal/index"
	"github.com/starford/docsite/internal/loader"
	"github.com/starford/docsite/internal/testutil"
)

// testEnv sets up a temp docs dir with a few documents, a service and a
// router.
func testEnv(t *testing.T) (*docservice.Service, http.Handler, string) {
	t.Helper()
	docsDir, store := testutil.TestDocs(t)
	logger := testutil.Logger()

	testutil.WriteDoc(t, store, "start", map[string]any{"title": "Getting Started", "category": "Guides", "order": 1, "tags": []string{"intro"}}, "# Start\n\nBegin here.")
	testutil.WriteDoc(t, store, "deploy", map[string]any{"title": "Deploy", "category": "Guides", "order": 2, "tags": []string{"ops"}}, "Ship it.")
	testutil.WriteDoc(t, store, "faq", map[string]any{"title": "FAQ"}, "Questions and answers.")

	ldr := loader.New(store, logger)
	snap := filepath.Join(t.TempDir(), "docs-index.json")
	svc := docservice.New(store, ldr, index.NewBuilder(store, ldr, logger, 2), snap, logger)
	return svc, NewRouter(svc, nil, docsDir, logger), docsDir
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestRebuildThenList(t *testing.T) {
	_, router, _ := testEnv(t)

	w := do(t, router, http.MethodPost, "/index/rebuild")
	if w.Code != http.StatusOK {
		t.Fatalf("rebuild status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := decode[RebuildResponse](t, w); got.Documents != 3 {
		t.Errorf("documents = %d, want 3", got.Documents)
	}

	w = do(t, router, http.MethodGet, "/docs")
	list := decode[DocListResponse](t, w)
	if list.Total != 3 || len(list.Docs) != 3 {
		t.Fatalf("list = %+v", list)
	}
	if list.Docs[0].Slug != "faq" || list.Docs[1].Slug != "start" {
		t.Errorf("order = %s, %s", list.Docs[0].Slug, list.Docs[1].Slug)
	}

	w = do(t, router, http.MethodGet, "/docs?tag=ops&category=Guides")
	if list := decode[DocListResponse](t, w); list.Total != 1 || list.Docs[0].Slug != "deploy" {
		t.Errorf("filtered list = %+v", list)
	}
}

func TestGetDoc(t *testing.T) {
	svc, router, _ := testEnv(t)
	_, _ = svc.Rebuild(context.Background())

	w := do(t, router, http.MethodGet, "/docs/start")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	page := decode[Page](t, w)
	if page.Doc.Title != "Getting Started" || page.Doc.Slug != "start" {
		t.Errorf("doc = %+v", page.Doc)
	}
	if len(page.Doc.Headings) != 1 || page.Doc.Headings[0].ID != "start" {
		t.Errorf("headings = %+v", page.Doc.Headings)
	}
	if page.Next == nil || page.Next.Slug != "deploy" {
		t.Errorf("next = %+v", page.Next)
	}
}

func TestGetDoc_NotFound(t *testing.T) {
	_, router, _ := testEnv(t)
	for _, target := range []string{"/docs/missing", "/docs/..", "/docs/.hidden", "/docs/a%2Fb"} {
		if w := do(t, router, http.MethodGet, target); w.Code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", target, w.Code)
		}
	}
}

func TestSearch(t *testing.T) {
	svc, router, _ := testEnv(t)

	w := do(t, router, http.MethodGet, "/search?q=deploy")
	if got := decode[SearchResponse](t, w); w.Code != http.StatusOK || len(got.Results) != 0 {
		t.Errorf("search without snapshot = %d %+v", w.Code, got)
	}

	_, _ = svc.Rebuild(context.Background())

	w = do(t, router, http.MethodGet, "/search?q=GUIDES")
	if got := decode[SearchResponse](t, w); len(got.Results) != 2 {
		t.Errorf("results = %+v", got.Results)
	}
	w = do(t, router, http.MethodGet, "/search?q=guides&limit=1")
	if got := decode[SearchResponse](t, w); len(got.Results) != 1 {
		t.Errorf("limited results = %+v", got.Results)
	}
	w = do(t, router, http.MethodGet, "/search")
	if got := decode[SearchResponse](t, w); w.Code != http.StatusOK || got.Results == nil || len(got.Results) != 0 {
		t.Errorf("empty query = %d %s", w.Code, w.Body.String())
	}
}

func TestAggregates(t *testing.T) {
	svc, router, _ := testEnv(t)
	_, _ = svc.Rebuild(context.Background())

	if got := decode[TagsResponse](t, do(t, router, http.MethodGet, "/tags")); len(got.Tags) != 2 {
		t.Errorf("tags = %v", got.Tags)
	}
	if got := decode[CategoriesResponse](t, do(t, router, http.MethodGet, "/categories")); len(got.Categories) != 2 {
		t.Errorf("categories = %v", got.Categories)
	}
	nav := decode[NavResponse](t, do(t, router, http.MethodGet, "/nav"))
	if len(nav.Sections) != 2 || nav.Sections[0].Category != "General" {
		t.Errorf("nav = %+v", nav.Sections)
	}
}

func TestSnapshot(t *testing.T) {
	svc, router, _ := testEnv(t)

	w := do(t, router, http.MethodGet, "/docs-index.json")
	if w.Code != http.StatusOK || w.Body.String() != "[]\n" {
		t.Errorf("missing snapshot = %d %q", w.Code, w.Body.String())
	}

	_, _ = svc.Rebuild(context.Background())
	w = do(t, router, http.MethodGet, "/docs-index.json")
	entries := decode[[]Entry](t, w)
	if len(entries) != 3 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestAssets(t *testing.T) {
	_, router, docsDir := testEnv(t)
	assets := filepath.Join(docsDir, "assets")
	if err := os.MkdirAll(assets, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(assets, "logo.txt"), []byte("logo"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := do(t, router, http.MethodGet, "/assets/logo.txt")
	if w.Code != http.StatusOK || w.Body.String() != "logo" {
		t.Errorf("asset = %d %q", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodGet, "/assets/missing.png"); w.Code != http.StatusNotFound {
		t.Errorf("missing asset = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/assets/..%2Fstart.md"); w.Code != http.StatusBadRequest {
		t.Errorf("traversal = %d, want 400", w.Code)
	}
}

func TestSearch_LimitCapped(t *testing.T) {
	docsDir, store := testutil.TestDocs(t)
	logger := testutil.Logger()
	for i := range 20 {
		testutil.WriteDoc(t, store, fmt.Sprintf("guide-%02d", i), map[string]any{"title": "Guide"}, "x")
	}
	ldr := loader.New(store, logger)
	snap := filepath.Join(t.TempDir(), "docs-index.json")
	svc := docservice.New(store, ldr, index.NewBuilder(store, ldr, logger, 2), snap, logger)
	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}
	router := NewRouter(svc, nil, docsDir, logger)

	w := do(t, router, http.MethodGet, "/search?q=guide&limit=100")
	if got := decode[SearchResponse](t, w); len(got.Results) != 8 {
		t.Errorf("results = %d, want 8", len(got.Results))
	}
}
