// Package testutil provides shared test helpers for setting up docs directories.
package testutil

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/starford/docsite/internal/storage"
)

// TestDocs creates a temporary docs directory with a storage provider.
func TestDocs(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WriteDoc writes slug.md with meta rendered as YAML front matter. A nil
// meta writes the body alone.
func WriteDoc(t *testing.T, store *storage.FS, slug string, meta map[string]any, body string) {
	t.Helper()
	var b strings.Builder
	if meta != nil {
		fm, err := yaml.Marshal(meta)
		if err != nil {
			t.Fatal(err)
		}
		b.WriteString("---\n")
		b.Write(fm)
		b.WriteString("---\n")
	}
	b.WriteString(body)
	if err := store.Write(slug+storage.Ext, []byte(b.String())); err != nil {
		t.Fatalf("write %s: %v", slug, err)
	}
}

// Words returns n space-separated words.
func Words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}
