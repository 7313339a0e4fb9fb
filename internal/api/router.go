package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/docsite/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
// docsRoot is used to resolve the assets directory.
func NewRouter(svc *docservice.Service, sseHandler http.Handler, docsRoot string, logger *slog.Logger) chi.Router {
	h := NewHandler(svc, logger)
	ah := NewAssetHandler(docsRoot)

	r := chi.NewRouter()
	r.Use(RequestLogger(logger))

	// Documents.
	r.Get("/docs", h.ListDocs)
	r.Get("/docs/{slug}", h.GetDoc)

	// Search.
	r.Get("/search", h.Search)

	// Aggregates and navigation.
	r.Get("/tags", h.Tags)
	r.Get("/categories", h.Categories)
	r.Get("/nav", h.Nav)

	// Index snapshot and regeneration.
	r.Get("/docs-index.json", h.Snapshot)
	r.Post("/index/rebuild", h.Rebuild)

	// Static assets referenced by documents.
	r.Get("/assets/{filename}", ah.ServeFile)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
