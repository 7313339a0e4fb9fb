package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/docsite/internal/docservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc    *docservice.Service
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// ListDocs handles GET /docs.
//
//	@Summary		List indexed documents in index order
//	@Tags			docs
//	@Produce		json
//	@Param			tag			query		string	false	"Filter by tag"
//	@Param			category	query		string	false	"Filter by category"
//	@Success		200			{object}	DocListResponse
//	@Router			/docs [get]
func (h *Handler) ListDocs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	docs := h.svc.List(r.Context(), q.Get("tag"), q.Get("category"))
	writeJSON(w, http.StatusOK, DocListResponse{Docs: docs, Total: len(docs)})
}

// GetDoc handles GET /docs/{slug}.
//
//	@Summary		Get a document with its navigation context
//	@Tags			docs
//	@Produce		json
//	@Param			slug	path		string	true	"Document slug"
//	@Success		200		{object}	Page
//	@Failure		404		{object}	errResponse
//	@Router			/docs/{slug} [get]
func (h *Handler) GetDoc(w http.ResponseWriter, r *http.Request) {
	page, ok := h.svc.Page(r.Context(), chi.URLParam(r, "slug"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Search handles GET /search.
//
//	@Summary		Substring search over titles, excerpts, categories and tags
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	false	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	results := h.svc.Search(r.Context(), q.Get("q"), limit)
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Tags handles GET /tags.
//
//	@Summary		List every tag
//	@Tags			docs
//	@Produce		json
//	@Success		200	{object}	TagsResponse
//	@Router			/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TagsResponse{Tags: h.svc.Tags(r.Context())})
}

// Categories handles GET /categories.
//
//	@Summary		List every category
//	@Tags			docs
//	@Produce		json
//	@Success		200	{object}	CategoriesResponse
//	@Router			/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: h.svc.Categories(r.Context())})
}

// Nav handles GET /nav.
//
//	@Summary		Sidebar sections grouped by category
//	@Tags			docs
//	@Produce		json
//	@Success		200	{object}	NavResponse
//	@Router			/nav [get]
func (h *Handler) Nav(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NavResponse{Sections: h.svc.Sidebar(r.Context())})
}

// Snapshot handles GET /docs-index.json.
//
//	@Summary		The persisted index snapshot
//	@Tags			index
//	@Produce		json
//	@Success		200	{array}	Entry
//	@Router			/docs-index.json [get]
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	path := h.svc.SnapshotPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		writeJSON(w, http.StatusOK, []Entry{})
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	http.ServeFile(w, r, path)
}

// Rebuild handles POST /index/rebuild.
//
//	@Summary		Regenerate the index and its snapshot
//	@Tags			index
//	@Produce		json
//	@Success		200	{object}	RebuildResponse
//	@Failure		500	{object}	errResponse
//	@Router			/index/rebuild [post]
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	ix, err := h.svc.Rebuild(r.Context())
	if err != nil {
		h.logger.Error("rebuild failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("rebuild failed"))
		return
	}
	writeJSON(w, http.StatusOK, RebuildResponse{Documents: ix.Len()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}
