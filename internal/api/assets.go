package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/docsite/internal/storage"
)

const assetsDir = "assets"

// AssetHandler serves static files stored next to the documents.
type AssetHandler struct {
	docsRoot string
}

// NewAssetHandler creates a handler rooted at the docs directory.
func NewAssetHandler(docsRoot string) *AssetHandler {
	return &AssetHandler{docsRoot: docsRoot}
}

func (h *AssetHandler) assetsPath() string {
	return filepath.Join(h.docsRoot, assetsDir)
}

// safeName validates that name is a plain file name and returns its
// absolute path under the assets dir.
func (h *AssetHandler) safeName(name string) (string, error) {
	if err := storage.ValidateSlug(name); err != nil {
		return "", err
	}
	abs := filepath.Join(h.assetsPath(), name)
	if !strings.HasPrefix(abs, h.assetsPath()+string(os.PathSeparator)) {
		return "", errors.New("path escapes assets directory")
	}
	return abs, nil
}

// ServeFile handles GET /assets/{filename}.
func (h *AssetHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	abs, err := h.safeName(chi.URLParam(r, "filename"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid filename"))
		return
	}
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}
