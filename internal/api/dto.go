package api

import (
	"github.com/starford/docsite/internal/docservice"
	"github.com/starford/docsite/internal/models"
	"github.com/starford/docsite/internal/nav"
)

// Entry is the list/search projection of a document.
type Entry = models.Entry

// Page is a document with breadcrumbs and neighbours.
type Page = docservice.Page

// DocListResponse wraps document listings.
type DocListResponse struct {
	Docs  []Entry `json:"docs" validate:"required"`
	Total int     `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []Entry `json:"results" validate:"required"`
}

// TagsResponse lists every tag in the index.
type TagsResponse struct {
	Tags []string `json:"tags" example:"setup,intro" validate:"required"`
}

// CategoriesResponse lists every category in the index.
type CategoriesResponse struct {
	Categories []string `json:"categories" example:"General,Guides" validate:"required"`
}

// NavResponse is the sidebar structure.
type NavResponse struct {
	Sections []nav.Section `json:"sections" validate:"required"`
}

// RebuildResponse is returned after the index has been regenerated.
type RebuildResponse struct {
	Documents int `json:"documents" example:"12" validate:"required"`
}
