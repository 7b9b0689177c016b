// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/talentbridge/cms/internal/middleware"
	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/store"
	"github.com/talentbridge/cms/internal/util"
)

// PageRequest is the create/update payload for pages.
type PageRequest struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Status          string `json:"status"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
}

// PageResponse is the API representation of a page.
type PageResponse struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Status          string     `json:"status"`
	MetaTitle       string     `json:"meta_title,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

func storePageToResponse(p model.Page) PageResponse {
	resp := PageResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Status:          p.Status,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.PublishedAt.Valid {
		resp.PublishedAt = &p.PublishedAt.Time
	}
	return resp
}

func (r *PageRequest) validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = "Title is required"
	}
	if r.Status != "" && !model.IsValidPageStatus(r.Status) {
		errs["status"] = "Status must be draft or published"
	}
	return errs
}

// normalize derives defaults: a missing slug comes from the title, a missing
// status means draft.
func (r *PageRequest) normalize() {
	if r.Slug == "" {
		r.Slug = util.Slugify(r.Title)
	} else {
		r.Slug = util.Slugify(r.Slug)
	}
	if r.Status == "" {
		r.Status = model.PageStatusDraft
	}
}

// ListPages returns a paginated page list. GET /api/v1/pages
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, DefaultPerPage, MaxPerPage)

	total, err := h.queries.CountPages(r.Context())
	if err != nil {
		slog.Error("failed to count pages", "error", err)
		WriteInternalError(w, "Failed to list pages")
		return
	}

	pages, err := h.queries.ListPages(r.Context(), store.ListPagesParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("failed to list pages", "error", err)
		WriteInternalError(w, "Failed to list pages")
		return
	}

	responses := make([]PageResponse, len(pages))
	for i, p := range pages {
		responses[i] = storePageToResponse(p)
	}

	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pageCount(total, perPage),
	})
}

// GetPage returns a single page by ID. GET /api/v1/pages/{id}
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, ok := requireEntityByID(w, r, "page", func(id int64) (model.Page, error) {
		return h.queries.GetPageByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, storePageToResponse(page), nil)
}

// GetPageBySlug returns a page by slug. Anonymous lookups see published pages
// only; requests carrying a valid API key may preview drafts.
// GET /api/v1/pages/slug/{slug}
func (h *Handler) GetPageBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Missing slug", nil)
		return
	}

	var page model.Page
	var err error
	if middleware.GetAPIKey(r) != nil {
		page, err = h.queries.GetPageBySlug(r.Context(), slug)
	} else {
		page, err = h.queries.GetPublishedPageBySlug(r.Context(), slug)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page not found")
		} else {
			WriteInternalError(w, "Failed to retrieve page")
		}
		return
	}

	WriteSuccess(w, storePageToResponse(page), nil)
}

// CreatePage creates a page. POST /api/v1/pages
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}
	req.normalize()

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.PageSlugExists(r.Context(), req.Slug)
	}) {
		return
	}

	now := time.Now()
	created, err := h.queries.CreatePage(r.Context(), store.CreatePageParams{
		Title:           req.Title,
		Slug:            req.Slug,
		Status:          req.Status,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		slog.Error("failed to create page", "slug", req.Slug, "error", err)
		WriteInternalError(w, "Failed to create page")
		return
	}

	slog.Info("page created", "page_id", created.ID, "slug", created.Slug)
	WriteCreated(w, storePageToResponse(created))
}

// UpdatePage updates a page. PUT /api/v1/pages/{id}
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "page", func(id int64) (model.Page, error) {
		return h.queries.GetPageByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}
	req.normalize()

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.PageSlugExistsExcluding(r.Context(), store.PageSlugExistsExcludingParams{
			Slug: req.Slug,
			ID:   existing.ID,
		})
	}) {
		return
	}

	updated, err := h.queries.UpdatePage(r.Context(), store.UpdatePageParams{
		ID:              existing.ID,
		Title:           req.Title,
		Slug:            req.Slug,
		Status:          req.Status,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		UpdatedAt:       time.Now(),
	})
	if err != nil {
		slog.Error("failed to update page", "page_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to update page")
		return
	}

	h.invalidatePageCache(r.Context(), existing.Slug)
	if updated.Slug != existing.Slug {
		h.invalidatePageCache(r.Context(), updated.Slug)
	}
	WriteSuccess(w, storePageToResponse(updated), nil)
}

// DeletePage deletes a page and, through the schema's cascade, its sections.
// DELETE /api/v1/pages/{id}
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "page", func(id int64) (model.Page, error) {
		return h.queries.GetPageByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeletePage(r.Context(), existing.ID); err != nil {
		slog.Error("failed to delete page", "page_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to delete page")
		return
	}

	slog.Warn("page deleted", "page_id", existing.ID, "slug", existing.Slug)
	h.invalidatePageCache(r.Context(), existing.Slug)
	w.WriteHeader(http.StatusNoContent)
}
