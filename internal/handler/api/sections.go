// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/section"
	"github.com/talentbridge/cms/internal/service"
	"github.com/talentbridge/cms/internal/store"
)

// SectionResponse is the API representation of a page section.
type SectionResponse struct {
	ID         int64          `json:"id"`
	PageID     int64          `json:"page_id"`
	SectionKey string         `json:"section_key"`
	Title      string         `json:"title"`
	SubTitle   string         `json:"sub_title,omitempty"`
	Meta       map[string]any `json:"meta"`
	SortOrder  int64          `json:"sort_order"`
	IsActive   bool           `json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func storeSectionToResponse(s model.Section) SectionResponse {
	return SectionResponse{
		ID:         s.ID,
		PageID:     s.PageID,
		SectionKey: string(s.SectionKey),
		Title:      s.Title,
		SubTitle:   s.SubTitle,
		Meta:       s.Meta,
		SortOrder:  s.SortOrder,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// ListPageSections returns all sections of a page ordered by sort_order,
// inactive ones included. GET /api/v1/pages/{pageID}/sections
func (h *Handler) ListPageSections(w http.ResponseWriter, r *http.Request) {
	page, ok := h.requirePageParam(w, r)
	if !ok {
		return
	}

	sections, err := h.queries.ListSectionsForPage(r.Context(), page.ID)
	if err != nil {
		slog.Error("failed to list page sections", "page_id", page.ID, "error", err)
		WriteInternalError(w, "Failed to list sections")
		return
	}

	responses := make([]SectionResponse, len(sections))
	for i, s := range sections {
		responses[i] = storeSectionToResponse(s)
	}

	WriteSuccess(w, responses, nil)
}

// CreateSection creates a section from a multipart form.
// POST /api/v1/pages/{pageID}/sections
func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	page, ok := h.requirePageParam(w, r)
	if !ok {
		return
	}

	form, ok := h.parseSectionForm(w, r)
	if !ok {
		return
	}

	meta, ok := h.storeSectionFiles(w, form)
	if !ok {
		return
	}

	now := time.Now()
	created, err := h.queries.CreateSection(r.Context(), store.CreateSectionParams{
		PageID:     page.ID,
		SectionKey: form.SectionKey,
		Title:      form.Title,
		SubTitle:   form.SubTitle,
		Meta:       meta,
		SortOrder:  form.SortOrder,
		IsActive:   form.IsActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		slog.Error("failed to create section", "page_id", page.ID, "section_key", form.SectionKey, "error", err)
		WriteInternalError(w, "Failed to create section")
		return
	}

	slog.Info("section created", "section_id", created.ID, "page_id", page.ID, "section_key", created.SectionKey)
	h.invalidatePageCache(r.Context(), page.Slug)
	WriteCreated(w, storeSectionToResponse(created))
}

// UpdateSection replaces a section's content from a multipart form. The
// section key is immutable: a submitted key that differs from the stored one
// fails validation. PUT /api/v1/pages/{pageID}/sections/{sectionID}
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	page, ok := h.requirePageParam(w, r)
	if !ok {
		return
	}

	sectionID, err := ParseInt64URLParam(r, "sectionID")
	if err != nil {
		WriteBadRequest(w, "Invalid section ID", nil)
		return
	}

	existing, err := h.queries.GetSectionByID(r.Context(), sectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Section not found")
		} else {
			WriteInternalError(w, "Failed to retrieve section")
		}
		return
	}
	if existing.PageID != page.ID {
		WriteNotFound(w, "Section not found")
		return
	}

	form, ok := h.parseSectionForm(w, r)
	if !ok {
		return
	}
	if form.SectionKey != existing.SectionKey {
		WriteValidationError(w, map[string]string{"section_key": "Section key cannot be changed"})
		return
	}

	meta, ok := h.storeSectionFiles(w, form)
	if !ok {
		return
	}

	updated, err := h.queries.UpdateSection(r.Context(), store.UpdateSectionParams{
		ID:        existing.ID,
		Title:     form.Title,
		SubTitle:  form.SubTitle,
		Meta:      meta,
		SortOrder: form.SortOrder,
		IsActive:  form.IsActive,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to update section", "section_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to update section")
		return
	}

	h.invalidatePageCache(r.Context(), page.Slug)
	WriteSuccess(w, storeSectionToResponse(updated), nil)
}

// SetSectionActiveRequest is the PATCH body for the visibility toggle.
type SetSectionActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// SetSectionActive toggles a section's visibility and nothing else.
// PATCH /api/v1/page-sections/{sectionID}
func (h *Handler) SetSectionActive(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "section", func(id int64) (model.Section, error) {
		return h.queries.GetSectionByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req SetSectionActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}
	if req.IsActive == nil {
		WriteValidationError(w, map[string]string{"is_active": "is_active is required"})
		return
	}

	updated, err := h.queries.SetSectionActive(r.Context(), store.SetSectionActiveParams{
		ID:        existing.ID,
		IsActive:  *req.IsActive,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to toggle section", "section_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to update section")
		return
	}

	h.invalidateAllPages(r.Context())
	WriteSuccess(w, storeSectionToResponse(updated), nil)
}

// DeleteSection permanently deletes a section.
// DELETE /api/v1/page-sections/{sectionID}
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "section", func(id int64) (model.Section, error) {
		return h.queries.GetSectionByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteSection(r.Context(), existing.ID); err != nil {
		slog.Error("failed to delete section", "section_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to delete section")
		return
	}

	slog.Warn("section deleted", "section_id", existing.ID, "page_id", existing.PageID, "section_key", existing.SectionKey)
	h.invalidateAllPages(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// SectionSchemas returns the full section-key registry so the admin panel
// can build its meta forms. GET /api/v1/section-schemas
func (h *Handler) SectionSchemas(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, section.Registry(), nil)
}

// requirePageParam resolves the pageID URL parameter to a page.
func (h *Handler) requirePageParam(w http.ResponseWriter, r *http.Request) (model.Page, bool) {
	id, err := ParseInt64URLParam(r, "pageID")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID", nil)
		return model.Page{}, false
	}
	page, err := h.queries.GetPageByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page not found")
		} else {
			WriteInternalError(w, "Failed to retrieve page")
		}
		return model.Page{}, false
	}
	return page, true
}

// parseSectionForm parses and validates a multipart section form. Nothing is
// written before validation passes: staged file parts stay in the multipart
// buffer and count as populated values for the keys they target.
func (h *Handler) parseSectionForm(w http.ResponseWriter, r *http.Request) (section.Form, bool) {
	form, err := section.ParseForm(r)
	if err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return section.Form{}, false
	}

	if errs := section.Validate(form); len(errs) > 0 {
		WriteValidationError(w, errs)
		return section.Form{}, false
	}

	return form, true
}

// storeSectionFiles persists the staged file parts and returns the final meta
// object: the submitted meta JSON with each uploaded file replaced by its
// server-hosted URL. File-derived values win over same-named meta keys.
func (h *Handler) storeSectionFiles(w http.ResponseWriter, form section.Form) (map[string]any, bool) {
	if len(form.Files) == 0 {
		return form.Meta, true
	}

	schema, _ := section.Lookup(form.SectionKey)
	structured := make(map[string]any, len(form.Files))
	for name, header := range form.Files {
		url, err := h.uploads.Store(header, service.UploadCategorySections)
		if err != nil {
			slog.Error("failed to store section file", "field", name, "error", err)
			WriteInternalError(w, "Failed to store uploaded file")
			return nil, false
		}
		structured[metaKeyForFieldName(schema, name)] = url
	}

	return section.MergeMeta(form.Meta, structured), true
}

// metaKeyForFieldName maps a file part name to the meta key it writes to,
// honoring the badges alias when the part matches a declared badges field.
func metaKeyForFieldName(schema section.SchemaEntry, name string) string {
	for _, f := range schema.Fields {
		if f.Name == name {
			return section.MetaKeyFor(f)
		}
	}
	return name
}
