// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/talentbridge/cms/internal/model"
)

func decodePageResponse(t *testing.T, w *httptest.ResponseRecorder) PageResponse {
	t.Helper()
	var resp struct {
		Data PageResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal page response: %v", err)
	}
	return resp.Data
}

func TestCreatePage(t *testing.T) {
	_, h := testSetup(t)

	body := `{"title": "About Us", "status": "published", "meta_description": "Who we are"}`
	w := doRequest(h, httptest.NewRequest(http.MethodPost, "/api/v1/pages", strings.NewReader(body)))

	assertStatusCode(t, w, http.StatusCreated)
	created := decodePageResponse(t, w)
	if created.Slug != "about-us" {
		t.Errorf("slug = %q, want about-us (derived from title)", created.Slug)
	}
	if created.Status != model.PageStatusPublished {
		t.Errorf("status = %q, want published", created.Status)
	}
	if created.MetaDescription != "Who we are" {
		t.Errorf("meta_description = %q", created.MetaDescription)
	}
}

func TestCreatePageValidation(t *testing.T) {
	_, h := testSetup(t)

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantField string
	}{
		{"missing title", `{"slug": "x"}`, http.StatusUnprocessableEntity, "title"},
		{"bad status", `{"title": "Hi", "status": "archived"}`, http.StatusUnprocessableEntity, "status"},
		{"bad json", `{`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(h, httptest.NewRequest(http.MethodPost, "/api/v1/pages", strings.NewReader(tt.body)))
			assertStatusCode(t, w, tt.wantCode)
			if tt.wantField != "" {
				resp := assertErrorResponse(t, w, "validation_error")
				if _, ok := resp.Error.Details[tt.wantField]; !ok {
					t.Errorf("expected detail for %q, got %v", tt.wantField, resp.Error.Details)
				}
			}
		})
	}
}

func TestCreatePageDuplicateSlug(t *testing.T) {
	db, h := testSetup(t)
	seedPage(t, db, "Home", "home", model.PageStatusPublished)

	body := `{"title": "Another", "slug": "home"}`
	w := doRequest(h, httptest.NewRequest(http.MethodPost, "/api/v1/pages", strings.NewReader(body)))

	assertStatusCode(t, w, http.StatusUnprocessableEntity)
	resp := assertErrorResponse(t, w, "validation_error")
	if resp.Error.Details["slug"] == "" {
		t.Errorf("expected slug detail, got %v", resp.Error.Details)
	}
}

func TestGetPageBySlugPublishedOnly(t *testing.T) {
	db, h := testSetup(t)
	seedPage(t, db, "Home", "home", model.PageStatusPublished)
	seedPage(t, db, "Draft", "draft-page", model.PageStatusDraft)

	w := doRequest(h, httptest.NewRequest(http.MethodGet, "/api/v1/pages/slug/home", nil))
	assertStatusCode(t, w, http.StatusOK)
	if got := decodePageResponse(t, w); got.Slug != "home" {
		t.Errorf("slug = %q", got.Slug)
	}

	w = doRequest(h, httptest.NewRequest(http.MethodGet, "/api/v1/pages/slug/draft-page", nil))
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestGetPageBySlugDraftPreviewWithAPIKey(t *testing.T) {
	db, h := testSetup(t)
	seedPage(t, db, "Draft", "draft-page", model.PageStatusDraft)
	rawKey := seedAPIKey(t, db)

	// Anonymous lookups still 404 on drafts.
	w := doOptionalAuthRequest(db, h, httptest.NewRequest(http.MethodGet, "/api/v1/pages/slug/draft-page", nil))
	assertStatusCode(t, w, http.StatusNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/slug/draft-page", nil)
	req.Header.Set("Authorization", "Bearer "+rawKey)
	w = doOptionalAuthRequest(db, h, req)
	assertStatusCode(t, w, http.StatusOK)
	if got := decodePageResponse(t, w); got.Status != model.PageStatusDraft {
		t.Errorf("status = %q, want draft", got.Status)
	}

	// A bogus key gets the anonymous view, not an error.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/pages/slug/draft-page", nil)
	req.Header.Set("Authorization", "Bearer tb_bogus")
	w = doOptionalAuthRequest(db, h, req)
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestUpdatePage(t *testing.T) {
	db, h := testSetup(t)
	page := seedPage(t, db, "Home", "home", model.PageStatusDraft)

	body := `{"title": "Homepage", "slug": "home", "status": "published"}`
	w := doRequest(h, httptest.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/pages/%d", page.ID), strings.NewReader(body)))

	assertStatusCode(t, w, http.StatusOK)
	updated := decodePageResponse(t, w)
	if updated.Title != "Homepage" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.Status != model.PageStatusPublished {
		t.Errorf("status = %q, want published", updated.Status)
	}
	if updated.PublishedAt == nil {
		t.Error("expected published_at set on publish")
	}
}

func TestDeletePageCascadesSections(t *testing.T) {
	db, h := testSetup(t)
	page := seedPage(t, db, "Home", "home", model.PageStatusPublished)
	seedSection(t, db, page.ID, model.SectionHero, "Hero", map[string]any{"description": "hi"}, 0)

	w := doRequest(h, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/pages/%d", page.ID), nil))
	assertStatusCode(t, w, http.StatusNoContent)

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM page_sections`).Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected cascade delete of sections, found %d", n)
	}
}

func TestListPagesPagination(t *testing.T) {
	db, h := testSetup(t)
	for i := 0; i < 5; i++ {
		seedPage(t, db, fmt.Sprintf("Page %d", i), fmt.Sprintf("page-%d", i), model.PageStatusPublished)
	}

	w := doRequest(h, httptest.NewRequest(http.MethodGet, "/api/v1/pages?page=2&per_page=2", nil))
	assertStatusCode(t, w, http.StatusOK)

	var resp struct {
		Data []PageResponse `json:"data"`
		Meta *Meta          `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("expected 2 pages, got %d", len(resp.Data))
	}
	if resp.Meta == nil || resp.Meta.Total != 5 || resp.Meta.Pages != 3 {
		t.Errorf("meta = %+v, want total 5 pages 3", resp.Meta)
	}
}

func TestGetPageNotFound(t *testing.T) {
	_, h := testSetup(t)

	w := doRequest(h, httptest.NewRequest(http.MethodGet, "/api/v1/pages/999", nil))
	assertStatusCode(t, w, http.StatusNotFound)

	w = doRequest(h, httptest.NewRequest(http.MethodGet, "/api/v1/pages/abc", nil))
	assertStatusCode(t, w, http.StatusBadRequest)
}
