// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/talentbridge/cms/internal/cache"
	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/render"
	"github.com/talentbridge/cms/internal/service"
	"github.com/talentbridge/cms/internal/store"
)

// testDB creates an in-memory SQLite database with the tables the public
// site reads.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE pages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'draft',
			meta_title TEXT NOT NULL DEFAULT '',
			meta_description TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			published_at DATETIME
		);

		CREATE TABLE page_sections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			page_id INTEGER NOT NULL,
			section_key TEXT NOT NULL,
			title TEXT NOT NULL,
			sub_title TEXT NOT NULL DEFAULT '',
			meta TEXT NOT NULL DEFAULT '{}',
			sort_order INTEGER NOT NULL DEFAULT 0 CHECK (sort_order >= 0),
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (page_id) REFERENCES pages(id) ON DELETE CASCADE
		);

		CREATE TABLE blogs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			excerpt TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			format TEXT NOT NULL DEFAULT 'markdown',
			cover_image TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			published_at DATETIME,
			scheduled_at DATETIME
		);

		CREATE TABLE leads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'new',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE menus (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE menu_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			menu_id INTEGER NOT NULL,
			parent_id INTEGER,
			title TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			target TEXT NOT NULL DEFAULT '_self',
			page_id INTEGER,
			position INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (menu_id) REFERENCES menus(id) ON DELETE CASCADE,
			FOREIGN KEY (page_id) REFERENCES pages(id) ON DELETE SET NULL
		);

		CREATE TABLE settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL DEFAULT '',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func testFrontend(t *testing.T) (*sql.DB, *FrontendHandler, cache.Cache) {
	t.Helper()

	db := testDB(t)
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = c.Close() })

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	menus := service.NewMenuService(db, c)

	return db, NewFrontendHandler(db, renderer, menus, c, "https://talentbridge.example"), c
}

func frontendRouter(h *FrontendHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Home)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/robots.txt", h.Robots)
	r.Get("/blog/{slug}", h.Blog)
	r.Post("/contact", h.Contact)
	r.Get("/{slug}", h.Page)
	r.NotFound(h.NotFound)
	return r
}

func doFrontendRequest(h *FrontendHandler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	frontendRouter(h).ServeHTTP(rec, req)
	return rec
}

func seedPublishedPage(t *testing.T, db *sql.DB, slug string) model.Page {
	t.Helper()
	now := time.Now()
	page, err := store.New(db).CreatePage(context.Background(), store.CreatePageParams{
		Title:     "Test " + slug,
		Slug:      slug,
		Status:    model.PageStatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}
	return page
}

func seedFrontendSection(t *testing.T, db *sql.DB, pageID int64, key model.SectionKey, title string, sortOrder int64, active bool) {
	t.Helper()
	now := time.Now()
	_, err := store.New(db).CreateSection(context.Background(), store.CreateSectionParams{
		PageID:     pageID,
		SectionKey: key,
		Title:      title,
		Meta:       map[string]any{"description": "about " + title},
		SortOrder:  sortOrder,
		IsActive:   active,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("failed to seed section: %v", err)
	}
}

func TestHomeRendersActiveSectionsInOrder(t *testing.T) {
	db, h, _ := testFrontend(t)
	page := seedPublishedPage(t, db, "home")
	seedFrontendSection(t, db, page.ID, model.SectionHero, "Second Block", 2, true)
	seedFrontendSection(t, db, page.ID, model.SectionHero, "First Block", 1, true)
	seedFrontendSection(t, db, page.ID, model.SectionHero, "Hidden Block", 3, false)

	rec := doFrontendRequest(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rec.Body.String()
	if strings.Contains(body, "Hidden Block") {
		t.Error("inactive section rendered on public page")
	}
	if strings.Index(body, "First Block") > strings.Index(body, "Second Block") {
		t.Error("sections rendered out of sort order")
	}
}

func TestPageUnknownSectionKeySkipped(t *testing.T) {
	db, h, _ := testFrontend(t)
	page := seedPublishedPage(t, db, "services")
	seedFrontendSection(t, db, page.ID, model.SectionHero, "Visible", 1, true)

	// A legacy row with a retired key must not break or mark the page.
	_, err := db.Exec(`INSERT INTO page_sections (page_id, section_key, title, meta) VALUES (?, 'carousel', 'Legacy', '{}')`, page.ID)
	if err != nil {
		t.Fatalf("failed to insert legacy section: %v", err)
	}

	rec := doFrontendRequest(h, httptest.NewRequest(http.MethodGet, "/services", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Visible") {
		t.Error("registered section missing")
	}
	if strings.Contains(rec.Body.String(), "Legacy") {
		t.Error("unregistered section rendered")
	}
}

func TestDraftPageNotFound(t *testing.T) {
	db, h, _ := testFrontend(t)
	now := time.Now()
	_, err := store.New(db).CreatePage(context.Background(), store.CreatePageParams{
		Title: "Draft", Slug: "draft", Status: model.PageStatusDraft,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}

	for _, path := range []string{"/draft", "/no-such-page"} {
		rec := doFrontendRequest(h, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s: expected 404, got %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Page not found") {
			t.Errorf("GET %s: missing 404 body", path)
		}
	}
}

func TestPageServedFromCacheUntilInvalidated(t *testing.T) {
	db, h, c := testFrontend(t)
	page := seedPublishedPage(t, db, "home")
	seedFrontendSection(t, db, page.ID, model.SectionHero, "Original", 1, true)

	first := doFrontendRequest(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}

	// Edit behind the cache's back: the cached render must keep serving.
	if _, err := db.Exec(`UPDATE page_sections SET title = 'Edited' WHERE page_id = ?`, page.ID); err != nil {
		t.Fatalf("failed to edit section: %v", err)
	}
	second := doFrontendRequest(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(second.Body.String(), "Original") {
		t.Error("expected cached render before invalidation")
	}

	if err := cache.InvalidatePage(context.Background(), c, "home"); err != nil {
		t.Fatalf("failed to invalidate page: %v", err)
	}
	third := doFrontendRequest(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(third.Body.String(), "Edited") {
		t.Error("expected fresh render after invalidation")
	}
}

func TestBlogPostRendersMarkdown(t *testing.T) {
	db, h, _ := testFrontend(t)
	now := time.Now()
	queries := store.New(db)

	_, err := queries.CreateBlog(context.Background(), store.CreateBlogParams{
		Title: "Hiring Well", Slug: "hiring-well",
		Body: "## Interviews\n\nStructured beats *ad hoc*.", Format: model.BlogFormatMarkdown,
		Status: model.BlogStatusPublished, CreatedAt: now, UpdatedAt: now,
		PublishedAt: sql.NullTime{Time: now, Valid: true},
	})
	if err != nil {
		t.Fatalf("failed to seed blog: %v", err)
	}
	_, err = queries.CreateBlog(context.Background(), store.CreateBlogParams{
		Title: "Unpublished", Slug: "unpublished",
		Body: "soon", Format: model.BlogFormatMarkdown,
		Status: model.BlogStatusDraft, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to seed draft blog: %v", err)
	}

	rec := doFrontendRequest(h, httptest.NewRequest(http.MethodGet, "/blog/hiring-well", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h2") || !strings.Contains(body, "<em>ad hoc</em>") {
		t.Errorf("markdown body not converted: %s", body)
	}

	rec = doFrontendRequest(h, httptest.NewRequest(http.MethodGet, "/blog/unpublished", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("draft post: expected 404, got %d", rec.Code)
	}
}

func TestContactFormCreatesLead(t *testing.T) {
	db, h, _ := testFrontend(t)

	form := url.Values{
		"name":    {"Dana"},
		"email":   {"dana@example.com"},
		"message": {"We need three engineers."},
		"company": {"Acme"},
	}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := doFrontendRequest(h, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}

	lead, err := store.New(db).GetLeadByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("failed to load lead: %v", err)
	}
	if lead.Email != "dana@example.com" || lead.Status != model.LeadStatusNew {
		t.Errorf("lead = %+v", lead)
	}
	if lead.Source != "website" {
		t.Errorf("source = %q, want website", lead.Source)
	}
}

func TestContactFormValidation(t *testing.T) {
	db, h, _ := testFrontend(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing name", url.Values{"email": {"a@b.com"}, "message": {"hi"}}},
		{"missing message", url.Values{"name": {"A"}, "email": {"a@b.com"}}},
		{"bad email", url.Values{"name": {"A"}, "email": {"not-an-email"}, "message": {"hi"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			rec := doFrontendRequest(h, req)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected 422, got %d", rec.Code)
			}
		})
	}

	var n int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM leads`).Scan(&n); err != nil {
		t.Fatalf("failed to count leads: %v", err)
	}
	if n != 0 {
		t.Errorf("rejected submissions wrote %d leads", n)
	}
}

func TestSitemapAndRobots(t *testing.T) {
	db, h, _ := testFrontend(t)
	seedPublishedPage(t, db, "home")
	seedPublishedPage(t, db, "about")
	now := time.Now()
	_, err := store.New(db).CreatePage(context.Background(), store.CreatePageParams{
		Title: "Draft", Slug: "draft", Status: model.PageStatusDraft,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}

	rec := doFrontendRequest(h, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("sitemap: expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<loc>https://talentbridge.example</loc>") {
		t.Error("sitemap missing homepage")
	}
	if !strings.Contains(body, "<loc>https://talentbridge.example/about</loc>") {
		t.Error("sitemap missing published page")
	}
	if strings.Contains(body, "/draft") {
		t.Error("sitemap lists draft page")
	}
	if strings.Contains(body, "https://talentbridge.example/home") {
		t.Error("home page should appear only as the site root")
	}

	rec = doFrontendRequest(h, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("robots: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sitemap: https://talentbridge.example/sitemap.xml") {
		t.Error("robots.txt missing sitemap reference")
	}
}

func TestContactRedirectTarget(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"", "/?sent=1"},
		{"/contact?sent=1", "/contact?sent=1"},
		{"https://evil.example/phish", "/?sent=1"},
		{"//evil.example", "/?sent=1"},
		{"//evil.example/phish", "/?sent=1"},
		{"javascript:alert(1)", "/?sent=1"},
		{"/thanks", "/thanks"},
	}

	for _, tt := range tests {
		if got := contactRedirect(tt.target); got != tt.want {
			t.Errorf("contactRedirect(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}
