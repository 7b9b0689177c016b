// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/talentbridge/cms/internal/cache"
	"github.com/talentbridge/cms/internal/middleware"
	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/service"
	"github.com/talentbridge/cms/internal/store"
)

// testDB creates an in-memory SQLite database with the full CMS schema.
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

		CREATE TABLE testimonials (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			author TEXT NOT NULL,
			company TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT '',
			quote TEXT NOT NULL,
			rating INTEGER NOT NULL DEFAULT 5 CHECK (rating BETWEEN 1 AND 5),
			avatar TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT 1,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
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

		CREATE TABLE signatures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			is_default BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL DEFAULT '',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			category TEXT NOT NULL,
			message TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE api_keys (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			key_hash TEXT NOT NULL UNIQUE,
			key_prefix TEXT NOT NULL,
			expires_at DATETIME,
			last_used_at DATETIME,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
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

// testSetup creates a test database and API handler. Uploads land in a
// per-test temp dir and the menu cache is an in-memory one.
func testSetup(t *testing.T) (*sql.DB, *Handler) {
	t.Helper()

	db := testDB(t)
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = c.Close() })

	uploads := service.NewUploadService(t.TempDir())
	menus := service.NewMenuService(db, c)

	return db, NewHandler(db, uploads, menus, c)
}

// testRouter wires a handler into the URL patterns the server uses so
// chi.URLParam resolves inside handlers.
func testRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/v1/pages", h.ListPages)
	r.Post("/api/v1/pages", h.CreatePage)
	r.Get("/api/v1/pages/slug/{slug}", h.GetPageBySlug)
	r.Get("/api/v1/pages/{id}", h.GetPage)
	r.Put("/api/v1/pages/{id}", h.UpdatePage)
	r.Delete("/api/v1/pages/{id}", h.DeletePage)
	r.Get("/api/v1/pages/{pageID}/sections", h.ListPageSections)
	r.Post("/api/v1/pages/{pageID}/sections", h.CreateSection)
	r.Put("/api/v1/pages/{pageID}/sections/{sectionID}", h.UpdateSection)
	r.Patch("/api/v1/page-sections/{id}", h.SetSectionActive)
	r.Delete("/api/v1/page-sections/{id}", h.DeleteSection)
	r.Get("/api/v1/section-schemas", h.SectionSchemas)
	r.Get("/api/v1/blogs", h.ListBlogs)
	r.Post("/api/v1/blogs", h.CreateBlog)
	r.Get("/api/v1/blogs/slug/{slug}", h.GetBlogBySlug)
	r.Get("/api/v1/blogs/{id}", h.GetBlog)
	r.Put("/api/v1/blogs/{id}", h.UpdateBlog)
	r.Delete("/api/v1/blogs/{id}", h.DeleteBlog)
	r.Get("/api/v1/testimonials", h.ListTestimonials)
	r.Post("/api/v1/testimonials", h.CreateTestimonial)
	r.Get("/api/v1/testimonials/{id}", h.GetTestimonial)
	r.Put("/api/v1/testimonials/{id}", h.UpdateTestimonial)
	r.Delete("/api/v1/testimonials/{id}", h.DeleteTestimonial)
	r.Post("/api/v1/leads", h.CreateLead)
	r.Get("/api/v1/leads", h.ListLeads)
	r.Get("/api/v1/leads/export", h.ExportLeadsCSV)
	r.Get("/api/v1/leads/{id}", h.GetLead)
	r.Patch("/api/v1/leads/{id}", h.SetLeadStatus)
	r.Delete("/api/v1/leads/{id}", h.DeleteLead)
	r.Get("/api/v1/menus", h.ListMenus)
	r.Post("/api/v1/menus", h.CreateMenu)
	r.Get("/api/v1/menus/website", h.GetWebsiteMenu)
	r.Get("/api/v1/menus/{id}", h.GetMenu)
	r.Put("/api/v1/menus/{id}", h.UpdateMenu)
	r.Delete("/api/v1/menus/{id}", h.DeleteMenu)
	r.Post("/api/v1/menus/{id}/items", h.CreateMenuItem)
	r.Post("/api/v1/menus/{id}/reorder", h.ReorderMenuItems)
	r.Put("/api/v1/menu-items/{id}", h.UpdateMenuItem)
	r.Delete("/api/v1/menu-items/{id}", h.DeleteMenuItem)
	r.Get("/api/v1/signatures", h.ListSignatures)
	r.Post("/api/v1/signatures", h.CreateSignature)
	r.Get("/api/v1/signatures/{id}", h.GetSignature)
	r.Put("/api/v1/signatures/{id}", h.UpdateSignature)
	r.Delete("/api/v1/signatures/{id}", h.DeleteSignature)
	r.Get("/api/v1/settings", h.GetSettings)
	r.Put("/api/v1/settings", h.UpdateSettings)
	r.Get("/api/v1/events", h.ListEvents)
	r.Post("/api/v1/uploads", h.Upload)
	return r
}

// seedPage inserts a page directly through the store.
func seedPage(t *testing.T, db *sql.DB, title, slug, status string) model.Page {
	t.Helper()

	now := time.Now()
	page, err := store.New(db).CreatePage(context.Background(), store.CreatePageParams{
		Title:     title,
		Slug:      slug,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}
	return page
}

// seedSection inserts a section directly through the store.
func seedSection(t *testing.T, db *sql.DB, pageID int64, key model.SectionKey, title string, meta map[string]any, sortOrder int64) model.Section {
	t.Helper()

	now := time.Now()
	section, err := store.New(db).CreateSection(context.Background(), store.CreateSectionParams{
		PageID:     pageID,
		SectionKey: key,
		Title:      title,
		Meta:       meta,
		SortOrder:  sortOrder,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("failed to seed section: %v", err)
	}
	return section
}

// doRequest routes a request through the test router and records the result.
func doRequest(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	testRouter(h).ServeHTTP(w, req)
	return w
}

// seedAPIKey stores an active API key and returns the raw bearer token.
func seedAPIKey(t *testing.T, db *sql.DB) string {
	t.Helper()

	rawKey, prefix, err := model.GenerateAPIKey()
	if err != nil {
		t.Fatalf("failed to generate API key: %v", err)
	}
	_, err = store.New(db).CreateAPIKey(context.Background(), store.CreateAPIKeyParams{
		Name:      "test key",
		KeyHash:   model.HashAPIKey(rawKey),
		KeyPrefix: prefix,
		IsActive:  true,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to seed API key: %v", err)
	}
	return rawKey
}

// doOptionalAuthRequest routes a request through the test router behind the
// optional-auth middleware, as the server mounts the public API group.
func doOptionalAuthRequest(db *sql.DB, h *Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	middleware.OptionalAPIKeyAuth(db)(testRouter(h)).ServeHTTP(w, req)
	return w
}
