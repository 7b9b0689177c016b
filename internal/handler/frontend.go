// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the public website handlers.
package handler

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/talentbridge/cms/internal/cache"
	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/render"
	"github.com/talentbridge/cms/internal/seo"
	"github.com/talentbridge/cms/internal/service"
	"github.com/talentbridge/cms/internal/store"
)

// homeSlug is the page served at the site root.
const homeSlug = "home"

// pageCacheTTL bounds how long a rendered page may be served from cache.
// Mutations invalidate eagerly; the TTL only covers out-of-band edits.
const pageCacheTTL = 10 * time.Minute

// FrontendHandler serves the rendered public site.
type FrontendHandler struct {
	db       *sql.DB
	queries  *store.Queries
	renderer *render.Renderer
	menus    *service.MenuService
	settings *service.SettingsService
	cache    cache.Cache
	siteURL  string
}

// NewFrontendHandler creates a FrontendHandler. siteURL is the canonical
// base URL used in the sitemap and robots.txt.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, menus *service.MenuService, c cache.Cache, siteURL string) *FrontendHandler {
	return &FrontendHandler{
		db:       db,
		queries:  store.New(db),
		renderer: renderer,
		menus:    menus,
		settings: service.NewSettingsService(db),
		cache:    c,
		siteURL:  strings.TrimSuffix(siteURL, "/"),
	}
}

// Home serves the home page. GET /
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, homeSlug)
}

// Page serves a published page by slug. GET /{slug}
func (h *FrontendHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, chi.URLParam(r, "slug"))
}

// servePage renders a published page, serving from cache when possible.
func (h *FrontendHandler) servePage(w http.ResponseWriter, r *http.Request, slug string) {
	ctx := r.Context()

	if cached, err := h.cache.Get(ctx, cache.PageKey(slug)); err == nil {
		writeHTML(w, cached)
		return
	}

	page, err := h.queries.GetPublishedPageBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.NotFound(w, r)
			return
		}
		slog.Error("failed to load page", "slug", slug, "error", err)
		h.serverError(w)
		return
	}

	sections, err := h.queries.ListActiveSectionsForPage(ctx, page.ID)
	if err != nil {
		slog.Error("failed to load sections", "page_id", page.ID, "error", err)
		h.serverError(w)
		return
	}

	site, nav := h.siteChrome(ctx)
	body, err := h.renderer.RenderSections(sections, h.settings.SanitizeHTML(ctx))
	if err != nil {
		slog.Error("failed to render sections", "page_id", page.ID, "error", err)
		h.serverError(w)
		return
	}

	var buf bytes.Buffer
	err = h.renderer.RenderPage(&buf, render.PageData{
		Site:     site,
		Nav:      nav,
		Page:     page,
		Sections: body,
	})
	if err != nil {
		slog.Error("failed to render page", "slug", slug, "error", err)
		h.serverError(w)
		return
	}

	if err := h.cache.Set(ctx, cache.PageKey(slug), buf.Bytes(), pageCacheTTL); err != nil {
		slog.Warn("failed to cache page", "slug", slug, "error", err)
	}
	writeHTML(w, buf.Bytes())
}

// Blog serves a published blog post. GET /blog/{slug}
func (h *FrontendHandler) Blog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	blog, err := h.queries.GetPublishedBlogBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.NotFound(w, r)
			return
		}
		slog.Error("failed to load blog", "slug", slug, "error", err)
		h.serverError(w)
		return
	}

	body, err := h.renderer.BlogBody(blog, h.settings.SanitizeHTML(ctx))
	if err != nil {
		slog.Error("failed to render blog body", "slug", slug, "error", err)
		h.serverError(w)
		return
	}

	site, nav := h.siteChrome(ctx)
	var buf bytes.Buffer
	err = h.renderer.RenderBlog(&buf, render.BlogData{
		Site: site,
		Nav:  nav,
		Blog: blog,
		Body: body,
	})
	if err != nil {
		slog.Error("failed to render blog", "slug", slug, "error", err)
		h.serverError(w)
		return
	}
	writeHTML(w, buf.Bytes())
}

// Contact accepts the public contact form and records a lead.
// POST /contact
func (h *FrontendHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	message := strings.TrimSpace(r.PostFormValue("message"))
	if name == "" || message == "" {
		http.Error(w, "Name and message are required", http.StatusUnprocessableEntity)
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		http.Error(w, "A valid email is required", http.StatusUnprocessableEntity)
		return
	}

	now := time.Now()
	lead, err := h.queries.CreateLead(r.Context(), store.CreateLeadParams{
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(r.PostFormValue("phone")),
		Company:   strings.TrimSpace(r.PostFormValue("company")),
		Message:   message,
		Source:    "website",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("failed to record lead", "error", err)
		h.serverError(w)
		return
	}

	slog.Info("lead received", "lead_id", lead.ID, "source", lead.Source)
	http.Redirect(w, r, contactRedirect(r.PostFormValue("redirect")), http.StatusSeeOther)
}

// contactRedirect validates the optional post-submit redirect target. Only
// site-relative paths are honored.
func contactRedirect(target string) string {
	if target == "" {
		return "/?sent=1"
	}
	u, err := url.Parse(target)
	// Protocol-relative targets ("//host/path") parse as non-absolute with a
	// host set, so the host check is required alongside IsAbs.
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/?sent=1"
	}
	return u.String()
}

// Sitemap serves the XML sitemap for published content. GET /sitemap.xml
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pages, err := h.queries.ListPublishedPages(ctx)
	if err != nil {
		slog.Error("failed to list pages for sitemap", "error", err)
		h.serverError(w)
		return
	}
	blogs, err := h.queries.ListPublishedBlogs(ctx)
	if err != nil {
		slog.Error("failed to list blogs for sitemap", "error", err)
		h.serverError(w)
		return
	}

	pageEntries := make([]seo.SitemapEntry, 0, len(pages))
	for _, p := range pages {
		if p.Slug == homeSlug {
			continue
		}
		pageEntries = append(pageEntries, seo.SitemapEntry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	blogEntries := make([]seo.SitemapEntry, 0, len(blogs))
	for _, b := range blogs {
		blogEntries = append(blogEntries, seo.SitemapEntry{Slug: b.Slug, UpdatedAt: b.UpdatedAt})
	}

	out, err := seo.GenerateSitemap(h.siteURL, pageEntries, blogEntries)
	if err != nil {
		slog.Error("failed to build sitemap", "error", err)
		h.serverError(w)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

// Robots serves robots.txt. GET /robots.txt
func (h *FrontendHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.GenerateRobots(h.siteURL, false)))
}

// NotFound renders the site 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	site, nav := h.siteChrome(ctx)

	var buf bytes.Buffer
	err := h.renderer.RenderPage(&buf, render.PageData{
		Site:     site,
		Nav:      nav,
		Page:     model.Page{Title: "Page not found"},
		Sections: template.HTML(notFoundBody),
	})
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(buf.Bytes())
}

const notFoundBody = `<section class="section section-not-found">
  <h1>Page not found</h1>
  <p>The page you are looking for does not exist or is no longer published.</p>
  <p><a href="/">Back to the home page</a></p>
</section>`

// siteChrome loads the settings and navigation every page shares. Failures
// are logged and degrade to empty chrome rather than failing the request.
func (h *FrontendHandler) siteChrome(ctx context.Context) (service.SiteSettings, []service.NavItem) {
	site, err := h.settings.Get(ctx)
	if err != nil {
		slog.Error("failed to load site settings", "error", err)
	}
	nav, err := h.menus.GetMenu(ctx, model.MenuWebsite)
	if err != nil {
		slog.Error("failed to load website menu", "error", err)
	}
	return site, nav
}

func (h *FrontendHandler) serverError(w http.ResponseWriter) {
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}
