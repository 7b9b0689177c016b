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

// BlogRequest is the create/update payload for blog posts. ScheduledAt is
// RFC3339; it is required when status is scheduled and ignored otherwise.
type BlogRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt"`
	Body        string `json:"body"`
	Format      string `json:"format"`
	CoverImage  string `json:"cover_image"`
	Status      string `json:"status"`
	ScheduledAt string `json:"scheduled_at"`
}

// BlogResponse is the API representation of a blog post.
type BlogResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body"`
	Format      string     `json:"format"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

func storeBlogToResponse(b model.Blog) BlogResponse {
	resp := BlogResponse{
		ID:         b.ID,
		Title:      b.Title,
		Slug:       b.Slug,
		Excerpt:    b.Excerpt,
		Body:       b.Body,
		Format:     b.Format,
		CoverImage: b.CoverImage,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	if b.PublishedAt.Valid {
		resp.PublishedAt = &b.PublishedAt.Time
	}
	if b.ScheduledAt.Valid {
		resp.ScheduledAt = &b.ScheduledAt.Time
	}
	return resp
}

// validateAndNormalize checks the payload and fills defaults. It returns the
// parsed schedule time alongside the field errors.
func (r *BlogRequest) validateAndNormalize() (sql.NullTime, map[string]string) {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(r.Body) == "" {
		errs["body"] = "Body is required"
	}

	if r.Format == "" {
		r.Format = model.BlogFormatMarkdown
	} else if r.Format != model.BlogFormatMarkdown && r.Format != model.BlogFormatHTML {
		errs["format"] = "Format must be markdown or html"
	}

	if r.Status == "" {
		r.Status = model.BlogStatusDraft
	} else if !model.IsValidBlogStatus(r.Status) {
		errs["status"] = "Status must be draft, scheduled or published"
	}

	var scheduledAt sql.NullTime
	if r.Status == model.BlogStatusScheduled {
		if r.ScheduledAt == "" {
			errs["scheduled_at"] = "scheduled_at is required for scheduled posts"
		} else if t, err := time.Parse(time.RFC3339, r.ScheduledAt); err != nil {
			errs["scheduled_at"] = "scheduled_at must be RFC3339"
		} else {
			scheduledAt = sql.NullTime{Time: t, Valid: true}
		}
	}

	if r.Slug == "" {
		r.Slug = util.Slugify(r.Title)
	} else {
		r.Slug = util.Slugify(r.Slug)
	}

	return scheduledAt, errs
}

// ListBlogs returns paginated blog posts, optionally filtered by ?status=.
// GET /api/v1/blogs
func (h *Handler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, DefaultPerPage, MaxPerPage)

	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidBlogStatus(status) {
		WriteBadRequest(w, "Invalid status filter", nil)
		return
	}

	total, err := h.queries.CountBlogs(r.Context(), status)
	if err != nil {
		slog.Error("failed to count blogs", "error", err)
		WriteInternalError(w, "Failed to list blogs")
		return
	}

	blogs, err := h.queries.ListBlogs(r.Context(), store.ListBlogsParams{
		Status: status,
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("failed to list blogs", "error", err)
		WriteInternalError(w, "Failed to list blogs")
		return
	}

	responses := make([]BlogResponse, len(blogs))
	for i, b := range blogs {
		responses[i] = storeBlogToResponse(b)
	}

	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pageCount(total, perPage),
	})
}

// GetBlog returns a single blog post by ID. GET /api/v1/blogs/{id}
func (h *Handler) GetBlog(w http.ResponseWriter, r *http.Request) {
	blog, ok := requireEntityByID(w, r, "blog", func(id int64) (model.Blog, error) {
		return h.queries.GetBlogByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, storeBlogToResponse(blog), nil)
}

// GetBlogBySlug returns a blog post by slug. Anonymous lookups see published
// posts only; requests carrying a valid API key may preview drafts.
// GET /api/v1/blogs/slug/{slug}
func (h *Handler) GetBlogBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Missing slug", nil)
		return
	}

	var blog model.Blog
	var err error
	if middleware.GetAPIKey(r) != nil {
		blog, err = h.queries.GetBlogBySlug(r.Context(), slug)
	} else {
		blog, err = h.queries.GetPublishedBlogBySlug(r.Context(), slug)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Blog not found")
		} else {
			WriteInternalError(w, "Failed to retrieve blog")
		}
		return
	}

	WriteSuccess(w, storeBlogToResponse(blog), nil)
}

// CreateBlog creates a blog post. POST /api/v1/blogs
func (h *Handler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var req BlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	scheduledAt, errs := req.validateAndNormalize()
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.BlogSlugExists(r.Context(), req.Slug)
	}) {
		return
	}

	now := time.Now()
	var publishedAt sql.NullTime
	if req.Status == model.BlogStatusPublished {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	created, err := h.queries.CreateBlog(r.Context(), store.CreateBlogParams{
		Title:       req.Title,
		Slug:        req.Slug,
		Excerpt:     req.Excerpt,
		Body:        req.Body,
		Format:      req.Format,
		CoverImage:  req.CoverImage,
		Status:      req.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
		PublishedAt: publishedAt,
		ScheduledAt: scheduledAt,
	})
	if err != nil {
		slog.Error("failed to create blog", "slug", req.Slug, "error", err)
		WriteInternalError(w, "Failed to create blog")
		return
	}

	slog.Info("blog created", "blog_id", created.ID, "slug", created.Slug, "status", created.Status)
	WriteCreated(w, storeBlogToResponse(created))
}

// UpdateBlog updates a blog post. PUT /api/v1/blogs/{id}
func (h *Handler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "blog", func(id int64) (model.Blog, error) {
		return h.queries.GetBlogByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req BlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	scheduledAt, errs := req.validateAndNormalize()
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.BlogSlugExistsExcluding(r.Context(), store.BlogSlugExistsExcludingParams{
			Slug: req.Slug,
			ID:   existing.ID,
		})
	}) {
		return
	}

	// Keep the first publish time; set it on a draft-to-published flip.
	publishedAt := existing.PublishedAt
	if req.Status == model.BlogStatusPublished && !publishedAt.Valid {
		publishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	updated, err := h.queries.UpdateBlog(r.Context(), store.UpdateBlogParams{
		ID:          existing.ID,
		Title:       req.Title,
		Slug:        req.Slug,
		Excerpt:     req.Excerpt,
		Body:        req.Body,
		Format:      req.Format,
		CoverImage:  req.CoverImage,
		Status:      req.Status,
		UpdatedAt:   time.Now(),
		PublishedAt: publishedAt,
		ScheduledAt: scheduledAt,
	})
	if err != nil {
		slog.Error("failed to update blog", "blog_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to update blog")
		return
	}

	WriteSuccess(w, storeBlogToResponse(updated), nil)
}

// DeleteBlog deletes a blog post. DELETE /api/v1/blogs/{id}
func (h *Handler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "blog", func(id int64) (model.Blog, error) {
		return h.queries.GetBlogByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteBlog(r.Context(), existing.ID); err != nil {
		slog.Error("failed to delete blog", "blog_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to delete blog")
		return
	}

	slog.Warn("blog deleted", "blog_id", existing.ID, "slug", existing.Slug)
	w.WriteHeader(http.StatusNoContent)
}
