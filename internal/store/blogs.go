// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/talentbridge/cms/internal/model"
)

const blogColumns = `id, title, slug, excerpt, body, format, cover_image, status, created_at, updated_at, published_at, scheduled_at`

func scanBlog(row interface{ Scan(...any) error }) (model.Blog, error) {
	var b model.Blog
	err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Excerpt, &b.Body, &b.Format,
		&b.CoverImage, &b.Status, &b.CreatedAt, &b.UpdatedAt, &b.PublishedAt, &b.ScheduledAt)
	return b, err
}

// CreateBlogParams holds the fields for creating a blog post.
type CreateBlogParams struct {
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	Format      string
	CoverImage  string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt sql.NullTime
	ScheduledAt sql.NullTime
}

// CreateBlog inserts a blog post and returns the stored record.
func (q *Queries) CreateBlog(ctx context.Context, arg CreateBlogParams) (model.Blog, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO blogs (title, slug, excerpt, body, format, cover_image, status, created_at, updated_at, published_at, scheduled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+blogColumns,
		arg.Title, arg.Slug, arg.Excerpt, arg.Body, arg.Format, arg.CoverImage,
		arg.Status, arg.CreatedAt, arg.UpdatedAt, arg.PublishedAt, arg.ScheduledAt)
	return scanBlog(row)
}

// GetBlogByID fetches a blog post by primary key.
func (q *Queries) GetBlogByID(ctx context.Context, id int64) (model.Blog, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = ?`, id)
	return scanBlog(row)
}

// GetBlogBySlug fetches a blog post by slug regardless of status.
func (q *Queries) GetBlogBySlug(ctx context.Context, slug string) (model.Blog, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE slug = ?`, slug)
	return scanBlog(row)
}

// GetPublishedBlogBySlug fetches a published blog post by slug.
func (q *Queries) GetPublishedBlogBySlug(ctx context.Context, slug string) (model.Blog, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+blogColumns+` FROM blogs WHERE slug = ? AND status = 'published'`, slug)
	return scanBlog(row)
}

// ListBlogsParams filters and paginates blog listings. Status empty means all.
type ListBlogsParams struct {
	Status string
	Limit  int64
	Offset int64
}

// ListBlogs returns blog posts, newest first, optionally filtered by status.
func (q *Queries) ListBlogs(ctx context.Context, arg ListBlogsParams) ([]model.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs`
	args := []any{}
	if arg.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, arg.Status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []model.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// ListPublishedBlogs returns every published post, oldest slug first. Used
// for the sitemap.
func (q *Queries) ListPublishedBlogs(ctx context.Context) ([]model.Blog, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+blogColumns+` FROM blogs WHERE status = 'published' ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []model.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// CountBlogs counts blog posts, optionally filtered by status.
func (q *Queries) CountBlogs(ctx context.Context, status string) (int64, error) {
	var n int64
	var err error
	if status == "" {
		err = q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blogs`).Scan(&n)
	} else {
		err = q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blogs WHERE status = ?`, status).Scan(&n)
	}
	return n, err
}

// BlogSlugExists returns 1 if a blog with the slug exists.
func (q *Queries) BlogSlugExists(ctx context.Context, slug string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blogs WHERE slug = ?`, slug).Scan(&n)
	return n, err
}

// BlogSlugExistsExcludingParams checks slug uniqueness while excluding one post.
type BlogSlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

// BlogSlugExistsExcluding returns 1 if another blog already uses the slug.
func (q *Queries) BlogSlugExistsExcluding(ctx context.Context, arg BlogSlugExistsExcludingParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blogs WHERE slug = ? AND id != ?`, arg.Slug, arg.ID).Scan(&n)
	return n, err
}

// UpdateBlogParams holds the full set of updatable blog fields.
type UpdateBlogParams struct {
	ID          int64
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	Format      string
	CoverImage  string
	Status      string
	UpdatedAt   time.Time
	PublishedAt sql.NullTime
	ScheduledAt sql.NullTime
}

// UpdateBlog overwrites a blog post and returns the stored record.
func (q *Queries) UpdateBlog(ctx context.Context, arg UpdateBlogParams) (model.Blog, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE blogs
		SET title = ?, slug = ?, excerpt = ?, body = ?, format = ?, cover_image = ?,
		    status = ?, updated_at = ?, published_at = ?, scheduled_at = ?
		WHERE id = ?
		RETURNING `+blogColumns,
		arg.Title, arg.Slug, arg.Excerpt, arg.Body, arg.Format, arg.CoverImage,
		arg.Status, arg.UpdatedAt, arg.PublishedAt, arg.ScheduledAt, arg.ID)
	return scanBlog(row)
}

// DeleteBlog removes a blog post.
func (q *Queries) DeleteBlog(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	return err
}

// GetScheduledBlogsDue returns scheduled posts whose publish time has passed.
func (q *Queries) GetScheduledBlogsDue(ctx context.Context, now time.Time) ([]model.Blog, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+blogColumns+` FROM blogs
		WHERE status = 'scheduled' AND scheduled_at IS NOT NULL AND scheduled_at <= ?`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []model.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// PublishBlogParams marks a scheduled post as published.
type PublishBlogParams struct {
	ID          int64
	PublishedAt time.Time
}

// PublishBlog flips a post to published and stamps published_at.
func (q *Queries) PublishBlog(ctx context.Context, arg PublishBlogParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE blogs SET status = 'published', published_at = ?, updated_at = ? WHERE id = ?`,
		arg.PublishedAt, arg.PublishedAt, arg.ID)
	return err
}
