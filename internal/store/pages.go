// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/talentbridge/cms/internal/model"
)

const pageColumns = `id, title, slug, status, meta_title, meta_description, created_at, updated_at, published_at`

func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Status, &p.MetaTitle,
		&p.MetaDescription, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt)
	return p, err
}

// CreatePageParams holds the fields for creating a page.
type CreatePageParams struct {
	Title           string
	Slug            string
	Status          string
	MetaTitle       string
	MetaDescription string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreatePage inserts a page and returns the stored record.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO pages (title, slug, status, meta_title, meta_description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+pageColumns,
		arg.Title, arg.Slug, arg.Status, arg.MetaTitle, arg.MetaDescription,
		arg.CreatedAt, arg.UpdatedAt)
	return scanPage(row)
}

// GetPageByID fetches a page by primary key.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// GetPageBySlug fetches a page by slug regardless of status.
func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug)
	return scanPage(row)
}

// GetPublishedPageBySlug fetches a published page by slug.
func (q *Queries) GetPublishedPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+pageColumns+` FROM pages WHERE slug = ? AND status = 'published'`, slug)
	return scanPage(row)
}

// ListPagesParams holds pagination for listing pages.
type ListPagesParams struct {
	Limit  int64
	Offset int64
}

// ListPages returns pages ordered by most recently updated.
func (q *Queries) ListPages(ctx context.Context, arg ListPagesParams) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+pageColumns+` FROM pages ORDER BY updated_at DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// ListPublishedPages returns every published page, oldest slug first. Used
// for the sitemap.
func (q *Queries) ListPublishedPages(ctx context.Context) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+pageColumns+` FROM pages WHERE status = 'published' ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// CountPages returns the total number of pages.
func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n)
	return n, err
}

// PageSlugExists returns 1 if a page with the slug exists.
func (q *Queries) PageSlugExists(ctx context.Context, slug string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE slug = ?`, slug).Scan(&n)
	return n, err
}

// PageSlugExistsExcludingParams checks slug uniqueness while excluding one page.
type PageSlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

// PageSlugExistsExcluding returns 1 if another page already uses the slug.
func (q *Queries) PageSlugExistsExcluding(ctx context.Context, arg PageSlugExistsExcludingParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pages WHERE slug = ? AND id != ?`, arg.Slug, arg.ID).Scan(&n)
	return n, err
}

// UpdatePageParams holds the full set of updatable page fields.
type UpdatePageParams struct {
	ID              int64
	Title           string
	Slug            string
	Status          string
	MetaTitle       string
	MetaDescription string
	UpdatedAt       time.Time
}

// UpdatePage overwrites a page and returns the stored record.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE pages
		SET title = ?, slug = ?, status = ?, meta_title = ?, meta_description = ?,
		    updated_at = ?,
		    published_at = CASE WHEN ? = 'published' AND published_at IS NULL THEN ? ELSE published_at END
		WHERE id = ?
		RETURNING `+pageColumns,
		arg.Title, arg.Slug, arg.Status, arg.MetaTitle, arg.MetaDescription,
		arg.UpdatedAt, arg.Status, arg.UpdatedAt, arg.ID)
	return scanPage(row)
}

// DeletePage removes a page; its sections cascade.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	return err
}
