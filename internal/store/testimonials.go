// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/talentbridge/cms/internal/model"
)

const testimonialColumns = `id, author, company, role, quote, rating, avatar, is_active, sort_order, created_at, updated_at`

func scanTestimonial(row interface{ Scan(...any) error }) (model.Testimonial, error) {
	var t model.Testimonial
	err := row.Scan(&t.ID, &t.Author, &t.Company, &t.Role, &t.Quote, &t.Rating,
		&t.Avatar, &t.IsActive, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// CreateTestimonialParams holds the fields for creating a testimonial.
type CreateTestimonialParams struct {
	Author    string
	Company   string
	Role      string
	Quote     string
	Rating    int64
	Avatar    string
	IsActive  bool
	SortOrder int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateTestimonial inserts a testimonial and returns the stored record.
func (q *Queries) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (model.Testimonial, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO testimonials (author, company, role, quote, rating, avatar, is_active, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+testimonialColumns,
		arg.Author, arg.Company, arg.Role, arg.Quote, arg.Rating, arg.Avatar,
		arg.IsActive, arg.SortOrder, arg.CreatedAt, arg.UpdatedAt)
	return scanTestimonial(row)
}

// GetTestimonialByID fetches a testimonial by primary key.
func (q *Queries) GetTestimonialByID(ctx context.Context, id int64) (model.Testimonial, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = ?`, id)
	return scanTestimonial(row)
}

// ListTestimonialsParams paginates testimonial listings.
type ListTestimonialsParams struct {
	ActiveOnly bool
	Limit      int64
	Offset     int64
}

// ListTestimonials returns testimonials ordered by sort_order.
func (q *Queries) ListTestimonials(ctx context.Context, arg ListTestimonialsParams) ([]model.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials`
	if arg.ActiveOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY sort_order, id LIMIT ? OFFSET ?`

	rows, err := q.db.QueryContext(ctx, query, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// CountTestimonials counts testimonials, optionally active only.
func (q *Queries) CountTestimonials(ctx context.Context, activeOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM testimonials`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	var n int64
	err := q.db.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}

// UpdateTestimonialParams holds the full set of updatable testimonial fields.
type UpdateTestimonialParams struct {
	ID        int64
	Author    string
	Company   string
	Role      string
	Quote     string
	Rating    int64
	Avatar    string
	IsActive  bool
	SortOrder int64
	UpdatedAt time.Time
}

// UpdateTestimonial overwrites a testimonial and returns the stored record.
func (q *Queries) UpdateTestimonial(ctx context.Context, arg UpdateTestimonialParams) (model.Testimonial, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE testimonials
		SET author = ?, company = ?, role = ?, quote = ?, rating = ?, avatar = ?,
		    is_active = ?, sort_order = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+testimonialColumns,
		arg.Author, arg.Company, arg.Role, arg.Quote, arg.Rating, arg.Avatar,
		arg.IsActive, arg.SortOrder, arg.UpdatedAt, arg.ID)
	return scanTestimonial(row)
}

// DeleteTestimonial removes a testimonial.
func (q *Queries) DeleteTestimonial(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = ?`, id)
	return err
}
