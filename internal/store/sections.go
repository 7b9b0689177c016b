// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/talentbridge/cms/internal/model"
)

const sectionColumns = `id, page_id, section_key, title, sub_title, meta, sort_order, is_active, created_at, updated_at`

func scanSection(row interface{ Scan(...any) error }) (model.Section, error) {
	var (
		s       model.Section
		rawMeta string
	)
	err := row.Scan(&s.ID, &s.PageID, &s.SectionKey, &s.Title, &s.SubTitle,
		&rawMeta, &s.SortOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Section{}, err
	}
	if rawMeta == "" {
		rawMeta = "{}"
	}
	if err := json.Unmarshal([]byte(rawMeta), &s.Meta); err != nil {
		return model.Section{}, fmt.Errorf("decoding section %d meta: %w", s.ID, err)
	}
	return s, nil
}

func encodeMeta(meta map[string]any) (string, error) {
	if meta == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encoding section meta: %w", err)
	}
	return string(raw), nil
}

// CreateSectionParams holds the fields for creating a page section.
type CreateSectionParams struct {
	PageID     int64
	SectionKey model.SectionKey
	Title      string
	SubTitle   string
	Meta       map[string]any
	SortOrder  int64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateSection inserts a section and returns the stored record.
func (q *Queries) CreateSection(ctx context.Context, arg CreateSectionParams) (model.Section, error) {
	rawMeta, err := encodeMeta(arg.Meta)
	if err != nil {
		return model.Section{}, err
	}
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO page_sections (page_id, section_key, title, sub_title, meta, sort_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+sectionColumns,
		arg.PageID, arg.SectionKey, arg.Title, arg.SubTitle, rawMeta,
		arg.SortOrder, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanSection(row)
}

// GetSectionByID fetches a section by primary key.
func (q *Queries) GetSectionByID(ctx context.Context, id int64) (model.Section, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+sectionColumns+` FROM page_sections WHERE id = ?`, id)
	return scanSection(row)
}

// ListSectionsForPage returns every section of a page ordered by sort_order,
// inactive ones included. The admin list wants the full set.
func (q *Queries) ListSectionsForPage(ctx context.Context, pageID int64) ([]model.Section, error) {
	return q.listSections(ctx, `
		SELECT `+sectionColumns+` FROM page_sections
		WHERE page_id = ? ORDER BY sort_order, id`, pageID)
}

// ListActiveSectionsForPage returns the active sections of a page ordered by
// sort_order. This feeds the public renderer.
func (q *Queries) ListActiveSectionsForPage(ctx context.Context, pageID int64) ([]model.Section, error) {
	return q.listSections(ctx, `
		SELECT `+sectionColumns+` FROM page_sections
		WHERE page_id = ? AND is_active = 1 ORDER BY sort_order, id`, pageID)
}

func (q *Queries) listSections(ctx context.Context, query string, pageID int64) ([]model.Section, error) {
	rows, err := q.db.QueryContext(ctx, query, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// UpdateSectionParams holds the updatable section fields. SectionKey is
// deliberately absent: the key is immutable after creation.
type UpdateSectionParams struct {
	ID        int64
	Title     string
	SubTitle  string
	Meta      map[string]any
	SortOrder int64
	IsActive  bool
	UpdatedAt time.Time
}

// UpdateSection overwrites a section (meta replaced wholesale) and returns
// the stored record.
func (q *Queries) UpdateSection(ctx context.Context, arg UpdateSectionParams) (model.Section, error) {
	rawMeta, err := encodeMeta(arg.Meta)
	if err != nil {
		return model.Section{}, err
	}
	row := q.db.QueryRowContext(ctx, `
		UPDATE page_sections
		SET title = ?, sub_title = ?, meta = ?, sort_order = ?, is_active = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+sectionColumns,
		arg.Title, arg.SubTitle, rawMeta, arg.SortOrder, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanSection(row)
}

// SetSectionActiveParams toggles a section's visibility.
type SetSectionActiveParams struct {
	ID        int64
	IsActive  bool
	UpdatedAt time.Time
}

// SetSectionActive updates only the is_active flag, leaving meta and every
// other field untouched.
func (q *Queries) SetSectionActive(ctx context.Context, arg SetSectionActiveParams) (model.Section, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE page_sections SET is_active = ?, updated_at = ? WHERE id = ?
		RETURNING `+sectionColumns,
		arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanSection(row)
}

// DeleteSection permanently removes a section.
func (q *Queries) DeleteSection(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM page_sections WHERE id = ?`, id)
	return err
}
