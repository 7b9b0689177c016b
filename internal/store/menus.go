// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/talentbridge/cms/internal/model"
)

const menuColumns = `id, name, slug, is_active, created_at, updated_at`
const menuItemColumns = `id, menu_id, parent_id, title, url, target, page_id, position, is_active, created_at, updated_at`

func scanMenu(row interface{ Scan(...any) error }) (model.Menu, error) {
	var m model.Menu
	err := row.Scan(&m.ID, &m.Name, &m.Slug, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func scanMenuItem(row interface{ Scan(...any) error }) (model.MenuItem, error) {
	var it model.MenuItem
	err := row.Scan(&it.ID, &it.MenuID, &it.ParentID, &it.Title, &it.URL, &it.Target,
		&it.PageID, &it.Position, &it.IsActive, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

// CreateMenuParams holds the fields for creating a menu.
type CreateMenuParams struct {
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateMenu inserts a menu and returns the stored record.
func (q *Queries) CreateMenu(ctx context.Context, arg CreateMenuParams) (model.Menu, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO menus (name, slug, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+menuColumns,
		arg.Name, arg.Slug, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanMenu(row)
}

// GetMenuByID fetches a menu by primary key.
func (q *Queries) GetMenuByID(ctx context.Context, id int64) (model.Menu, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = ?`, id)
	return scanMenu(row)
}

// GetMenuBySlug fetches a menu by slug.
func (q *Queries) GetMenuBySlug(ctx context.Context, slug string) (model.Menu, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menus WHERE slug = ?`, slug)
	return scanMenu(row)
}

// ListMenus returns all menus ordered by name.
func (q *Queries) ListMenus(ctx context.Context) ([]model.Menu, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+menuColumns+` FROM menus ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []model.Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

// UpdateMenuParams holds the updatable menu fields.
type UpdateMenuParams struct {
	ID        int64
	Name      string
	Slug      string
	IsActive  bool
	UpdatedAt time.Time
}

// UpdateMenu overwrites a menu and returns the stored record.
func (q *Queries) UpdateMenu(ctx context.Context, arg UpdateMenuParams) (model.Menu, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE menus SET name = ?, slug = ?, is_active = ?, updated_at = ? WHERE id = ?
		RETURNING `+menuColumns,
		arg.Name, arg.Slug, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanMenu(row)
}

// DeleteMenu removes a menu; its items cascade.
func (q *Queries) DeleteMenu(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menus WHERE id = ?`, id)
	return err
}

// CreateMenuItemParams holds the fields for creating a menu item.
type CreateMenuItemParams struct {
	MenuID    int64
	ParentID  *int64
	Title     string
	URL       string
	Target    string
	PageID    *int64
	Position  int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateMenuItem inserts a menu item and returns the stored record.
func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (model.MenuItem, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO menu_items (menu_id, parent_id, title, url, target, page_id, position, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+menuItemColumns,
		arg.MenuID, nullableID(arg.ParentID), arg.Title, arg.URL, arg.Target,
		nullableID(arg.PageID), arg.Position, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanMenuItem(row)
}

func nullableID(ptr *int64) any {
	if ptr == nil {
		return nil
	}
	return *ptr
}

// GetMenuItemByID fetches a menu item by primary key.
func (q *Queries) GetMenuItemByID(ctx context.Context, id int64) (model.MenuItem, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = ?`, id)
	return scanMenuItem(row)
}

// ListMenuItems returns every item of a menu ordered by position.
func (q *Queries) ListMenuItems(ctx context.Context, menuID int64) ([]model.MenuItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+menuItemColumns+` FROM menu_items WHERE menu_id = ? ORDER BY position, id`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// MenuItemWithPageRow is a menu item joined with the slug of its linked page.
type MenuItemWithPageRow struct {
	model.MenuItem
	PageSlug sql.NullString
}

// ListMenuItemsWithPage returns every item of a menu with the linked page
// slug resolved, ordered by position.
func (q *Queries) ListMenuItemsWithPage(ctx context.Context, menuID int64) ([]MenuItemWithPageRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT mi.id, mi.menu_id, mi.parent_id, mi.title, mi.url, mi.target, mi.page_id,
		       mi.position, mi.is_active, mi.created_at, mi.updated_at, p.slug
		FROM menu_items mi
		LEFT JOIN pages p ON p.id = mi.page_id
		WHERE mi.menu_id = ?
		ORDER BY mi.position, mi.id`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItemWithPageRow
	for rows.Next() {
		var it MenuItemWithPageRow
		if err := rows.Scan(&it.ID, &it.MenuID, &it.ParentID, &it.Title, &it.URL, &it.Target,
			&it.PageID, &it.Position, &it.IsActive, &it.CreatedAt, &it.UpdatedAt, &it.PageSlug); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateMenuItemParams holds the updatable menu item fields.
type UpdateMenuItemParams struct {
	ID        int64
	Title     string
	URL       string
	Target    string
	PageID    *int64
	Position  int64
	IsActive  bool
	UpdatedAt time.Time
}

// UpdateMenuItem overwrites a menu item and returns the stored record.
func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (model.MenuItem, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE menu_items
		SET title = ?, url = ?, target = ?, page_id = ?, position = ?, is_active = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+menuItemColumns,
		arg.Title, arg.URL, arg.Target, nullableID(arg.PageID), arg.Position,
		arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanMenuItem(row)
}

// DeleteMenuItem removes a menu item; child items cascade.
func (q *Queries) DeleteMenuItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	return err
}

// SetMenuItemPositionParams moves an item within its menu.
type SetMenuItemPositionParams struct {
	ID       int64
	Position int64
}

// SetMenuItemPosition updates only an item's position. Reordering applies
// one of these per item.
func (q *Queries) SetMenuItemPosition(ctx context.Context, arg SetMenuItemPositionParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE menu_items SET position = ? WHERE id = ?`, arg.Position, arg.ID)
	return err
}
