// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Default menu slugs
const (
	MenuWebsite = "website"
	MenuFooter  = "footer"
)

// Menu target values
const (
	TargetSelf  = "_self"
	TargetBlank = "_blank"
)

// ValidTargets contains all valid link target values.
var ValidTargets = []string{TargetSelf, TargetBlank}

// Menu represents a navigation menu.
type Menu struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MenuItem represents an item in a navigation menu.
type MenuItem struct {
	ID        int64         `json:"id"`
	MenuID    int64         `json:"menu_id"`
	ParentID  sql.NullInt64 `json:"parent_id,omitempty"`
	Title     string        `json:"title"`
	URL       string        `json:"url"`
	Target    string        `json:"target"`
	PageID    sql.NullInt64 `json:"page_id,omitempty"`
	Position  int64         `json:"position"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// MenuItemWithChildren represents a menu item with its children for tree display.
type MenuItemWithChildren struct {
	MenuItem
	Children []MenuItemWithChildren `json:"children,omitempty"`
}

// IsValidTarget checks if a target value is valid.
func IsValidTarget(target string) bool {
	for _, t := range ValidTargets {
		if t == target {
			return true
		}
	}
	return false
}
