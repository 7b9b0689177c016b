// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic shared by the API and the
// public frontend.
package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/talentbridge/cms/internal/cache"
	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/store"
)

// NavItem represents a menu item resolved for frontend rendering.
// Internal page links carry the page slug; external links keep their URL.
type NavItem struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Target   string    `json:"target"`
	PageSlug string    `json:"page_slug,omitempty"`
	Position int64     `json:"position"`
	Children []NavItem `json:"children"`
}

// MenuService loads menus and builds navigation trees.
type MenuService struct {
	queries *store.Queries
	cache   cache.Cache
}

// NewMenuService creates a MenuService. Cache may be nil to disable caching.
func NewMenuService(db *sql.DB, c cache.Cache) *MenuService {
	return &MenuService{
		queries: store.New(db),
		cache:   c,
	}
}

// GetMenu returns the navigation tree for a menu slug.
// Inactive menus and inactive items are excluded. A missing menu yields nil.
func (s *MenuService) GetMenu(ctx context.Context, slug string) ([]NavItem, error) {
	if s.cache != nil {
		var cached []NavItem
		if err := cache.GetJSON(ctx, s.cache, cache.MenuKey(slug), &cached); err == nil {
			return cached, nil
		}
	}

	menu, err := s.queries.GetMenuBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !menu.IsActive {
		return nil, nil
	}

	items, err := s.queries.ListMenuItemsWithPage(ctx, menu.ID)
	if err != nil {
		return nil, err
	}

	tree := buildNavTree(items)

	if s.cache != nil {
		_ = cache.SetJSON(ctx, s.cache, cache.MenuKey(slug), tree, time.Hour)
	}
	return tree, nil
}

// InvalidateCache drops all cached menu trees.
func (s *MenuService) InvalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = cache.InvalidateMenus(ctx, s.cache)
	}
}

// buildNavTree converts the flat item list into a nested tree.
func buildNavTree(items []store.MenuItemWithPageRow) []NavItem {
	itemMap := make(map[int64]*NavItem)
	parentMap := make(map[int64]int64)
	var rootIDs []int64

	for _, item := range items {
		if !item.IsActive {
			continue
		}

		ni := NavItem{
			ID:       item.ID,
			Title:    item.Title,
			Target:   model.TargetSelf,
			Position: item.Position,
			Children: []NavItem{},
		}

		if item.PageID.Valid && item.PageSlug.Valid {
			ni.PageSlug = item.PageSlug.String
			ni.URL = "/" + item.PageSlug.String
		} else if item.URL != "" {
			ni.URL = item.URL
		}

		if model.IsValidTarget(item.Target) {
			ni.Target = item.Target
		}

		itemMap[item.ID] = &ni

		if item.ParentID.Valid {
			parentMap[item.ID] = item.ParentID.Int64
		} else {
			rootIDs = append(rootIDs, item.ID)
		}
	}

	childIDs := make(map[int64][]int64)
	for childID, parentID := range parentMap {
		if _, ok := itemMap[parentID]; ok {
			childIDs[parentID] = append(childIDs[parentID], childID)
		}
	}

	var assemble func(id int64) NavItem
	assemble = func(id int64) NavItem {
		item := *itemMap[id]
		ids := childIDs[id]
		sort.Slice(ids, func(i, j int) bool {
			a, b := itemMap[ids[i]], itemMap[ids[j]]
			if a.Position != b.Position {
				return a.Position < b.Position
			}
			return a.ID < b.ID
		})
		item.Children = make([]NavItem, 0, len(ids))
		for _, cid := range ids {
			item.Children = append(item.Children, assemble(cid))
		}
		return item
	}

	sort.Slice(rootIDs, func(i, j int) bool {
		a, b := itemMap[rootIDs[i]], itemMap[rootIDs[j]]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ID < b.ID
	})

	roots := make([]NavItem, 0, len(rootIDs))
	for _, id := range rootIDs {
		roots = append(roots, assemble(id))
	}
	return roots
}
