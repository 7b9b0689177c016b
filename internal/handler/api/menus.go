// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/service"
	"github.com/talentbridge/cms/internal/store"
	"github.com/talentbridge/cms/internal/util"
)

// MenuRequest is the create/update payload for menus.
type MenuRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IsActive *bool  `json:"is_active"`
}

func (r *MenuRequest) validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "Name is required"
	}
	return errs
}

func (r *MenuRequest) active() bool {
	if r.IsActive == nil {
		return true
	}
	return *r.IsActive
}

// MenuItemRequest is the create/update payload for menu items.
type MenuItemRequest struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Target   string `json:"target"`
	PageID   *int64 `json:"page_id"`
	Position int64  `json:"position"`
	IsActive *bool  `json:"is_active"`
	ParentID *int64 `json:"parent_id"`
}

func (r *MenuItemRequest) validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = "Title is required"
	}
	if r.URL == "" && r.PageID == nil {
		errs["url"] = "Either url or page_id is required"
	}
	if r.Target != "" && !model.IsValidTarget(r.Target) {
		errs["target"] = "Unknown link target"
	}
	if r.Position < 0 {
		errs["position"] = "Position must be 0 or greater"
	}
	return errs
}

func (r *MenuItemRequest) active() bool {
	if r.IsActive == nil {
		return true
	}
	return *r.IsActive
}

// ListMenus returns all menus. GET /api/v1/menus
func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.queries.ListMenus(r.Context())
	if err != nil {
		slog.Error("failed to list menus", "error", err)
		WriteInternalError(w, "Failed to list menus")
		return
	}
	WriteSuccess(w, menus, nil)
}

// GetMenu returns a menu with its flat item list. GET /api/v1/menus/{id}
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, ok := requireEntityByID(w, r, "menu", func(id int64) (model.Menu, error) {
		return h.queries.GetMenuByID(r.Context(), id)
	})
	if !ok {
		return
	}

	items, err := h.queries.ListMenuItems(r.Context(), menu.ID)
	if err != nil {
		slog.Error("failed to list menu items", "menu_id", menu.ID, "error", err)
		WriteInternalError(w, "Failed to retrieve menu")
		return
	}

	type MenuWithItems struct {
		model.Menu
		Items []model.MenuItem `json:"items"`
	}
	WriteSuccess(w, MenuWithItems{Menu: menu, Items: items}, nil)
}

// GetWebsiteMenu returns the public navigation tree for the active website
// menu. An inactive or missing menu yields an empty list, not an error.
// GET /api/v1/menus/website
func (h *Handler) GetWebsiteMenu(w http.ResponseWriter, r *http.Request) {
	nav, err := h.menus.GetMenu(r.Context(), model.MenuWebsite)
	if err != nil {
		slog.Error("failed to build website menu", "error", err)
		WriteInternalError(w, "Failed to retrieve menu")
		return
	}
	if nav == nil {
		nav = []service.NavItem{}
	}
	WriteSuccess(w, nav, nil)
}

// CreateMenu creates a menu. POST /api/v1/menus
func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	var req MenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Name)
	} else {
		req.Slug = util.Slugify(req.Slug)
	}

	now := time.Now()
	created, err := h.queries.CreateMenu(r.Context(), store.CreateMenuParams{
		Name:      req.Name,
		Slug:      req.Slug,
		IsActive:  req.active(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("failed to create menu", "slug", req.Slug, "error", err)
		WriteInternalError(w, "Failed to create menu")
		return
	}

	h.menus.InvalidateCache(r.Context())
	h.invalidateAllPages(r.Context())
	WriteCreated(w, created)
}

// UpdateMenu updates a menu. PUT /api/v1/menus/{id}
func (h *Handler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "menu", func(id int64) (model.Menu, error) {
		return h.queries.GetMenuByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req MenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}
	if req.Slug == "" {
		req.Slug = existing.Slug
	} else {
		req.Slug = util.Slugify(req.Slug)
	}

	updated, err := h.queries.UpdateMenu(r.Context(), store.UpdateMenuParams{
		ID:        existing.ID,
		Name:      req.Name,
		Slug:      req.Slug,
		IsActive:  req.active(),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to update menu", "menu_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to update menu")
		return
	}

	h.menus.InvalidateCache(r.Context())
	h.invalidateAllPages(r.Context())
	WriteSuccess(w, updated, nil)
}

// DeleteMenu deletes a menu and its items. DELETE /api/v1/menus/{id}
func (h *Handler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "menu", func(id int64) (model.Menu, error) {
		return h.queries.GetMenuByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteMenu(r.Context(), existing.ID); err != nil {
		slog.Error("failed to delete menu", "menu_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to delete menu")
		return
	}

	h.menus.InvalidateCache(r.Context())
	h.invalidateAllPages(r.Context())
	slog.Warn("menu deleted", "menu_id", existing.ID, "slug", existing.Slug)
	w.WriteHeader(http.StatusNoContent)
}

// CreateMenuItem adds an item to a menu. POST /api/v1/menus/{id}/items
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	menu, ok := requireEntityByID(w, r, "menu", func(id int64) (model.Menu, error) {
		return h.queries.GetMenuByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}
	if req.Target == "" {
		req.Target = model.TargetSelf
	}

	now := time.Now()
	created, err := h.queries.CreateMenuItem(r.Context(), store.CreateMenuItemParams{
		MenuID:    menu.ID,
		ParentID:  req.ParentID,
		Title:     req.Title,
		URL:       req.URL,
		Target:    req.Target,
		PageID:    req.PageID,
		Position:  req.Position,
		IsActive:  req.active(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("failed to create menu item", "menu_id", menu.ID, "error", err)
		WriteInternalError(w, "Failed to create menu item")
		return
	}

	h.menus.InvalidateCache(r.Context())
	h.invalidateAllPages(r.Context())
	WriteCreated(w, created)
}

// UpdateMenuItem updates a menu item. PUT /api/v1/menu-items/{id}
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "menu item", func(id int64) (model.MenuItem, error) {
		return h.queries.GetMenuItemByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}
	if req.Target == "" {
		req.Target = model.TargetSelf
	}

	updated, err := h.queries.UpdateMenuItem(r.Context(), store.UpdateMenuItemParams{
		ID:        existing.ID,
		Title:     req.Title,
		URL:       req.URL,
		Target:    req.Target,
		PageID:    req.PageID,
		Position:  req.Position,
		IsActive:  req.active(),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to update menu item", "item_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to update menu item")
		return
	}

	h.menus.InvalidateCache(r.Context())
	h.invalidateAllPages(r.Context())
	WriteSuccess(w, updated, nil)
}

// DeleteMenuItem deletes a menu item. DELETE /api/v1/menu-items/{id}
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "menu item", func(id int64) (model.MenuItem, error) {
		return h.queries.GetMenuItemByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteMenuItem(r.Context(), existing.ID); err != nil {
		slog.Error("failed to delete menu item", "item_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to delete menu item")
		return
	}

	h.menus.InvalidateCache(r.Context())
	h.invalidateAllPages(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ReorderMenuItemsRequest lists item IDs in their new display order.
type ReorderMenuItemsRequest struct {
	ItemIDs []int64 `json:"item_ids"`
}

// ReorderMenuItems assigns positions to a menu's items from the submitted
// order. POST /api/v1/menus/{id}/reorder
func (h *Handler) ReorderMenuItems(w http.ResponseWriter, r *http.Request) {
	menu, ok := requireEntityByID(w, r, "menu", func(id int64) (model.Menu, error) {
		return h.queries.GetMenuByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req ReorderMenuItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}
	if len(req.ItemIDs) == 0 {
		WriteValidationError(w, map[string]string{"item_ids": "item_ids is required"})
		return
	}

	for pos, id := range req.ItemIDs {
		err := h.queries.SetMenuItemPosition(r.Context(), store.SetMenuItemPositionParams{
			ID:       id,
			Position: int64(pos),
		})
		if err != nil {
			slog.Error("failed to reorder menu items", "menu_id", menu.ID, "item_id", id, "error", err)
			WriteInternalError(w, "Failed to reorder menu items")
			return
		}
	}

	h.menus.InvalidateCache(r.Context())
	h.invalidateAllPages(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
