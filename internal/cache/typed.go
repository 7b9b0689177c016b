// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache key namespaces. Writes to a page, its sections, a menu or a setting
// invalidate the matching namespace.
const (
	keyPagePrefix = "page:"
	keyMenuPrefix = "menu:"
	KeySettings   = "settings"
)

// PageKey returns the cache key for a rendered page, keyed by slug.
func PageKey(slug string) string {
	return keyPagePrefix + slug
}

// MenuKey returns the cache key for a menu tree, keyed by menu slug.
func MenuKey(slug string) string {
	return keyMenuPrefix + slug
}

// GetJSON retrieves a cached value and unmarshals it into dest.
// Returns ErrCacheMiss when the key is absent.
func GetJSON(ctx context.Context, c Cache, key string, dest any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetJSON marshals value and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}

// InvalidatePage drops the cached render of a single page.
func InvalidatePage(ctx context.Context, c Cache, slug string) error {
	return c.Delete(ctx, PageKey(slug))
}

// InvalidatePages drops all cached page renders. Used when a change affects
// shared content such as settings or signatures.
func InvalidatePages(ctx context.Context, c Cache) error {
	return c.DeleteByPrefix(ctx, keyPagePrefix)
}

// InvalidateMenus drops all cached menu trees.
func InvalidateMenus(ctx context.Context, c Cache) error {
	return c.DeleteByPrefix(ctx, keyMenuPrefix)
}
