// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	if err := c.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "value1" {
		t.Errorf("Get = %q, want %q", got, "value1")
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_, err := c.Get(ctx, "absent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get absent key err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	if err := c.Set(ctx, "short", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired Get err = %v, want ErrCacheMiss", err)
	}
	if ok, _ := c.Has(ctx, "short"); ok {
		t.Error("Has returned true for expired key")
	}
}

func TestMemoryCacheGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	original := []byte("immutable")
	if err := c.Set(ctx, "k", original, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, _ := c.Get(ctx, "k")
	got[0] = 'X'

	again, _ := c.Get(ctx, "k")
	if string(again) != "immutable" {
		t.Errorf("cached value mutated: %q", again)
	}
}

func TestMemoryCacheDeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_ = c.Set(ctx, PageKey("home"), []byte("a"), 0)
	_ = c.Set(ctx, PageKey("about"), []byte("b"), 0)
	_ = c.Set(ctx, MenuKey("website"), []byte("c"), 0)

	if err := InvalidatePages(ctx, c); err != nil {
		t.Fatalf("InvalidatePages: %v", err)
	}

	if ok, _ := c.Has(ctx, PageKey("home")); ok {
		t.Error("page key survived prefix invalidation")
	}
	if ok, _ := c.Has(ctx, MenuKey("website")); !ok {
		t.Error("menu key dropped by page invalidation")
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	_ = c.Close()

	if err := c.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close err = %v, want ErrCacheClosed", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close err = %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCacheStats(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_ = c.Set(ctx, "k", []byte("v"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "missing")

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("Stats = %+v, want 1 hit, 1 miss, 1 set", stats)
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 {
		t.Errorf("Stats after reset = %+v", s)
	}
}
