// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"time"
)

// Options holds configuration for cache creation.
type Options struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for the memory cache (0 = unlimited).
	MaxSize int

	// CleanupInterval is the interval for expired entry cleanup in the memory cache.
	CleanupInterval time.Duration
}

// DefaultOptions returns default cache configuration.
func DefaultOptions() Options {
	return Options{
		DefaultTTL:      time.Hour,
		MaxSize:         10000,
		CleanupInterval: time.Minute,
	}
}

// New creates a cache based on the provided options: Redis when a URL is
// configured, in-memory otherwise.
func New(opts Options) (Cache, error) {
	if opts.RedisURL != "" {
		return NewRedisCacheFromURL(opts.RedisURL, opts.Prefix, opts.DefaultTTL)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      opts.DefaultTTL,
		MaxSize:         opts.MaxSize,
		CleanupInterval: opts.CleanupInterval,
	}), nil
}
