// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.DBPath != "./data/cms.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() = true without TB_REDIS_URL")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false with default env")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TB_SERVER_HOST", "0.0.0.0")
	t.Setenv("TB_SERVER_PORT", "9090")
	t.Setenv("TB_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TB_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := cfg.ServerAddr(); got != "0.0.0.0:9090" {
		t.Errorf("ServerAddr() = %q", got)
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false with TB_REDIS_URL set")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true in production")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("TB_SERVER_PORT", "70000")
	if _, err := Load(); err == nil {
		t.Error("Load() accepted out-of-range port")
	}
}

func TestLoadRejectsBadRateLimit(t *testing.T) {
	t.Setenv("TB_RATE_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Error("Load() accepted zero rate limit")
	}
}
