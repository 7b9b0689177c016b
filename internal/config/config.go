// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"TB_DB_PATH" envDefault:"./data/cms.db"`
	ServerHost string `env:"TB_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"TB_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"TB_ENV" envDefault:"development"`
	SiteURL    string `env:"TB_SITE_URL" envDefault:"http://localhost:8080"`
	LogLevel   string `env:"TB_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"TB_UPLOADS_DIR" envDefault:"./uploads"`

	// Cache configuration
	RedisURL     string `env:"TB_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"TB_CACHE_PREFIX" envDefault:"tbcms:"`  // Redis key prefix
	CacheTTL     int    `env:"TB_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"TB_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// API rate limiting
	RateLimit int `env:"TB_RATE_LIMIT" envDefault:"60"` // Requests per minute per client

	// Seeding configuration
	DoSeed bool `env:"TB_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("TB_SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.RateLimit < 1 {
		return nil, fmt.Errorf("TB_RATE_LIMIT must be positive, got %d", cfg.RateLimit)
	}
	return cfg, nil
}
