// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/talentbridge/cms/internal/cache"
	"github.com/talentbridge/cms/internal/config"
	"github.com/talentbridge/cms/internal/handler"
	"github.com/talentbridge/cms/internal/handler/api"
	"github.com/talentbridge/cms/internal/logging"
	"github.com/talentbridge/cms/internal/middleware"
	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/render"
	"github.com/talentbridge/cms/internal/scheduler"
	"github.com/talentbridge/cms/internal/service"
	"github.com/talentbridge/cms/internal/store"
	"github.com/talentbridge/cms/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "tbcms - TalentBridge CMS backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TB_DB_PATH        SQLite database path (default: ./data/cms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TB_SERVER_PORT    Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TB_ENV            Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TB_UPLOADS_DIR    Upload storage directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TB_REDIS_URL      Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TB_DO_SEED        Seed an initial API key on first run (default: false)\n")
	}

	flag.Parse()

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Printf("tbcms %s\n", info)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade the logger so WARN and ERROR records also land in the events table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := seedAPIKey(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding API key: %w", err)
	}

	appCache, err := cache.New(cache.Options{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := appCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "backend", cacheBackend(cfg))

	uploads := service.NewUploadService(cfg.UploadsDir)
	menus := service.NewMenuService(db, appCache)
	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	apiHandler := api.NewHandler(db, uploads, menus, appCache)
	frontendHandler := handler.NewFrontendHandler(db, renderer, menus, appCache, cfg.SiteURL)

	sched := scheduler.New(db, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	r := buildRouter(cfg, db, apiHandler, frontendHandler)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server",
			"addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func cacheBackend(cfg *config.Config) string {
	if cfg.UseRedisCache() {
		return "redis"
	}
	return "memory"
}

// buildRouter wires middleware and every route. Read endpoints are public;
// mutating endpoints require a Bearer API key and are rate limited per key.
func buildRouter(cfg *config.Config, db *sql.DB, h *api.Handler, fh *handler.FrontendHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	global := middleware.NewGlobalRateLimiter(float64(cfg.RateLimit*10)/60, cfg.RateLimit*10)

	// Public API: read endpoints and the contact-form intake. A valid key is
	// not required here, but when one is sent the slug lookups serve drafts
	// for preview.
	r.Group(func(r chi.Router) {
		r.Use(global.Middleware())
		r.Use(middleware.OptionalAPIKeyAuth(db))

		r.Get("/api/v1/status", h.Status)
		r.Get("/api/v1/pages/slug/{slug}", h.GetPageBySlug)
		r.Get("/api/v1/blogs/slug/{slug}", h.GetBlogBySlug)
		r.Get("/api/v1/menus/website", h.GetWebsiteMenu)
		r.Get("/api/v1/testimonials", h.ListTestimonials)
		r.Get("/api/v1/section-schemas", h.SectionSchemas)
		r.Post("/api/v1/leads", h.CreateLead)
	})

	// Admin API: everything else requires a valid key.
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(db))
		r.Use(middleware.APIRateLimit(float64(cfg.RateLimit)/60, cfg.RateLimit))

		r.Get("/api/v1/auth", h.AuthInfo)

		r.Get("/api/v1/pages", h.ListPages)
		r.Post("/api/v1/pages", h.CreatePage)
		r.Get("/api/v1/pages/{id}", h.GetPage)
		r.Put("/api/v1/pages/{id}", h.UpdatePage)
		r.Delete("/api/v1/pages/{id}", h.DeletePage)

		r.Get("/api/v1/pages/{pageID}/sections", h.ListPageSections)
		r.Post("/api/v1/pages/{pageID}/sections", h.CreateSection)
		r.Put("/api/v1/pages/{pageID}/sections/{sectionID}", h.UpdateSection)
		r.Patch("/api/v1/page-sections/{id}", h.SetSectionActive)
		r.Delete("/api/v1/page-sections/{id}", h.DeleteSection)

		r.Get("/api/v1/blogs", h.ListBlogs)
		r.Post("/api/v1/blogs", h.CreateBlog)
		r.Get("/api/v1/blogs/{id}", h.GetBlog)
		r.Put("/api/v1/blogs/{id}", h.UpdateBlog)
		r.Delete("/api/v1/blogs/{id}", h.DeleteBlog)

		r.Post("/api/v1/testimonials", h.CreateTestimonial)
		r.Get("/api/v1/testimonials/{id}", h.GetTestimonial)
		r.Put("/api/v1/testimonials/{id}", h.UpdateTestimonial)
		r.Delete("/api/v1/testimonials/{id}", h.DeleteTestimonial)

		r.Get("/api/v1/leads", h.ListLeads)
		r.Get("/api/v1/leads/export", h.ExportLeadsCSV)
		r.Get("/api/v1/leads/{id}", h.GetLead)
		r.Patch("/api/v1/leads/{id}", h.SetLeadStatus)
		r.Delete("/api/v1/leads/{id}", h.DeleteLead)

		r.Get("/api/v1/menus", h.ListMenus)
		r.Post("/api/v1/menus", h.CreateMenu)
		r.Get("/api/v1/menus/{id}", h.GetMenu)
		r.Put("/api/v1/menus/{id}", h.UpdateMenu)
		r.Delete("/api/v1/menus/{id}", h.DeleteMenu)
		r.Post("/api/v1/menus/{id}/items", h.CreateMenuItem)
		r.Post("/api/v1/menus/{id}/reorder", h.ReorderMenuItems)
		r.Put("/api/v1/menu-items/{id}", h.UpdateMenuItem)
		r.Delete("/api/v1/menu-items/{id}", h.DeleteMenuItem)

		r.Get("/api/v1/signatures", h.ListSignatures)
		r.Post("/api/v1/signatures", h.CreateSignature)
		r.Get("/api/v1/signatures/{id}", h.GetSignature)
		r.Put("/api/v1/signatures/{id}", h.UpdateSignature)
		r.Delete("/api/v1/signatures/{id}", h.DeleteSignature)

		r.Get("/api/v1/settings", h.GetSettings)
		r.Put("/api/v1/settings", h.UpdateSettings)

		r.Get("/api/v1/events", h.ListEvents)
		r.Post("/api/v1/uploads", h.Upload)
	})

	// Uploaded media.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	// Rendered public site.
	r.Group(func(r chi.Router) {
		r.Use(global.HTMLMiddleware())

		r.Get("/", fh.Home)
		r.Get("/sitemap.xml", fh.Sitemap)
		r.Get("/robots.txt", fh.Robots)
		r.Get("/blog/{slug}", fh.Blog)
		r.Post("/contact", fh.Contact)
		r.Get("/{slug}", fh.Page)
	})

	r.NotFound(fh.NotFound)
	return r
}

// seedAPIKey provisions an initial API key on an empty database when seeding
// is enabled. The raw key is printed once and never stored.
func seedAPIKey(ctx context.Context, db *sql.DB, doSeed bool) error {
	if !doSeed {
		return nil
	}

	queries := store.New(db)
	n, err := queries.CountAPIKeys(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	rawKey, prefix, err := model.GenerateAPIKey()
	if err != nil {
		return err
	}
	_, err = queries.CreateAPIKey(ctx, store.CreateAPIKeyParams{
		Name:      "initial admin key",
		KeyHash:   model.HashAPIKey(rawKey),
		KeyPrefix: prefix,
		IsActive:  true,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	slog.Info("seeded initial API key; store it now, it will not be shown again",
		"prefix", prefix)
	fmt.Printf("Initial API key: %s\n", rawKey)
	return nil
}
