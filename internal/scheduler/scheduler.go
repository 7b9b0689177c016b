// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic background jobs: publishing
// scheduled blog posts and pruning old audit events.
package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/store"
)

// eventRetention is how long audit events are kept before pruning.
const eventRetention = 90 * 24 * time.Hour

// Scheduler owns the cron loop for background jobs.
type Scheduler struct {
	db      *sql.DB
	queries *store.Queries
	cron    *cron.Cron
	logger  *slog.Logger
}

// New creates a scheduler instance.
func New(db *sql.DB, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:      db,
		queries: store.New(db),
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers the jobs and begins the cron loop. Scheduled posts are
// checked every minute; event pruning runs nightly.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.PublishDueBlogs(context.Background()); err != nil {
			s.logger.Error("failed to process scheduled posts", "error", err)
		}
	})
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc("30 3 * * *", func() {
		if err := s.PruneEvents(context.Background()); err != nil {
			s.logger.Error("failed to prune events", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PublishDueBlogs flips every scheduled post whose scheduled_at has passed
// to published and records an audit event for each.
func (s *Scheduler) PublishDueBlogs(ctx context.Context) error {
	now := time.Now()
	blogs, err := s.queries.GetScheduledBlogsDue(ctx, now)
	if err != nil {
		return err
	}
	if len(blogs) == 0 {
		return nil
	}

	s.logger.Info("processing scheduled posts", "count", len(blogs))

	for _, blog := range blogs {
		if err := s.publishBlog(ctx, blog, now); err != nil {
			s.logger.Error("failed to publish scheduled post",
				"blog_id", blog.ID, "slug", blog.Slug, "error", err)
			continue
		}
		s.logger.Info("published scheduled post",
			"blog_id", blog.ID, "slug", blog.Slug,
			"scheduled_at", blog.ScheduledAt.Time)
	}
	return nil
}

func (s *Scheduler) publishBlog(ctx context.Context, blog model.Blog, now time.Time) error {
	err := s.queries.PublishBlog(ctx, store.PublishBlogParams{
		ID:          blog.ID,
		PublishedAt: now,
	})
	if err != nil {
		return err
	}

	metadata, _ := json.Marshal(map[string]any{
		"blog_id":      blog.ID,
		"slug":         blog.Slug,
		"scheduled_at": blog.ScheduledAt.Time.Format(time.RFC3339),
		"published_at": now.Format(time.RFC3339),
	})
	_, err = s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryContent,
		Message:   "scheduled post published: " + blog.Title,
		Metadata:  string(metadata),
		CreatedAt: now,
	})
	if err != nil {
		s.logger.Warn("failed to record publish event", "blog_id", blog.ID, "error", err)
	}
	return nil
}

// PruneEvents deletes audit events older than the retention window.
func (s *Scheduler) PruneEvents(ctx context.Context) error {
	cutoff := time.Now().Add(-eventRetention)
	pruned, err := s.queries.PruneEventsBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if pruned > 0 {
		s.logger.Info("pruned audit events", "count", pruned, "cutoff", cutoff)
	}
	return nil
}
