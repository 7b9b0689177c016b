// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Blog post statuses share the page status values plus "scheduled".
const (
	BlogStatusDraft     = "draft"
	BlogStatusScheduled = "scheduled"
	BlogStatusPublished = "published"
)

// Blog body formats. Markdown bodies are rendered with goldmark on the
// public site; HTML bodies are authored rich text and pass through as-is.
const (
	BlogFormatMarkdown = "markdown"
	BlogFormatHTML     = "html"
)

// Blog represents a blog post.
type Blog struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Excerpt     string       `json:"excerpt,omitempty"`
	Body        string       `json:"body"`
	Format      string       `json:"format"`
	CoverImage  string       `json:"cover_image,omitempty"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	PublishedAt sql.NullTime `json:"published_at,omitempty"`
	ScheduledAt sql.NullTime `json:"scheduled_at,omitempty"`
}

// IsValidBlogStatus reports whether s is a recognized blog status.
func IsValidBlogStatus(s string) bool {
	return s == BlogStatusDraft || s == BlogStatusScheduled || s == BlogStatusPublished
}
