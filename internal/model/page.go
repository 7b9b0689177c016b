// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application.
package model

import (
	"database/sql"
	"time"
)

// Page statuses
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

// Page represents a CMS page composed of ordered sections.
type Page struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Slug            string       `json:"slug"`
	Status          string       `json:"status"`
	MetaTitle       string       `json:"meta_title,omitempty"`
	MetaDescription string       `json:"meta_description,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	PublishedAt     sql.NullTime `json:"published_at,omitempty"`
}

// IsValidPageStatus reports whether s is a recognized page status.
func IsValidPageStatus(s string) bool {
	return s == PageStatusDraft || s == PageStatusPublished
}

// IsPublished returns true if the page is published.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// IsDraft returns true if the page is a draft.
func (p *Page) IsDraft() bool {
	return p.Status == PageStatusDraft
}
