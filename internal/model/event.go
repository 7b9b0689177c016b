// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryContent = "content"
	EventCategorySection = "section"
	EventCategoryMedia   = "media"
	EventCategoryConfig  = "config"
	EventCategorySystem  = "system"
)

// Event represents an audit log entry.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata,omitempty"` // JSON object stored as string
	CreatedAt time.Time `json:"created_at"`
}
