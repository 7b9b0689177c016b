// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// SectionKey identifies a section kind. The set of keys is closed: every key
// selects both the authoring field schema and the public template, and adding
// a kind means touching the exhaustive switches that dispatch on it.
type SectionKey string

// Registered section kinds.
const (
	SectionHero                  SectionKey = "hero"
	SectionStats                 SectionKey = "stats"
	SectionJourney               SectionKey = "journey"
	SectionLeadership            SectionKey = "leadership"
	SectionSlider                SectionKey = "slider"
	SectionLeftImageRightContent SectionKey = "leftImageRightContent"
	SectionRightImageLeftContent SectionKey = "rightImageLeftContent"
)

// AllSectionKeys returns every registered section kind in a stable order.
func AllSectionKeys() []SectionKey {
	return []SectionKey{
		SectionHero,
		SectionStats,
		SectionJourney,
		SectionLeadership,
		SectionSlider,
		SectionLeftImageRightContent,
		SectionRightImageLeftContent,
	}
}

// IsValidSectionKey reports whether key names a registered section kind.
func IsValidSectionKey(key SectionKey) bool {
	switch key {
	case SectionHero, SectionStats, SectionJourney, SectionLeadership,
		SectionSlider, SectionLeftImageRightContent, SectionRightImageLeftContent:
		return true
	}
	return false
}

// Section is one ordered, typed content block belonging to a page.
// Meta holds the key-specific payload; its JSON shape is determined by
// SectionKey and validated against the registry before a save is accepted.
// SectionKey is immutable after creation.
type Section struct {
	ID         int64          `json:"id"`
	PageID     int64          `json:"page_id"`
	SectionKey SectionKey     `json:"section_key"`
	Title      string         `json:"title"`
	SubTitle   string         `json:"sub_title,omitempty"`
	Meta       map[string]any `json:"meta"`
	SortOrder  int64          `json:"sort_order"`
	IsActive   bool           `json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
