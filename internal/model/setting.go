// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Well-known site setting keys.
const (
	SettingSiteName       = "site_name"
	SettingSiteTagline    = "site_tagline"
	SettingLogoURL        = "logo_url"
	SettingPrimaryColor   = "primary_color"
	SettingSecondaryColor = "secondary_color"
	SettingSocialLinks    = "social_links" // JSON object of network -> URL
	SettingContactEmail   = "contact_email"
	SettingSanitizeHTML   = "sanitize_html" // "true" runs authored HTML through the sanitizer
)

// Setting is a single key-value site configuration entry. Values are stored
// as strings; typed reads live in the settings service.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
