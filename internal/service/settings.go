// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/store"
)

// SiteSettings is the typed view of the settings table used by the frontend.
type SiteSettings struct {
	SiteName       string            `json:"site_name"`
	SiteTagline    string            `json:"site_tagline"`
	LogoURL        string            `json:"logo_url"`
	PrimaryColor   string            `json:"primary_color"`
	SecondaryColor string            `json:"secondary_color"`
	SocialLinks    map[string]string `json:"social_links"`
	ContactEmail   string            `json:"contact_email"`
	SanitizeHTML   bool              `json:"sanitize_html"`
}

// SettingsService reads and writes typed site settings.
type SettingsService struct {
	queries *store.Queries
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(db *sql.DB) *SettingsService {
	return &SettingsService{queries: store.New(db)}
}

// Get loads all settings into a typed struct. Missing keys keep zero values.
func (s *SettingsService) Get(ctx context.Context) (SiteSettings, error) {
	settings, err := s.queries.ListSettings(ctx)
	if err != nil {
		return SiteSettings{}, err
	}

	var out SiteSettings
	for _, setting := range settings {
		switch setting.Key {
		case model.SettingSiteName:
			out.SiteName = setting.Value
		case model.SettingSiteTagline:
			out.SiteTagline = setting.Value
		case model.SettingLogoURL:
			out.LogoURL = setting.Value
		case model.SettingPrimaryColor:
			out.PrimaryColor = setting.Value
		case model.SettingSecondaryColor:
			out.SecondaryColor = setting.Value
		case model.SettingSocialLinks:
			// Malformed JSON leaves the map nil rather than failing the page.
			_ = json.Unmarshal([]byte(setting.Value), &out.SocialLinks)
		case model.SettingContactEmail:
			out.ContactEmail = setting.Value
		case model.SettingSanitizeHTML:
			out.SanitizeHTML = setting.Value == "true"
		}
	}
	return out, nil
}

// GetValue returns a single setting value, or "" when unset.
func (s *SettingsService) GetValue(ctx context.Context, key string) (string, error) {
	setting, err := s.queries.GetSetting(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

// SanitizeHTML reports whether authored HTML should be run through the
// sanitizer before rendering. Off unless explicitly enabled.
func (s *SettingsService) SanitizeHTML(ctx context.Context) bool {
	v, err := s.GetValue(ctx, model.SettingSanitizeHTML)
	return err == nil && v == "true"
}

// Set upserts a single setting value.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	return s.queries.UpsertSetting(ctx, store.UpsertSettingParams{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	})
}
