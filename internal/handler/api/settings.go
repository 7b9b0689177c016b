// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/talentbridge/cms/internal/model"
)

// knownSettingKeys is the closed set of writable setting keys. Unknown keys
// are rejected so typos don't silently create dead settings.
var knownSettingKeys = map[string]bool{
	model.SettingSiteName:       true,
	model.SettingSiteTagline:    true,
	model.SettingLogoURL:        true,
	model.SettingPrimaryColor:   true,
	model.SettingSecondaryColor: true,
	model.SettingSocialLinks:    true,
	model.SettingContactEmail:   true,
	model.SettingSanitizeHTML:   true,
}

// GetSettings returns the typed site settings object.
// GET /api/v1/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		WriteInternalError(w, "Failed to load settings")
		return
	}
	WriteSuccess(w, settings, nil)
}

// UpdateSettings upserts a batch of setting keys.
// PUT /api/v1/settings, body {"key": "value", ...}
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}
	if len(req) == 0 {
		WriteValidationError(w, map[string]string{"settings": "At least one setting is required"})
		return
	}

	errs := make(map[string]string)
	for key := range req {
		if !knownSettingKeys[key] {
			errs[key] = "Unknown setting key"
		}
	}
	if v, ok := req[model.SettingSocialLinks]; ok && v != "" {
		var links map[string]string
		if err := json.Unmarshal([]byte(v), &links); err != nil {
			errs[model.SettingSocialLinks] = "social_links must be a JSON object of network -> URL"
		}
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	for key, value := range req {
		if err := h.settings.Set(r.Context(), key, value); err != nil {
			slog.Error("failed to save setting", "key", key, "error", err)
			WriteInternalError(w, "Failed to save settings")
			return
		}
	}

	settings, err := h.settings.Get(r.Context())
	if err != nil {
		slog.Error("failed to reload settings", "error", err)
		WriteInternalError(w, "Failed to load settings")
		return
	}

	slog.Info("settings updated", "keys", len(req))
	h.invalidateAllPages(r.Context())
	WriteSuccess(w, settings, nil)
}
