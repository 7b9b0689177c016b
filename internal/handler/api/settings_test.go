// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/talentbridge/cms/internal/service"
)

func TestUpdateSettingsRoundTrip(t *testing.T) {
	_, h := testSetup(t)

	body := `{
		"site_name": "TalentBridge",
		"primary_color": "#0f4c81",
		"social_links": "{\"linkedin\": \"https://linkedin.com/company/tb\"}"
	}`
	w := doRequest(h, httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body)))
	assertStatusCode(t, w, http.StatusOK)

	w = doRequest(h, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))
	assertStatusCode(t, w, http.StatusOK)

	var resp struct {
		Data service.SiteSettings `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal settings: %v", err)
	}
	if resp.Data.SiteName != "TalentBridge" {
		t.Errorf("site_name = %q", resp.Data.SiteName)
	}
	if resp.Data.PrimaryColor != "#0f4c81" {
		t.Errorf("primary_color = %q", resp.Data.PrimaryColor)
	}
	if resp.Data.SocialLinks["linkedin"] != "https://linkedin.com/company/tb" {
		t.Errorf("social_links = %v", resp.Data.SocialLinks)
	}
}

func TestUpdateSettingsRejectsUnknownKey(t *testing.T) {
	_, h := testSetup(t)

	w := doRequest(h, httptest.NewRequest(http.MethodPut, "/api/v1/settings",
		strings.NewReader(`{"site_nmae": "typo"}`)))
	assertStatusCode(t, w, http.StatusUnprocessableEntity)
	resp := assertErrorResponse(t, w, "validation_error")
	if _, ok := resp.Error.Details["site_nmae"]; !ok {
		t.Errorf("expected detail for unknown key, got %v", resp.Error.Details)
	}
}

func TestUpdateSettingsRejectsMalformedSocialLinks(t *testing.T) {
	_, h := testSetup(t)

	w := doRequest(h, httptest.NewRequest(http.MethodPut, "/api/v1/settings",
		strings.NewReader(`{"social_links": "not json"}`)))
	assertStatusCode(t, w, http.StatusUnprocessableEntity)
}

func TestUpdateSettingsEmptyBody(t *testing.T) {
	_, h := testSetup(t)

	w := doRequest(h, httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(`{}`)))
	assertStatusCode(t, w, http.StatusUnprocessableEntity)
}
