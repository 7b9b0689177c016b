// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/talentbridge/cms/internal/model"
)

func submitLead(t *testing.T, h *Handler, name, email, message string) model.Lead {
	t.Helper()

	body := fmt.Sprintf(`{"name": %q, "email": %q, "message": %q, "source": "contact-form"}`,
		name, email, message)
	w := doRequest(h, httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(body)))
	assertStatusCode(t, w, http.StatusCreated)

	var resp struct {
		Data model.Lead `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal lead: %v", err)
	}
	return resp.Data
}

func TestCreateLeadStartsNew(t *testing.T) {
	_, h := testSetup(t)

	lead := submitLead(t, h, "Ann", "ann@example.com", "Hello there")
	if lead.Status != model.LeadStatusNew {
		t.Errorf("status = %q, want new", lead.Status)
	}
	if lead.Source != "contact-form" {
		t.Errorf("source = %q", lead.Source)
	}
}

func TestCreateLeadValidation(t *testing.T) {
	_, h := testSetup(t)

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing name", `{"email": "a@b.com", "message": "hi"}`, "name"},
		{"missing email", `{"name": "Ann", "message": "hi"}`, "email"},
		{"bad email", `{"name": "Ann", "email": "not-an-email", "message": "hi"}`, "email"},
		{"missing message", `{"name": "Ann", "email": "a@b.com"}`, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(h, httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(tt.body)))
			assertStatusCode(t, w, http.StatusUnprocessableEntity)
			resp := assertErrorResponse(t, w, "validation_error")
			if _, ok := resp.Error.Details[tt.wantField]; !ok {
				t.Errorf("expected detail for %q, got %v", tt.wantField, resp.Error.Details)
			}
		})
	}
}

func TestSetLeadStatus(t *testing.T) {
	_, h := testSetup(t)
	lead := submitLead(t, h, "Ann", "ann@example.com", "Hello")

	url := fmt.Sprintf("/api/v1/leads/%d", lead.ID)
	w := doRequest(h, httptest.NewRequest(http.MethodPatch, url, strings.NewReader(`{"status": "contacted"}`)))
	assertStatusCode(t, w, http.StatusOK)

	var resp struct {
		Data model.Lead `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if resp.Data.Status != model.LeadStatusContacted {
		t.Errorf("status = %q, want contacted", resp.Data.Status)
	}
	if resp.Data.Message != "Hello" {
		t.Errorf("status update touched message: %q", resp.Data.Message)
	}

	w = doRequest(h, httptest.NewRequest(http.MethodPatch, url, strings.NewReader(`{"status": "spam"}`)))
	assertStatusCode(t, w, http.StatusUnprocessableEntity)
}

func TestListLeadsFilterAndPagination(t *testing.T) {
	_, h := testSetup(t)
	for i := 0; i < 3; i++ {
		submitLead(t, h, fmt.Sprintf("Lead %d", i), fmt.Sprintf("l%d@example.com", i), "hi")
	}

	w := doRequest(h, httptest.NewRequest(http.MethodGet, "/api/v1/leads?status=new&per_page=2", nil))
	assertStatusCode(t, w, http.StatusOK)

	var resp struct {
		Data []model.Lead `json:"data"`
		Meta *Meta        `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("expected 2 leads, got %d", len(resp.Data))
	}
	if resp.Meta == nil || resp.Meta.Total != 3 {
		t.Errorf("meta = %+v", resp.Meta)
	}
}

func TestExportLeadsCSV(t *testing.T) {
	_, h := testSetup(t)
	submitLead(t, h, "Ann", "ann@example.com", "Hello, \"quoted\"")

	w := doRequest(h, httptest.NewRequest(http.MethodGet, "/api/v1/leads/export", nil))
	assertStatusCode(t, w, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,name,email") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "ann@example.com") {
		t.Errorf("row missing email: %q", lines[1])
	}
}

func TestDeleteLead(t *testing.T) {
	_, h := testSetup(t)
	lead := submitLead(t, h, "Ann", "ann@example.com", "Hello")

	url := fmt.Sprintf("/api/v1/leads/%d", lead.ID)
	assertStatusCode(t, doRequest(h, httptest.NewRequest(http.MethodDelete, url, nil)), http.StatusNoContent)
	assertStatusCode(t, doRequest(h, httptest.NewRequest(http.MethodGet, url, nil)), http.StatusNotFound)
}
