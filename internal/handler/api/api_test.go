// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// assertStatusCode checks that the response has the expected status code.
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("expected status %d, got %d: %s", expected, w.Code, w.Body.String())
	}
}

// assertErrorResponse unmarshals and validates an error response.
func assertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	if resp.Error.Code != expectedCode {
		t.Errorf("expected error code %q, got %q", expectedCode, resp.Error.Code)
	}
	return resp
}

func TestWriteHelpers(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w http.ResponseWriter)
		wantCode int
		wantErr  string
	}{
		{
			name:     "success with meta",
			write:    func(w http.ResponseWriter) { WriteSuccess(w, map[string]string{"k": "v"}, &Meta{Total: 9}) },
			wantCode: http.StatusOK,
		},
		{
			name:     "created",
			write:    func(w http.ResponseWriter) { WriteCreated(w, map[string]string{"id": "1"}) },
			wantCode: http.StatusCreated,
		},
		{
			name:     "bad request",
			write:    func(w http.ResponseWriter) { WriteBadRequest(w, "nope", nil) },
			wantCode: http.StatusBadRequest,
			wantErr:  "bad_request",
		},
		{
			name:     "not found",
			write:    func(w http.ResponseWriter) { WriteNotFound(w, "gone") },
			wantCode: http.StatusNotFound,
			wantErr:  "not_found",
		},
		{
			name:     "unauthorized",
			write:    func(w http.ResponseWriter) { WriteUnauthorized(w, "who are you") },
			wantCode: http.StatusUnauthorized,
			wantErr:  "unauthorized",
		},
		{
			name:     "forbidden",
			write:    func(w http.ResponseWriter) { WriteForbidden(w, "no") },
			wantCode: http.StatusForbidden,
			wantErr:  "forbidden",
		},
		{
			name:     "internal error",
			write:    func(w http.ResponseWriter) { WriteInternalError(w, "boom") },
			wantCode: http.StatusInternalServerError,
			wantErr:  "internal_error",
		},
		{
			name:     "validation error",
			write:    func(w http.ResponseWriter) { WriteValidationError(w, map[string]string{"title": "Required"}) },
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "validation_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assertStatusCode(t, w, tt.wantCode)
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			if tt.wantErr != "" {
				assertErrorResponse(t, w, tt.wantErr)
			}
		})
	}
}

func TestWriteValidationErrorDetails(t *testing.T) {
	w := httptest.NewRecorder()
	WriteValidationError(w, map[string]string{
		"title":      "Title is required",
		"sort_order": "Sort order must be 0 or greater",
	})

	resp := assertErrorResponse(t, w, "validation_error")
	if len(resp.Error.Details) != 2 {
		t.Errorf("expected 2 details, got %d", len(resp.Error.Details))
	}
	if resp.Error.Details["title"] != "Title is required" {
		t.Errorf("details.title = %q", resp.Error.Details["title"])
	}
}

func TestStatus(t *testing.T) {
	_, h := testSetup(t)

	w := httptest.NewRecorder()
	h.Status(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	assertStatusCode(t, w, http.StatusOK)
	var resp struct {
		Data StatusResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal status: %v", err)
	}
	if resp.Data.Status != "ok" || resp.Data.Version != "v1" {
		t.Errorf("status = %+v", resp.Data)
	}
}

func TestCapitalizeFirst(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"page", "Page"},
		{"menu item", "Menu item"},
		{"X", "X"},
	}
	for _, tt := range tests {
		if got := capitalizeFirst(tt.in); got != tt.want {
			t.Errorf("capitalizeFirst(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 7, 15},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := pageCount(tt.total, tt.perPage); got != tt.want {
			t.Errorf("pageCount(%d, %d) = %d, want %d", tt.total, tt.perPage, got, tt.want)
		}
	}
}
