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

func createTestimonial(t *testing.T, h *Handler, body string) model.Testimonial {
	t.Helper()

	w := doRequest(h, httptest.NewRequest(http.MethodPost, "/api/v1/testimonials", strings.NewReader(body)))
	assertStatusCode(t, w, http.StatusCreated)

	var resp struct {
		Data model.Testimonial `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal testimonial: %v", err)
	}
	return resp.Data
}

func TestCreateTestimonial(t *testing.T) {
	_, h := testSetup(t)

	created := createTestimonial(t, h,
		`{"author": "Kim", "company": "Acme", "quote": "Great service", "rating": 5}`)
	if created.Author != "Kim" || created.Rating != 5 {
		t.Errorf("got %+v", created)
	}
	if !created.IsActive {
		t.Error("expected active by default")
	}
}

func TestCreateTestimonialRatingBounds(t *testing.T) {
	_, h := testSetup(t)

	for _, rating := range []int{0, 6} {
		body := fmt.Sprintf(`{"author": "Kim", "quote": "ok", "rating": %d}`, rating)
		w := doRequest(h, httptest.NewRequest(http.MethodPost, "/api/v1/testimonials", strings.NewReader(body)))
		assertStatusCode(t, w, http.StatusUnprocessableEntity)
		resp := assertErrorResponse(t, w, "validation_error")
		if _, ok := resp.Error.Details["rating"]; !ok {
			t.Errorf("rating %d: expected rating detail, got %v", rating, resp.Error.Details)
		}
	}
}

func TestListTestimonialsActiveFilter(t *testing.T) {
	_, h := testSetup(t)

	createTestimonial(t, h, `{"author": "A", "quote": "x", "rating": 5}`)
	hidden := createTestimonial(t, h, `{"author": "B", "quote": "y", "rating": 4, "is_active": false}`)

	w := doRequest(h, httptest.NewRequest(http.MethodGet, "/api/v1/testimonials?active=true", nil))
	assertStatusCode(t, w, http.StatusOK)

	var resp struct {
		Data []model.Testimonial `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 active testimonial, got %d", len(resp.Data))
	}
	if resp.Data[0].ID == hidden.ID {
		t.Error("inactive testimonial leaked into active list")
	}
}

func TestUpdateAndDeleteTestimonial(t *testing.T) {
	_, h := testSetup(t)
	created := createTestimonial(t, h, `{"author": "Kim", "quote": "ok", "rating": 3}`)

	url := fmt.Sprintf("/api/v1/testimonials/%d", created.ID)
	update := `{"author": "Kim L.", "quote": "even better", "rating": 4, "sort_order": 2}`
	w := doRequest(h, httptest.NewRequest(http.MethodPut, url, strings.NewReader(update)))
	assertStatusCode(t, w, http.StatusOK)

	var resp struct {
		Data model.Testimonial `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if resp.Data.Author != "Kim L." || resp.Data.Rating != 4 || resp.Data.SortOrder != 2 {
		t.Errorf("got %+v", resp.Data)
	}

	assertStatusCode(t, doRequest(h, httptest.NewRequest(http.MethodDelete, url, nil)), http.StatusNoContent)
	assertStatusCode(t, doRequest(h, httptest.NewRequest(http.MethodGet, url, nil)), http.StatusNotFound)
}
