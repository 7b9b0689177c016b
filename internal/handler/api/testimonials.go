// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/store"
)

// TestimonialRequest is the create/update payload for testimonials.
type TestimonialRequest struct {
	Author    string `json:"author"`
	Company   string `json:"company"`
	Role      string `json:"role"`
	Quote     string `json:"quote"`
	Rating    int64  `json:"rating"`
	Avatar    string `json:"avatar"`
	IsActive  *bool  `json:"is_active"`
	SortOrder int64  `json:"sort_order"`
}

func (r *TestimonialRequest) validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.Author) == "" {
		errs["author"] = "Author is required"
	}
	if strings.TrimSpace(r.Quote) == "" {
		errs["quote"] = "Quote is required"
	}
	if !model.IsValidRating(r.Rating) {
		errs["rating"] = "Rating must be between 1 and 5"
	}
	if r.SortOrder < 0 {
		errs["sort_order"] = "Sort order must be 0 or greater"
	}
	return errs
}

func (r *TestimonialRequest) active() bool {
	if r.IsActive == nil {
		return true
	}
	return *r.IsActive
}

// ListTestimonials returns paginated testimonials; ?active=true narrows to
// visible ones. GET /api/v1/testimonials
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, DefaultPerPage, MaxPerPage)
	activeOnly := r.URL.Query().Get("active") == "true"

	total, err := h.queries.CountTestimonials(r.Context(), activeOnly)
	if err != nil {
		slog.Error("failed to count testimonials", "error", err)
		WriteInternalError(w, "Failed to list testimonials")
		return
	}

	testimonials, err := h.queries.ListTestimonials(r.Context(), store.ListTestimonialsParams{
		ActiveOnly: activeOnly,
		Limit:      int64(perPage),
		Offset:     int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("failed to list testimonials", "error", err)
		WriteInternalError(w, "Failed to list testimonials")
		return
	}

	WriteSuccess(w, testimonials, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pageCount(total, perPage),
	})
}

// GetTestimonial returns a single testimonial. GET /api/v1/testimonials/{id}
func (h *Handler) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	testimonial, ok := requireEntityByID(w, r, "testimonial", func(id int64) (model.Testimonial, error) {
		return h.queries.GetTestimonialByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, testimonial, nil)
}

// CreateTestimonial creates a testimonial. POST /api/v1/testimonials
func (h *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req TestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	now := time.Now()
	created, err := h.queries.CreateTestimonial(r.Context(), store.CreateTestimonialParams{
		Author:    req.Author,
		Company:   req.Company,
		Role:      req.Role,
		Quote:     req.Quote,
		Rating:    req.Rating,
		Avatar:    req.Avatar,
		IsActive:  req.active(),
		SortOrder: req.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("failed to create testimonial", "error", err)
		WriteInternalError(w, "Failed to create testimonial")
		return
	}

	WriteCreated(w, created)
}

// UpdateTestimonial updates a testimonial. PUT /api/v1/testimonials/{id}
func (h *Handler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "testimonial", func(id int64) (model.Testimonial, error) {
		return h.queries.GetTestimonialByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req TestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	updated, err := h.queries.UpdateTestimonial(r.Context(), store.UpdateTestimonialParams{
		ID:        existing.ID,
		Author:    req.Author,
		Company:   req.Company,
		Role:      req.Role,
		Quote:     req.Quote,
		Rating:    req.Rating,
		Avatar:    req.Avatar,
		IsActive:  req.active(),
		SortOrder: req.SortOrder,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to update testimonial", "testimonial_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to update testimonial")
		return
	}

	WriteSuccess(w, updated, nil)
}

// DeleteTestimonial deletes a testimonial. DELETE /api/v1/testimonials/{id}
func (h *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "testimonial", func(id int64) (model.Testimonial, error) {
		return h.queries.GetTestimonialByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteTestimonial(r.Context(), existing.ID); err != nil {
		slog.Error("failed to delete testimonial", "testimonial_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to delete testimonial")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
