// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/store"
)

// LeadRequest is the public contact-form payload.
type LeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

func (r *LeadRequest) validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(r.Email) == "" {
		errs["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errs["email"] = "Email is not valid"
	}
	if strings.TrimSpace(r.Message) == "" {
		errs["message"] = "Message is required"
	}
	return errs
}

// CreateLead stores a contact-form submission. This is the one unauthenticated
// write endpoint; new leads always start in status "new".
// POST /api/v1/leads
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req LeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	now := time.Now()
	created, err := h.queries.CreateLead(r.Context(), store.CreateLeadParams{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Message:   req.Message,
		Source:    req.Source,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("failed to create lead", "error", err)
		WriteInternalError(w, "Failed to submit")
		return
	}

	slog.Info("lead received", "lead_id", created.ID, "source", created.Source)
	WriteCreated(w, created)
}

// ListLeads returns paginated leads, optionally filtered by ?status=.
// GET /api/v1/leads
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, DefaultPerPage, MaxPerPage)

	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidLeadStatus(status) {
		WriteBadRequest(w, "Invalid status filter", nil)
		return
	}

	total, err := h.queries.CountLeads(r.Context(), status)
	if err != nil {
		slog.Error("failed to count leads", "error", err)
		WriteInternalError(w, "Failed to list leads")
		return
	}

	leads, err := h.queries.ListLeads(r.Context(), store.ListLeadsParams{
		Status: status,
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("failed to list leads", "error", err)
		WriteInternalError(w, "Failed to list leads")
		return
	}

	WriteSuccess(w, leads, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pageCount(total, perPage),
	})
}

// GetLead returns a single lead. GET /api/v1/leads/{id}
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, ok := requireEntityByID(w, r, "lead", func(id int64) (model.Lead, error) {
		return h.queries.GetLeadByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, lead, nil)
}

// SetLeadStatusRequest is the PATCH body for lead status updates.
type SetLeadStatusRequest struct {
	Status string `json:"status"`
}

// SetLeadStatus updates only a lead's status. PATCH /api/v1/leads/{id}
func (h *Handler) SetLeadStatus(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "lead", func(id int64) (model.Lead, error) {
		return h.queries.GetLeadByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req SetLeadStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}
	if !model.IsValidLeadStatus(req.Status) {
		WriteValidationError(w, map[string]string{"status": "Unknown lead status"})
		return
	}

	updated, err := h.queries.SetLeadStatus(r.Context(), store.SetLeadStatusParams{
		ID:        existing.ID,
		Status:    req.Status,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to update lead status", "lead_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to update lead")
		return
	}

	WriteSuccess(w, updated, nil)
}

// DeleteLead deletes a lead. DELETE /api/v1/leads/{id}
func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "lead", func(id int64) (model.Lead, error) {
		return h.queries.GetLeadByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteLead(r.Context(), existing.ID); err != nil {
		slog.Error("failed to delete lead", "lead_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to delete lead")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportLeadsCSV streams every lead as a CSV download.
// GET /api/v1/leads/export
func (h *Handler) ExportLeadsCSV(w http.ResponseWriter, r *http.Request) {
	leads, err := h.queries.ListAllLeads(r.Context())
	if err != nil {
		slog.Error("failed to export leads", "error", err)
		WriteInternalError(w, "Failed to export leads")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "name", "email", "phone", "company", "message", "source", "status", "created_at"})
	for _, l := range leads {
		_ = cw.Write([]string{
			strconv.FormatInt(l.ID, 10),
			l.Name,
			l.Email,
			l.Phone,
			l.Company,
			l.Message,
			l.Source,
			l.Status,
			l.CreatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
}
