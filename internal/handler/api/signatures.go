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

// SignatureRequest is the create/update payload for email signatures. Body is
// raw HTML, stored verbatim.
type SignatureRequest struct {
	Name      string `json:"name"`
	Body      string `json:"body"`
	IsDefault bool   `json:"is_default"`
}

func (r *SignatureRequest) validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(r.Body) == "" {
		errs["body"] = "Body is required"
	}
	return errs
}

// ListSignatures returns all signatures, default first.
// GET /api/v1/signatures
func (h *Handler) ListSignatures(w http.ResponseWriter, r *http.Request) {
	signatures, err := h.queries.ListSignatures(r.Context())
	if err != nil {
		slog.Error("failed to list signatures", "error", err)
		WriteInternalError(w, "Failed to list signatures")
		return
	}
	WriteSuccess(w, signatures, nil)
}

// GetSignature returns a single signature. GET /api/v1/signatures/{id}
func (h *Handler) GetSignature(w http.ResponseWriter, r *http.Request) {
	signature, ok := requireEntityByID(w, r, "signature", func(id int64) (model.Signature, error) {
		return h.queries.GetSignatureByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, signature, nil)
}

// CreateSignature creates a signature. Marking it default clears the previous
// default. POST /api/v1/signatures
func (h *Handler) CreateSignature(w http.ResponseWriter, r *http.Request) {
	var req SignatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	now := time.Now()
	created, err := h.queries.CreateSignature(r.Context(), store.CreateSignatureParams{
		Name:      req.Name,
		Body:      req.Body,
		IsDefault: req.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("failed to create signature", "error", err)
		WriteInternalError(w, "Failed to create signature")
		return
	}

	WriteCreated(w, created)
}

// UpdateSignature updates a signature. PUT /api/v1/signatures/{id}
func (h *Handler) UpdateSignature(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "signature", func(id int64) (model.Signature, error) {
		return h.queries.GetSignatureByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req SignatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON", nil)
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	updated, err := h.queries.UpdateSignature(r.Context(), store.UpdateSignatureParams{
		ID:        existing.ID,
		Name:      req.Name,
		Body:      req.Body,
		IsDefault: req.IsDefault,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to update signature", "signature_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to update signature")
		return
	}

	WriteSuccess(w, updated, nil)
}

// DeleteSignature deletes a signature. DELETE /api/v1/signatures/{id}
func (h *Handler) DeleteSignature(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "signature", func(id int64) (model.Signature, error) {
		return h.queries.GetSignatureByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteSignature(r.Context(), existing.ID); err != nil {
		slog.Error("failed to delete signature", "signature_id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to delete signature")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
