// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/talentbridge/cms/internal/service"
)

// UploadResponse carries the public URL of a stored file.
type UploadResponse struct {
	URL string `json:"url"`
}

// Upload stores a single multipart file part named "file" under the given
// category and returns its public URL. Used by the admin panel for cover
// images, avatars and signature assets; section images go through the
// section save instead. POST /api/v1/uploads?category=blogs
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}

	_, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			WriteValidationError(w, map[string]string{"file": "A file part named \"file\" is required"})
			return
		}
		WriteBadRequest(w, "Invalid file part", nil)
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		category = service.UploadCategorySections
	}

	url, err := h.uploads.Store(header, category)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCategory) || errors.Is(err, service.ErrFileTooLarge) || errors.Is(err, service.ErrUnsupportedType) {
			WriteValidationError(w, map[string]string{"file": err.Error()})
			return
		}
		slog.Error("failed to store upload", "category", category, "error", err)
		WriteInternalError(w, "Failed to store file")
		return
	}

	slog.Info("file uploaded", "category", category, "url", url)
	WriteCreated(w, UploadResponse{URL: url})
}
