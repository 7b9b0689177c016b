// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"

	"github.com/talentbridge/cms/internal/store"
)

// ListEvents returns paginated audit-log entries, newest first, optionally
// filtered by ?level=. GET /api/v1/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, DefaultPerPage, MaxPerPage)
	level := r.URL.Query().Get("level")

	total, err := h.queries.CountEvents(r.Context(), level)
	if err != nil {
		slog.Error("failed to count events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}

	events, err := h.queries.ListEvents(r.Context(), store.ListEventsParams{
		Level:  level,
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("failed to list events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}

	WriteSuccess(w, events, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pageCount(total, perPage),
	})
}
