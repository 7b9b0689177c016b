// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/talentbridge/cms/internal/model"
)

const eventColumns = `id, level, category, message, metadata, created_at`

// CreateEventParams holds the fields for recording an audit event.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts an audit log entry.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	var e model.Event
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO events (level, category, message, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+eventColumns,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt).
		Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt)
	return e, err
}

// ListEventsParams filters and paginates the audit log. Level empty means all.
type ListEventsParams struct {
	Level  string
	Limit  int64
	Offset int64
}

// ListEvents returns audit entries, newest first.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []any{}
	if arg.Level != "" {
		query += ` WHERE level = ?`
		args = append(args, arg.Level)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountEvents counts audit entries, optionally filtered by level.
func (q *Queries) CountEvents(ctx context.Context, level string) (int64, error) {
	var n int64
	var err error
	if level == "" {
		err = q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	} else {
		err = q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE level = ?`, level).Scan(&n)
	}
	return n, err
}

// PruneEventsBefore deletes audit entries older than the cutoff.
func (q *Queries) PruneEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
