// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/talentbridge/cms/internal/model"
)

// GetSetting fetches a single setting by key.
func (q *Queries) GetSetting(ctx context.Context, key string) (model.Setting, error) {
	var s model.Setting
	err := q.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM settings WHERE key = ?`, key).
		Scan(&s.Key, &s.Value, &s.UpdatedAt)
	return s, err
}

// ListSettings returns every setting ordered by key.
func (q *Queries) ListSettings(ctx context.Context) ([]model.Setting, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.Setting
	for rows.Next() {
		var s model.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// UpsertSettingParams sets a setting value.
type UpsertSettingParams struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// UpsertSetting inserts or replaces a setting value.
func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		arg.Key, arg.Value, arg.UpdatedAt)
	return err
}

// DeleteSetting removes a setting.
func (q *Queries) DeleteSetting(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return err
}
