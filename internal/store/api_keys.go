// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/talentbridge/cms/internal/model"
)

const apiKeyColumns = `id, name, key_hash, key_prefix, expires_at, last_used_at, is_active, created_at`

func scanAPIKey(row interface{ Scan(...any) error }) (model.APIKey, error) {
	var k model.APIKey
	err := row.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.ExpiresAt,
		&k.LastUsedAt, &k.IsActive, &k.CreatedAt)
	return k, err
}

// CreateAPIKeyParams holds the fields for provisioning an API key.
type CreateAPIKeyParams struct {
	Name      string
	KeyHash   string
	KeyPrefix string
	IsActive  bool
	ExpiresAt sql.NullTime
	CreatedAt time.Time
}

// CreateAPIKey inserts an API key record.
func (q *Queries) CreateAPIKey(ctx context.Context, arg CreateAPIKeyParams) (model.APIKey, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO api_keys (name, key_hash, key_prefix, is_active, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+apiKeyColumns,
		arg.Name, arg.KeyHash, arg.KeyPrefix, arg.IsActive, arg.ExpiresAt, arg.CreatedAt)
	return scanAPIKey(row)
}

// GetActiveAPIKeyByHash looks up an active key by its stored hash.
func (q *Queries) GetActiveAPIKeyByHash(ctx context.Context, keyHash string) (model.APIKey, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = ? AND is_active = 1`, keyHash)
	return scanAPIKey(row)
}

// TouchAPIKey stamps last_used_at for a key.
func (q *Queries) TouchAPIKey(ctx context.Context, id int64, usedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, `UPDATE api_keys SET last_used_at = ? WHERE id = ?`, usedAt, id)
	return err
}

// CountAPIKeys returns the number of provisioned keys.
func (q *Queries) CountAPIKeys(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_keys`).Scan(&n)
	return n, err
}
