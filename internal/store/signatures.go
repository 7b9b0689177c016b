// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/talentbridge/cms/internal/model"
)

const signatureColumns = `id, name, body, is_default, created_at, updated_at`

func scanSignature(row interface{ Scan(...any) error }) (model.Signature, error) {
	var s model.Signature
	err := row.Scan(&s.ID, &s.Name, &s.Body, &s.IsDefault, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateSignatureParams holds the fields for creating an email signature.
type CreateSignatureParams struct {
	Name      string
	Body      string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateSignature inserts a signature and returns the stored record. When the
// new signature is marked default, any previous default is cleared first.
func (q *Queries) CreateSignature(ctx context.Context, arg CreateSignatureParams) (model.Signature, error) {
	if arg.IsDefault {
		if _, err := q.db.ExecContext(ctx, `UPDATE signatures SET is_default = 0`); err != nil {
			return model.Signature{}, err
		}
	}
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO signatures (name, body, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+signatureColumns,
		arg.Name, arg.Body, arg.IsDefault, arg.CreatedAt, arg.UpdatedAt)
	return scanSignature(row)
}

// GetSignatureByID fetches a signature by primary key.
func (q *Queries) GetSignatureByID(ctx context.Context, id int64) (model.Signature, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+signatureColumns+` FROM signatures WHERE id = ?`, id)
	return scanSignature(row)
}

// ListSignatures returns all signatures, default first.
func (q *Queries) ListSignatures(ctx context.Context) ([]model.Signature, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+signatureColumns+` FROM signatures ORDER BY is_default DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sigs []model.Signature
	for rows.Next() {
		s, err := scanSignature(rows)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, s)
	}
	return sigs, rows.Err()
}

// UpdateSignatureParams holds the updatable signature fields.
type UpdateSignatureParams struct {
	ID        int64
	Name      string
	Body      string
	IsDefault bool
	UpdatedAt time.Time
}

// UpdateSignature overwrites a signature and returns the stored record.
func (q *Queries) UpdateSignature(ctx context.Context, arg UpdateSignatureParams) (model.Signature, error) {
	if arg.IsDefault {
		if _, err := q.db.ExecContext(ctx,
			`UPDATE signatures SET is_default = 0 WHERE id != ?`, arg.ID); err != nil {
			return model.Signature{}, err
		}
	}
	row := q.db.QueryRowContext(ctx, `
		UPDATE signatures SET name = ?, body = ?, is_default = ?, updated_at = ? WHERE id = ?
		RETURNING `+signatureColumns,
		arg.Name, arg.Body, arg.IsDefault, arg.UpdatedAt, arg.ID)
	return scanSignature(row)
}

// DeleteSignature removes a signature.
func (q *Queries) DeleteSignature(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM signatures WHERE id = ?`, id)
	return err
}
