// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/talentbridge/cms/internal/model"
)

const leadColumns = `id, name, email, phone, company, message, source, status, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (model.Lead, error) {
	var l model.Lead
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Message,
		&l.Source, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// CreateLeadParams holds the fields for recording a lead.
type CreateLeadParams struct {
	Name      string
	Email     string
	Phone     string
	Company   string
	Message   string
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateLead inserts a lead with status "new" and returns the stored record.
func (q *Queries) CreateLead(ctx context.Context, arg CreateLeadParams) (model.Lead, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO leads (name, email, phone, company, message, source, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 'new', ?, ?)
		RETURNING `+leadColumns,
		arg.Name, arg.Email, arg.Phone, arg.Company, arg.Message, arg.Source,
		arg.CreatedAt, arg.UpdatedAt)
	return scanLead(row)
}

// GetLeadByID fetches a lead by primary key.
func (q *Queries) GetLeadByID(ctx context.Context, id int64) (model.Lead, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	return scanLead(row)
}

// ListLeadsParams filters and paginates lead listings. Status empty means all.
type ListLeadsParams struct {
	Status string
	Limit  int64
	Offset int64
}

// ListLeads returns leads, newest first, optionally filtered by status.
func (q *Queries) ListLeads(ctx context.Context, arg ListLeadsParams) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	args := []any{}
	if arg.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, arg.Status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// ListAllLeads returns every lead, newest first. Used by the CSV export.
func (q *Queries) ListAllLeads(ctx context.Context) ([]model.Lead, error) {
	return q.ListLeads(ctx, ListLeadsParams{Limit: -1, Offset: 0})
}

// CountLeads counts leads, optionally filtered by status.
func (q *Queries) CountLeads(ctx context.Context, status string) (int64, error) {
	var n int64
	var err error
	if status == "" {
		err = q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n)
	} else {
		err = q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE status = ?`, status).Scan(&n)
	}
	return n, err
}

// SetLeadStatusParams updates a lead's pipeline status.
type SetLeadStatusParams struct {
	ID        int64
	Status    string
	UpdatedAt time.Time
}

// SetLeadStatus updates only the status field of a lead.
func (q *Queries) SetLeadStatus(ctx context.Context, arg SetLeadStatusParams) (model.Lead, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE leads SET status = ?, updated_at = ? WHERE id = ?
		RETURNING `+leadColumns,
		arg.Status, arg.UpdatedAt, arg.ID)
	return scanLead(row)
}

// DeleteLead removes a lead.
func (q *Queries) DeleteLead(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	return err
}
