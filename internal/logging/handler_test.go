// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			category TEXT NOT NULL,
			message TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestHandlerMirrorsWarnAndAbove(t *testing.T) {
	db := testDB(t)
	inner := slog.NewTextHandler(io.Discard, nil)
	logger := slog.New(NewEventLogHandler(inner, db))

	logger.Info("just info, not stored")
	logger.Warn("section save failed", "section_id", "42")
	logger.Error("upload rejected")

	queries := store.New(db)
	events, err := queries.ListEvents(context.Background(), store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("listing events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("stored %d events, want 2", len(events))
	}
}

func TestCategoryExtraction(t *testing.T) {
	db := testDB(t)
	inner := slog.NewTextHandler(io.Discard, nil)
	logger := slog.New(NewEventLogHandler(inner, db))

	logger.Warn("something odd", "category", model.EventCategoryConfig)
	logger.Warn("section meta rejected")
	logger.Warn("blog slug collision")

	queries := store.New(db)
	events, err := queries.ListEvents(context.Background(), store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("listing events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("stored %d events, want 3", len(events))
	}

	// Newest first.
	byMessage := map[string]string{}
	for _, e := range events {
		byMessage[e.Message] = e.Category
	}
	if byMessage["something odd"] != model.EventCategoryConfig {
		t.Errorf("explicit category ignored: %q", byMessage["something odd"])
	}
	if byMessage["section meta rejected"] != model.EventCategorySection {
		t.Errorf("section message category = %q", byMessage["section meta rejected"])
	}
	if byMessage["blog slug collision"] != model.EventCategoryContent {
		t.Errorf("blog message category = %q", byMessage["blog slug collision"])
	}
}

func TestAttrsToJSONEscaping(t *testing.T) {
	db := testDB(t)
	inner := slog.NewTextHandler(io.Discard, nil)
	logger := slog.New(NewEventLogHandler(inner, db))

	logger.Warn("quoted", "detail", `he said "no"`)

	queries := store.New(db)
	events, err := queries.ListEvents(context.Background(), store.ListEventsParams{Limit: 1})
	if err != nil || len(events) != 1 {
		t.Fatalf("listing events: %v (%d)", err, len(events))
	}
	if events[0].Metadata != `{"detail":"he said \"no\""}` {
		t.Errorf("metadata = %s", events[0].Metadata)
	}
}
