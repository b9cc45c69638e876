/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history keeps a small embedded SQLite index of export and copy
// operations (kind, destination, size, timestamp). It records app metadata
// only; canvas content is never persisted.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	applog "gosketch/internal/log"
	"gosketch/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	FileName = "history.sqlite"

	// schemaVersion tracks the embedded index schema. Bump on breaking
	// schema changes and add a migration.
	schemaVersion = 1
)

// Kinds of recorded operations.
const (
	KindPNG       = "png"
	KindPDF       = "pdf"
	KindClipboard = "clipboard"
)

// Entry is one recorded export/copy operation.
type Entry struct {
	ID        string
	Kind      string
	Path      string // empty for clipboard copies
	Bytes     int64
	CreatedAt time.Time
}

// Store wraps the embedded database.
type Store struct {
	db *sql.DB
}

// Open ensures the index exists under dir, opens it in WAL mode and brings
// the schema up to date.
func Open(dir string) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("history"), "open").With(slog.String("dir", dir))
	if dir == "" {
		return nil, errors.New("history dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.Error("create history dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("history index ready", slog.String("path", path))
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts one entry. A missing ID is generated; a missing timestamp
// defaults to now.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exports (id, kind, path, bytes, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.Path, e.Bytes, e.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, path, bytes, created_at FROM exports ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.Kind, &e.Path, &e.Bytes, &created); err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			e.CreatedAt = ts
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export rows: %w", err)
	}
	return out, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id         INTEGER PRIMARY KEY CHECK(id=1),
			schema     INTEGER NOT NULL,
			app        TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS exports (
			id         TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			path       TEXT NOT NULL,
			bytes      INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_exports_created ON exports(created_at);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx,
			`INSERT INTO version (id, schema, app, created_at, updated_at) VALUES (1, ?, ?, ?, ?)`,
			schemaVersion, version.String(), now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case cur < schemaVersion:
		if _, err := db.ExecContext(ctx,
			`UPDATE version SET schema=?, app=?, updated_at=? WHERE id=1`,
			schemaVersion, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}
