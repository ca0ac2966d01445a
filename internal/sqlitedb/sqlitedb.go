// Package sqlitedb opens the tempo database and applies its schema.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens (creating if necessary) the sqlite database at path and ensures
// the schema is current. The returned handle is safe for concurrent use.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}

// Statements are idempotent so opening an existing database is a no-op.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMP NOT NULL,
		updated_at    TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS habits (
		id             TEXT PRIMARY KEY,
		owner_id       TEXT NOT NULL,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		goal           INTEGER NOT NULL,
		completions    TEXT NOT NULL DEFAULT '{}',
		streak         INTEGER NOT NULL DEFAULT 0,
		longest_streak INTEGER NOT NULL DEFAULT 0,
		created_at     TIMESTAMP NOT NULL,
		updated_at     TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_habits_owner ON habits(owner_id)`,
	`CREATE TABLE IF NOT EXISTS boards (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		background  TEXT NOT NULL DEFAULT '#f3f4f6',
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_boards_owner ON boards(owner_id)`,
	`CREATE TABLE IF NOT EXISTS columns (
		id         TEXT PRIMARY KEY,
		board_id   TEXT NOT NULL,
		owner_id   TEXT NOT NULL,
		title      TEXT NOT NULL,
		ord        INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_columns_board ON columns(board_id)`,
	`CREATE TABLE IF NOT EXISTS cards (
		id         TEXT PRIMARY KEY,
		column_id  TEXT NOT NULL,
		owner_id   TEXT NOT NULL,
		content    TEXT NOT NULL,
		ord        INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_column ON cards(column_id)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		owner_id   TEXT NOT NULL,
		name       TEXT NOT NULL,
		icon       TEXT NOT NULL DEFAULT 'Folder',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL,
		project_id  TEXT NOT NULL DEFAULT '',
		text        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		day         TEXT NOT NULL,
		done        INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_owner_day ON tasks(owner_id, day)`,
	`CREATE TABLE IF NOT EXISTS time_entries (
		id               TEXT PRIMARY KEY,
		owner_id         TEXT NOT NULL,
		task_id          TEXT NOT NULL DEFAULT '',
		project_id       TEXT NOT NULL DEFAULT '',
		task_name        TEXT NOT NULL,
		project_name     TEXT NOT NULL DEFAULT 'Inbox',
		started_at       TIMESTAMP NOT NULL,
		duration_seconds INTEGER NOT NULL,
		source           TEXT NOT NULL,
		created_at       TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_owner ON time_entries(owner_id, started_at)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
