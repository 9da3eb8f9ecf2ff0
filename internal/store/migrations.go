package store

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_type TEXT NOT NULL,
    external_id TEXT NOT NULL,
    cohort_key TEXT NOT NULL,
    source_name TEXT NOT NULL,
    title TEXT NOT NULL,
    summary TEXT NOT NULL,
    authors TEXT,
    category TEXT NOT NULL,
    published_at TEXT NOT NULL,
    url TEXT NOT NULL,
    media_url TEXT,
    importance REAL,
    key_points TEXT,
    score REAL NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE (source_type, external_id, cohort_key)
);

CREATE INDEX IF NOT EXISTS idx_items_cohort ON items(cohort_key, score DESC);

CREATE TABLE IF NOT EXISTS digests (
    cohort_key TEXT PRIMARY KEY,
    markdown TEXT NOT NULL,
    item_count INTEGER NOT NULL DEFAULT 0,
    generated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`)
			return err
		},
	},
}
