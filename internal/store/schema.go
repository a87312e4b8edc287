package store

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS titles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			narrator TEXT,
			duration_ms INTEGER NOT NULL,
			position_ms INTEGER NOT NULL DEFAULT 0,
			finished INTEGER NOT NULL DEFAULT 0,
			last_played_at INTEGER,
			added_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_titles_author ON titles(author);
		CREATE INDEX IF NOT EXISTS idx_titles_last_played ON titles(last_played_at DESC);

		CREATE TABLE IF NOT EXISTS title_tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title_id INTEGER NOT NULL REFERENCES titles(id) ON DELETE CASCADE,
			tag TEXT NOT NULL,
			UNIQUE(title_id, tag)
		);

		CREATE INDEX IF NOT EXISTS idx_title_tags_tag ON title_tags(tag);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = conn.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: add narrator column if missing
	_, _ = conn.Exec(`ALTER TABLE titles ADD COLUMN narrator TEXT`)

	return nil
}
