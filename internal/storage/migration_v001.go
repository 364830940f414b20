package storage

import "database/sql"

// migrateV001 creates the initial schema: activities, the single-row profile
// table, and their indexes. Every statement uses IF NOT EXISTS for
// idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS activities (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			type       TEXT NOT NULL,
			start_date DATETIME NOT NULL,
			distance   REAL NOT NULL DEFAULT 0 CHECK (distance >= 0),
			source     TEXT NOT NULL DEFAULT 'manual',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS profile (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			username   TEXT NOT NULL DEFAULT '',
			firstname  TEXT NOT NULL DEFAULT '',
			lastname   TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_activities_start_date ON activities(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_type       ON activities(type)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_type_start ON activities(type, start_date)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
