package db

import (
	"fmt"

	"github.com/neilberkman/authno/internal/core/richtext"
)

// runMigrations applies database migrations for existing databases
func (db *DB) runMigrations() error {
	// Migration 1: plain text column feeding full-text search
	if err := db.migration001AddTextContent(); err != nil {
		return fmt.Errorf("migration 001: %w", err)
	}

	// Migration 2: explicit display order (early caches relied on insert order)
	if err := db.migration002AddPosition(); err != nil {
		return fmt.Errorf("migration 002: %w", err)
	}

	return nil
}

func (db *DB) hasColumn(table, column string) (bool, error) {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info(?)
		WHERE name = ?
	`, table, column).Scan(&count)
	return count > 0, err
}

// migration002AddPosition adds the position column and seeds it from rowid
func (db *DB) migration002AddPosition() error {
	has, err := db.hasColumn("sessions", "position")
	if err != nil {
		return err
	}

	if !has {
		if _, err := db.conn.Exec(`ALTER TABLE sessions ADD COLUMN position INTEGER NOT NULL DEFAULT 0;`); err != nil {
			return fmt.Errorf("add position column: %w", err)
		}
		if _, err := db.conn.Exec(`UPDATE sessions SET position = rowid;`); err != nil {
			return fmt.Errorf("seed position: %w", err)
		}
	}

	_, err = db.conn.Exec(`CREATE INDEX IF NOT EXISTS idx_sessions_position ON sessions(position);`)
	return err
}

// migration001AddTextContent adds text_content, backfills it and rebuilds the FTS index
func (db *DB) migration001AddTextContent() error {
	has, err := db.hasColumn("sessions", "text_content")
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	if _, err := db.conn.Exec(`ALTER TABLE sessions ADD COLUMN text_content TEXT NOT NULL DEFAULT '';`); err != nil {
		return fmt.Errorf("add text_content column: %w", err)
	}

	rows, err := db.conn.Query(`SELECT id, content FROM sessions`)
	if err != nil {
		return err
	}
	type row struct{ id, content string }
	var pending []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.content); err != nil {
			rows.Close()
			return err
		}
		pending = append(pending, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	// The update trigger would try to unindex rows that were never indexed
	if _, err := db.conn.Exec(`DROP TRIGGER IF EXISTS sessions_au;`); err != nil {
		return err
	}
	for _, r := range pending {
		if _, err := db.conn.Exec(`UPDATE sessions SET text_content = ? WHERE id = ?`, richtext.PlainText(r.content), r.id); err != nil {
			return fmt.Errorf("backfill text_content: %w", err)
		}
	}

	if err := db.initSchema(); err != nil {
		return fmt.Errorf("recreate triggers: %w", err)
	}

	_, err = db.conn.Exec(`INSERT INTO sessions_fts(sessions_fts) VALUES ('rebuild');`)
	return err
}
