package db

import (
	"database/sql"
	"fmt"

	"github.com/neilberkman/authno/internal/core/models"
	"github.com/neilberkman/authno/internal/core/richtext"
)

// LoadSnapshot returns the cached sessions in display order and the
// selected id. An empty cache yields an empty snapshot.
func (db *DB) LoadSnapshot() (models.Snapshot, error) {
	rows, err := db.conn.Query(`
		SELECT id, title, content, preview, file_path, type, created_at, updated_at
		FROM sessions
		ORDER BY position ASC, rowid ASC
	`)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var snap models.Snapshot
	for rows.Next() {
		var s models.Session
		var filePath sql.NullString
		var sessionType, created, updated string
		if err := rows.Scan(&s.ID, &s.Title, &s.Content, &s.Preview, &filePath, &sessionType, &created, &updated); err != nil {
			return models.Snapshot{}, fmt.Errorf("scan session: %w", err)
		}
		s.FilePath = filePath.String
		s.Type = models.Type(sessionType)
		s.Created = parseTime(created)
		s.Updated = parseTime(updated)
		snap.Sessions = append(snap.Sessions, s)
	}
	if err := rows.Err(); err != nil {
		return models.Snapshot{}, err
	}

	current, _, err := db.GetPref(PrefCurrentID)
	if err != nil {
		return models.Snapshot{}, err
	}
	snap.CurrentID = current

	return snap, nil
}

// SaveSnapshot replaces the cached session list and selection in one transaction
func (db *DB) SaveSnapshot(snap models.Snapshot) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sessions (
			id, title, content, text_content, preview, file_path,
			type, created_at, updated_at, position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range snap.Sessions {
		filePath := sql.NullString{String: s.FilePath, Valid: s.FilePath != ""}
		_, err := stmt.Exec(
			s.ID,
			s.Title,
			s.Content,
			richtext.PlainText(s.Content),
			s.Preview,
			filePath,
			string(s.Type),
			formatTime(s.Created),
			formatTime(s.Updated),
			i,
		)
		if err != nil {
			return fmt.Errorf("insert session %s: %w", s.ID, err)
		}
	}

	if err := setPrefTx(tx, PrefCurrentID, snap.CurrentID); err != nil {
		return err
	}

	return tx.Commit()
}
