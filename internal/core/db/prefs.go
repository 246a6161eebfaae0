package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Preference keys
const (
	PrefCurrentID         = "current_id"
	PrefSidebarWidth      = "sidebar_width"
	PrefSkipDeleteWarning = "skip_delete_warning"
)

// GetPref returns a preference and whether it was set
func (db *DB) GetPref(key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get pref %s: %w", key, err)
	}
	return value, true, nil
}

// SetPref stores a preference
func (db *DB) SetPref(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set pref %s: %w", key, err)
	}
	return nil
}

func setPrefTx(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set pref %s: %w", key, err)
	}
	return nil
}

// SkipDeleteWarning reports whether the user opted out of delete confirmation
func (db *DB) SkipDeleteWarning() bool {
	value, _, err := db.GetPref(PrefSkipDeleteWarning)
	return err == nil && value == "true"
}

// SetSkipDeleteWarning stores the delete confirmation opt-out
func (db *DB) SetSkipDeleteWarning(skip bool) error {
	return db.SetPref(PrefSkipDeleteWarning, strconv.FormatBool(skip))
}

// SidebarWidth returns the stored width or fallback when unset or unreadable
func (db *DB) SidebarWidth(fallback int) int {
	value, ok, err := db.GetPref(PrefSidebarWidth)
	if err != nil || !ok {
		return fallback
	}
	width, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return width
}

// SetSidebarWidth stores the sidebar width
func (db *DB) SetSidebarWidth(width int) error {
	return db.SetPref(PrefSidebarWidth, strconv.Itoa(width))
}

// RestoreEntry is one recorded restore pass
type RestoreEntry struct {
	RestoredAt time.Time
	Checked    int
	Restored   int
	Warnings   []string
}

// LogRestore records the outcome of a restore pass
func (db *DB) LogRestore(entry RestoreEntry) error {
	_, err := db.conn.Exec(`
		INSERT INTO restore_log (restored_at, sessions_checked, sessions_restored, warnings)
		VALUES (?, ?, ?, ?)
	`, formatTime(entry.RestoredAt), entry.Checked, entry.Restored, strings.Join(entry.Warnings, "\n"))
	if err != nil {
		return fmt.Errorf("log restore: %w", err)
	}
	return nil
}

// RecentRestores returns the latest restore passes, newest first
func (db *DB) RecentRestores(limit int) ([]RestoreEntry, error) {
	rows, err := db.conn.Query(`
		SELECT restored_at, sessions_checked, sessions_restored, COALESCE(warnings, '')
		FROM restore_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []RestoreEntry
	for rows.Next() {
		var e RestoreEntry
		var at, warnings string
		if err := rows.Scan(&at, &e.Checked, &e.Restored, &warnings); err != nil {
			return nil, err
		}
		e.RestoredAt = parseTime(at)
		if warnings != "" {
			e.Warnings = strings.Split(warnings, "\n")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
