package search

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/neilberkman/authno/internal/core/db"
)

// Result is one session matching a full-text query
type Result struct {
	SessionID string
	Title     string
	Snippet   string
	FilePath  string
	UpdatedAt string
}

// Default sort order for search results (most recently edited first)
const defaultOrderBy = "s.updated_at DESC"

// Search runs a full-text query over cached session titles and plain text
func Search(database *db.DB, query string) ([]Result, error) {
	return search(database, query, 200)
}

func search(database *db.DB, query string, limit int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	// Punctuation trips FTS5 syntax, fall back to substring matching
	hasSpecialChars := strings.ContainsAny(query, "-_@#$%&\"'*:()")

	var rows *sql.Rows
	var err error

	if hasSpecialChars {
		rows, err = database.Query(fmt.Sprintf(`
			SELECT
				s.id,
				s.title,
				substr(s.text_content, 1, 120),
				COALESCE(s.file_path, ''),
				COALESCE(s.updated_at, '')
			FROM sessions s
			WHERE s.text_content LIKE '%%' || ? || '%%'
			   OR s.title LIKE '%%' || ? || '%%'
			ORDER BY %s
			LIMIT ?
		`, defaultOrderBy), query, query, limit)
	} else {
		rows, err = database.Query(fmt.Sprintf(`
			SELECT
				s.id,
				s.title,
				snippet(sessions_fts, 1, '', '', '...', 24) as snippet,
				COALESCE(s.file_path, ''),
				COALESCE(s.updated_at, '')
			FROM sessions_fts
			JOIN sessions s ON sessions_fts.rowid = s.rowid
			WHERE sessions_fts MATCH ?
			ORDER BY %s
			LIMIT ?
		`, defaultOrderBy), query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.SessionID, &r.Title, &r.Snippet, &r.FilePath, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}
