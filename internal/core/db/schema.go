package db

func (db *DB) initSchema() error {
	schema := `
	-- Open sessions, in display order
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		text_content TEXT NOT NULL DEFAULT '',
		preview TEXT NOT NULL DEFAULT '',
		file_path TEXT,
		type TEXT NOT NULL CHECK(type IN ('book', 'storyboard')),
		created_at TEXT,
		updated_at TEXT,
		position INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_file_path ON sessions(file_path);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);

	-- Small key/value preferences (selection, sidebar width, warnings)
	CREATE TABLE IF NOT EXISTS prefs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- Restore passes and the warnings they produced
	CREATE TABLE IF NOT EXISTS restore_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		restored_at TEXT NOT NULL,
		sessions_checked INTEGER NOT NULL,
		sessions_restored INTEGER NOT NULL,
		warnings TEXT
	);

	-- Full-text search over plain session text
	CREATE VIRTUAL TABLE IF NOT EXISTS sessions_fts USING fts5(
		title,
		text_content,
		content=sessions,
		tokenize='porter unicode61'
	);

	CREATE TRIGGER IF NOT EXISTS sessions_ai AFTER INSERT ON sessions BEGIN
		INSERT INTO sessions_fts(rowid, title, text_content) VALUES (new.rowid, new.title, new.text_content);
	END;

	CREATE TRIGGER IF NOT EXISTS sessions_ad AFTER DELETE ON sessions BEGIN
		INSERT INTO sessions_fts(sessions_fts, rowid, title, text_content) VALUES ('delete', old.rowid, old.title, old.text_content);
	END;

	CREATE TRIGGER IF NOT EXISTS sessions_au AFTER UPDATE ON sessions BEGIN
		INSERT INTO sessions_fts(sessions_fts, rowid, title, text_content) VALUES ('delete', old.rowid, old.title, old.text_content);
		INSERT INTO sessions_fts(rowid, title, text_content) VALUES (new.rowid, new.title, new.text_content);
	END;
	`

	_, err := db.conn.Exec(schema)
	return err
}
