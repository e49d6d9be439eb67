package database

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	conn     *sql.DB
	path     string
	cacheMu  sync.RWMutex
	settings map[string]string
}

func New(path string) (*DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(2)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{conn: conn, path: path, settings: make(map[string]string)}
	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	if err := db.loadSettingsCache(); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func parseTime(s string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04:05", s)
}

func (db *DB) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS feeds (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			title           TEXT    NOT NULL DEFAULT '',
			url             TEXT    NOT NULL UNIQUE,
			site_url        TEXT    NOT NULL DEFAULT '',
			last_fetched_at TEXT,
			created_at      TEXT    NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			feed_id      INTEGER NOT NULL REFERENCES feeds(id) ON DELETE CASCADE,
			guid         TEXT    NOT NULL,
			title        TEXT    NOT NULL DEFAULT '',
			link         TEXT    NOT NULL DEFAULT '',
			content      TEXT    NOT NULL DEFAULT '',
			published_at TEXT,
			created_at   TEXT    NOT NULL DEFAULT (datetime('now')),
			UNIQUE(feed_id, guid)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_feed_id ON entries(feed_id)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS model_cache (
			fingerprint TEXT PRIMARY KEY,
			value       TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w\nstatement: %s", err, stmt)
		}
	}

	return db.seedSettings()
}

func (db *DB) seedSettings() error {
	defaults := map[string]string{
		"gemini_api_key":          "",
		"gemini_model":            "gemini-2.5-flash",
		"gemini_general_prompt":   "Please provide a concise summary of the following article content:",
		"gemini_youtube_prompt":   "Please provide a concise summary of this YouTube video:",
		"gemini_max_tokens":       "1024",
		"gemini_temperature":      "0.7",
		"request_timeout_seconds": "60",
	}

	stmt, err := db.conn.Prepare(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range defaults {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}
	return nil
}
