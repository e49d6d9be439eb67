package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/Eckii24/fresh-rss-summary/internal/cache"
)

// ModelCache is a sqlite-backed cache.Store so the model catalog survives
// restarts. Entries are keyed by the API-key fingerprint; last writer wins.
type ModelCache struct {
	db *DB
}

func (db *DB) ModelCache() *ModelCache {
	return &ModelCache{db: db}
}

func (c *ModelCache) Get(fingerprint string) (cache.Entry, bool, error) {
	var value string
	var updatedAt string
	err := c.db.conn.QueryRow(
		`SELECT value, updated_at FROM model_cache WHERE fingerprint = ?`,
		fingerprint).Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return cache.Entry{}, false, nil
	}
	if err != nil {
		return cache.Entry{}, false, err
	}

	t, err := parseTime(updatedAt)
	if err != nil {
		return cache.Entry{}, false, nil
	}
	return cache.Entry{Value: []byte(value), UpdatedAt: t}, true, nil
}

func (c *ModelCache) Set(fingerprint string, value []byte, now time.Time) error {
	_, err := c.db.conn.Exec(`
		INSERT INTO model_cache (fingerprint, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		fingerprint, string(value), now.UTC().Format("2006-01-02 15:04:05"))
	return err
}

func (c *ModelCache) Invalidate(fingerprint string) error {
	_, err := c.db.conn.Exec(`DELETE FROM model_cache WHERE fingerprint = ?`, fingerprint)
	return err
}
