package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Eckii24/fresh-rss-summary/internal/models"
)

// UpsertEntry inserts an entry, updating title/link/content on conflict so a
// refreshed feed item replaces its previous revision. Returns true when the
// entry was newly inserted.
func (db *DB) UpsertEntry(e models.Entry) (bool, error) {
	var existing int
	if err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM entries WHERE feed_id = ? AND guid = ?`,
		e.FeedID, e.GUID).Scan(&existing); err != nil {
		return false, fmt.Errorf("check entry: %w", err)
	}

	var publishedAt any
	if e.PublishedAt != nil {
		publishedAt = e.PublishedAt.UTC().Format("2006-01-02 15:04:05")
	}

	_, err := db.conn.Exec(`
		INSERT INTO entries (feed_id, guid, title, link, content, published_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(feed_id, guid) DO UPDATE SET
			title = excluded.title,
			link = excluded.link,
			content = excluded.content,
			published_at = excluded.published_at`,
		e.FeedID, e.GUID, e.Title, e.Link, e.Content, publishedAt)
	if err != nil {
		return false, fmt.Errorf("upsert entry: %w", err)
	}
	return existing == 0, nil
}

func (db *DB) GetEntry(id int64) (models.Entry, error) {
	row := db.conn.QueryRow(
		`SELECT id, feed_id, guid, title, link, content, published_at, created_at FROM entries WHERE id = ?`, id)
	return scanEntry(row)
}

func (db *DB) ListEntries(feedID int64, limit int) ([]models.Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, feed_id, guid, title, link, content, published_at, created_at FROM entries`
	args := []any{}
	if feedID > 0 {
		query += ` WHERE feed_id = ?`
		args = append(args, feedID)
	}
	query += ` ORDER BY COALESCE(published_at, created_at) DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var e models.Entry
	var publishedAt sql.NullString
	var createdAt string
	if err := row.Scan(&e.ID, &e.FeedID, &e.GUID, &e.Title, &e.Link, &e.Content, &publishedAt, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, ErrNotFound
		}
		return e, err
	}
	if publishedAt.Valid {
		if t, err := parseTime(publishedAt.String); err == nil {
			t = t.UTC()
			e.PublishedAt = &t
		}
	}
	e.CreatedAt, _ = parseTime(createdAt)
	return e, nil
}
