package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Eckii24/fresh-rss-summary/internal/models"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("not found")

func (db *DB) CreateFeed(title, url, siteURL string) (int64, error) {
	res, err := db.conn.Exec(
		`INSERT INTO feeds (title, url, site_url) VALUES (?, ?, ?)`,
		title, url, siteURL)
	if err != nil {
		return 0, fmt.Errorf("insert feed: %w", err)
	}
	return res.LastInsertId()
}

func (db *DB) GetFeed(id int64) (models.Feed, error) {
	row := db.conn.QueryRow(
		`SELECT id, title, url, site_url, last_fetched_at, created_at FROM feeds WHERE id = ?`, id)
	return scanFeed(row)
}

func (db *DB) ListFeeds() ([]models.Feed, error) {
	rows, err := db.conn.Query(
		`SELECT id, title, url, site_url, last_fetched_at, created_at FROM feeds ORDER BY title COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feeds []models.Feed
	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, f)
	}
	return feeds, rows.Err()
}

func (db *DB) DeleteFeed(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM feeds WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) TouchFeedFetched(id int64) error {
	_, err := db.conn.Exec(`UPDATE feeds SET last_fetched_at = datetime('now') WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (models.Feed, error) {
	var f models.Feed
	var lastFetched sql.NullString
	var createdAt string
	if err := row.Scan(&f.ID, &f.Title, &f.URL, &f.SiteURL, &lastFetched, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return f, ErrNotFound
		}
		return f, err
	}
	if lastFetched.Valid {
		if t, err := parseTime(lastFetched.String); err == nil {
			f.LastFetchedAt = &t
		}
	}
	f.CreatedAt, _ = parseTime(createdAt)
	return f, nil
}
