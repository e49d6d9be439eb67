package database

import (
	"strconv"

	"github.com/Eckii24/fresh-rss-summary/internal/models"
)

// loadSettingsCache populates the in-memory settings cache from the database.
func (db *DB) loadSettingsCache() error {
	rows, err := db.conn.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return err
	}
	defer rows.Close()

	db.cacheMu.Lock()
	defer db.cacheMu.Unlock()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		db.settings[key] = value
	}
	return rows.Err()
}

func (db *DB) GetSetting(key string) (string, error) {
	db.cacheMu.RLock()
	v, ok := db.settings[key]
	db.cacheMu.RUnlock()
	if ok {
		return v, nil
	}
	var value string
	err := db.conn.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", err
	}
	db.cacheMu.Lock()
	db.settings[key] = value
	db.cacheMu.Unlock()
	return value, nil
}

func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))`,
		key, value)
	if err != nil {
		return err
	}
	db.cacheMu.Lock()
	db.settings[key] = value
	db.cacheMu.Unlock()
	return nil
}

// SummarySettings assembles the summarizer configuration from the settings
// table. Values that fail to parse fall back to their seeded defaults.
func (db *DB) SummarySettings() models.SummarySettings {
	s := models.SummarySettings{
		MaxTokens:      1024,
		Temperature:    0.7,
		TimeoutSeconds: models.TimeoutSecondsDefault,
	}

	s.APIKey, _ = db.GetSetting("gemini_api_key")
	s.Model, _ = db.GetSetting("gemini_model")
	s.GeneralPrompt, _ = db.GetSetting("gemini_general_prompt")
	s.VideoPrompt, _ = db.GetSetting("gemini_youtube_prompt")

	if v, err := db.GetSetting("gemini_max_tokens"); err == nil {
		if n, err := strconv.Atoi(v); err == nil {
			s.MaxTokens = n
		}
	}
	if v, err := db.GetSetting("gemini_temperature"); err == nil {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Temperature = f
		}
	}
	if v, err := db.GetSetting("request_timeout_seconds"); err == nil {
		if n, err := strconv.Atoi(v); err == nil {
			s.TimeoutSeconds = n
		}
	}
	return s
}

// SaveSummarySettings persists the summarizer configuration. Numeric values
// are clamped to their bounds here, at the point of persistence, so whatever
// is read back later is already valid.
func (db *DB) SaveSummarySettings(s models.SummarySettings) error {
	s.Clamp()

	values := map[string]string{
		"gemini_api_key":          s.APIKey,
		"gemini_model":            s.Model,
		"gemini_general_prompt":   s.GeneralPrompt,
		"gemini_youtube_prompt":   s.VideoPrompt,
		"gemini_max_tokens":       strconv.Itoa(s.MaxTokens),
		"gemini_temperature":      strconv.FormatFloat(s.Temperature, 'f', -1, 64),
		"request_timeout_seconds": strconv.Itoa(s.TimeoutSeconds),
	}

	for key, value := range values {
		if err := db.SetSetting(key, value); err != nil {
			return err
		}
	}
	return nil
}
