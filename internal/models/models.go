package models

import (
	"strings"
	"time"
)

// Bounds for the summarizer settings. Values outside these ranges are
// clamped when the settings are persisted, not at the point of use.
const (
	MaxTokensMin = 100
	MaxTokensMax = 8192

	TemperatureMin = 0.0
	TemperatureMax = 2.0

	TimeoutSecondsMin     = 10
	TimeoutSecondsMax     = 300
	TimeoutSecondsDefault = 60
)

type Feed struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	SiteURL       string     `json:"site_url,omitempty"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type Entry struct {
	ID          int64      `json:"id"`
	FeedID      int64      `json:"feed_id"`
	GUID        string     `json:"-"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SummarySettings is the per-install summarizer configuration, persisted in
// the settings table with numeric values clamped to their bounds.
type SummarySettings struct {
	APIKey         string  `json:"api_key"`
	Model          string  `json:"model"`
	GeneralPrompt  string  `json:"general_prompt"`
	VideoPrompt    string  `json:"video_prompt"`
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float64 `json:"temperature"`
	TimeoutSeconds int     `json:"timeout_seconds"`
}

// Clamp normalizes the settings in place: model id trimmed, numeric values
// forced into their bounds, zero timeout replaced with the default.
func (s *SummarySettings) Clamp() {
	s.APIKey = strings.TrimSpace(s.APIKey)
	s.Model = strings.TrimSpace(s.Model)
	s.MaxTokens = ClampMaxTokens(s.MaxTokens)
	s.Temperature = ClampTemperature(s.Temperature)
	if s.TimeoutSeconds == 0 {
		s.TimeoutSeconds = TimeoutSecondsDefault
	}
	s.TimeoutSeconds = ClampTimeoutSeconds(s.TimeoutSeconds)
}

// Timeout returns the request timeout as a duration.
func (s SummarySettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func ClampMaxTokens(v int) int {
	if v < MaxTokensMin {
		return MaxTokensMin
	}
	if v > MaxTokensMax {
		return MaxTokensMax
	}
	return v
}

func ClampTemperature(v float64) float64 {
	if v < TemperatureMin {
		return TemperatureMin
	}
	if v > TemperatureMax {
		return TemperatureMax
	}
	return v
}

func ClampTimeoutSeconds(v int) int {
	if v < TimeoutSecondsMin {
		return TimeoutSecondsMin
	}
	if v > TimeoutSecondsMax {
		return TimeoutSecondsMax
	}
	return v
}
