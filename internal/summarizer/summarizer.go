// Package summarizer turns stored entries into plain-text summaries via
// the Gemini API, with special handling for YouTube links.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Eckii24/fresh-rss-summary/internal/extract"
	"github.com/Eckii24/fresh-rss-summary/internal/gemini"
	"github.com/Eckii24/fresh-rss-summary/internal/models"
	"github.com/Eckii24/fresh-rss-summary/internal/youtube"
)

const videoNote = "Note: This is a YouTube video. Please provide a summary based on the video title and description, focusing on the main topics, key points, and overall content theme."

// Config configures a Service. Zero values fall back to production defaults.
type Config struct {
	Videos  *youtube.Client
	APIBase string
	Logger  *slog.Logger
}

// Service builds prompts from entries and runs them through Gemini.
type Service struct {
	videos  *youtube.Client
	apiBase string
	log     *slog.Logger
}

func New(cfg Config) *Service {
	if cfg.Videos == nil {
		cfg.Videos = youtube.NewClient(youtube.ClientConfig{})
	}
	if cfg.APIBase == "" {
		cfg.APIBase = gemini.DefaultAPIBase
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		videos:  cfg.Videos,
		apiBase: cfg.APIBase,
		log:     cfg.Logger,
	}
}

// Summarize produces a summary for the entry using the given settings.
// The bool result reports whether the entry was treated as a YouTube video.
func (s *Service) Summarize(ctx context.Context, entry models.Entry, cfg models.SummarySettings) (string, bool, error) {
	content, isVideo := s.buildContent(ctx, entry)

	template := cfg.GeneralPrompt
	if isVideo {
		template = cfg.VideoPrompt
	}
	prompt := template + "\n\n" + content

	client := gemini.NewClient(gemini.ClientConfig{
		APIKey:  cfg.APIKey,
		APIBase: s.apiBase,
		Timeout: cfg.Timeout(),
		Logger:  s.log,
	})

	summary, err := client.GenerateSummary(ctx, prompt, gemini.GenParams{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return "", isVideo, err
	}
	return summary, isVideo, nil
}

// buildContent assembles the text block Gemini is asked to summarize. For
// YouTube links that is a metadata block built from the watch page, since
// the article body of a video entry is usually just an embed.
func (s *Service) buildContent(ctx context.Context, entry models.Entry) (string, bool) {
	videoID, ok := youtube.ExtractVideoID(entry.Link)
	if !ok {
		return extract.Text(entry.Content), false
	}

	var b strings.Builder
	b.WriteString("YouTube Video Analysis Request\n")
	fmt.Fprintf(&b, "Video URL: %s\n", youtube.WatchURL(videoID))

	if info := s.videos.FetchInfo(ctx, videoID); info != nil {
		if info.Title != "" {
			fmt.Fprintf(&b, "Video Title: %s\n", info.Title)
		}
		if info.Description != "" {
			fmt.Fprintf(&b, "Video Description: %s\n", info.Description)
		}
	}

	b.WriteString("\n")
	b.WriteString(videoNote)
	return b.String(), true
}
