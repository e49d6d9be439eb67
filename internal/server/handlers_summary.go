package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Eckii24/fresh-rss-summary/internal/database"
	"github.com/Eckii24/fresh-rss-summary/internal/gemini"
)

// summaryResponse is the envelope the feed reader's client script consumes.
// It always ships with HTTP 200 so the script can branch on the success
// flag instead of parsing transport failures.
type summaryResponse struct {
	Success   bool   `json:"success"`
	Summary   string `json:"summary,omitempty"`
	IsYouTube bool   `json:"is_youtube,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonResponse(w, summaryResponse{Error: "Article not found"})
		return
	}

	entry, err := s.db.GetEntry(id)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			slog.Error("Failed to load entry", "id", id, "error", err)
		}
		jsonResponse(w, summaryResponse{Error: "Article not found"})
		return
	}

	cfg := s.db.SummarySettings()
	if cfg.APIKey == "" || cfg.Model == "" {
		jsonResponse(w, summaryResponse{Error: "Missing Google Gemini API configuration. Please configure the extension first."})
		return
	}

	summary, isVideo, err := s.summarizer.Summarize(r.Context(), entry, cfg)
	if err != nil {
		var serr *gemini.SummaryError
		msg := "Summary generation failed"
		if errors.As(err, &serr) {
			msg = serr.Message
		}
		slog.Warn("Summary generation failed", "entry", id, "error", err)
		jsonResponse(w, summaryResponse{IsYouTube: isVideo, Error: msg})
		return
	}

	jsonResponse(w, summaryResponse{Success: true, Summary: summary, IsYouTube: isVideo})
}
