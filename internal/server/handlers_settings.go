package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Eckii24/fresh-rss-summary/internal/models"
)

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, s.db.SummarySettings())
}

func (s *Server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var in models.SummarySettings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.db.SaveSummarySettings(in); err != nil {
		slog.Error("Failed to save settings", "error", err)
		jsonError(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	// Echo back the stored values so the caller sees the clamped result.
	jsonResponse(w, s.db.SummarySettings())
}
