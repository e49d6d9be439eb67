package server

import (
	"net/http"
)

// handleModels returns the selectable model list for the settings form.
// Errors from the catalog are part of the payload rather than an HTTP
// failure because a cached error is still a valid catalog state.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	apiKey := s.db.SummarySettings().APIKey
	if apiKey == "" {
		jsonResponse(w, map[string]any{"models": []any{}, "error": "Missing Google Gemini API configuration. Please configure the extension first."})
		return
	}

	result := s.catalog.Models(r.Context(), apiKey)
	if result.Err != "" {
		jsonResponse(w, map[string]any{"models": []any{}, "error": result.Err})
		return
	}
	jsonResponse(w, map[string]any{"models": result.Models})
}
