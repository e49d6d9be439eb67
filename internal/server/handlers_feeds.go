package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Eckii24/fresh-rss-summary/internal/database"
	"github.com/Eckii24/fresh-rss-summary/internal/feed"
)

func (s *Server) handleFeedCreate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	in.URL = strings.TrimSpace(in.URL)
	if in.URL == "" {
		jsonError(w, "url is required", http.StatusBadRequest)
		return
	}

	// Allow subscribing with a site URL by checking the page for a feed link.
	feedURL := in.URL
	title, err := s.fetcher.Probe(r.Context(), feedURL)
	if err != nil {
		if discovered := feed.DiscoverFeedURL(in.URL); discovered != "" {
			feedURL = discovered
			title, err = s.fetcher.Probe(r.Context(), feedURL)
		}
	}
	if err != nil {
		jsonError(w, "Could not parse a feed at that URL", http.StatusBadRequest)
		return
	}

	if in.Title != "" {
		title = in.Title
	}

	siteURL := ""
	if feedURL != in.URL {
		siteURL = in.URL
	}

	id, err := s.db.CreateFeed(title, feedURL, siteURL)
	if err != nil {
		slog.Error("Failed to create feed", "url", feedURL, "error", err)
		jsonError(w, "Failed to create feed", http.StatusInternalServerError)
		return
	}

	f, err := s.db.GetFeed(id)
	if err != nil {
		jsonError(w, "Failed to create feed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(f)
}

func (s *Server) handleFeedList(w http.ResponseWriter, r *http.Request) {
	feeds, err := s.db.ListFeeds()
	if err != nil {
		slog.Error("Failed to list feeds", "error", err)
		jsonError(w, "Failed to list feeds", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]any{"feeds": feeds})
}

func (s *Server) handleFeedDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, "Invalid feed id", http.StatusBadRequest)
		return
	}

	if err := s.db.DeleteFeed(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			jsonError(w, "Feed not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to delete feed", "id", id, "error", err)
		jsonError(w, "Failed to delete feed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFeedRefresh(w http.ResponseWriter, r *http.Request) {
	added, err := s.fetcher.RefreshAll(r.Context())
	if err != nil {
		slog.Error("Feed refresh failed", "error", err)
		jsonError(w, "Feed refresh failed", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]any{"new_entries": added})
}

func (s *Server) handleEntryList(w http.ResponseWriter, r *http.Request) {
	var feedID int64
	if v := r.URL.Query().Get("feed_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, "Invalid feed_id", http.StatusBadRequest)
			return
		}
		feedID = n
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.db.ListEntries(feedID, limit)
	if err != nil {
		slog.Error("Failed to list entries", "error", err)
		jsonError(w, "Failed to list entries", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]any{"entries": entries})
}
