// Package server exposes the HTTP API: the summary bridge endpoint plus
// JSON management routes for settings, models, and feed subscriptions.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Eckii24/fresh-rss-summary/internal/config"
	"github.com/Eckii24/fresh-rss-summary/internal/database"
	"github.com/Eckii24/fresh-rss-summary/internal/feed"
	"github.com/Eckii24/fresh-rss-summary/internal/gemini"
	"github.com/Eckii24/fresh-rss-summary/internal/summarizer"
)

type Server struct {
	cfg        config.Config
	db         *database.DB
	summarizer *summarizer.Service
	catalog    *gemini.Catalog
	fetcher    *feed.Fetcher
	httpSrv    *http.Server
}

func New(cfg config.Config, db *database.DB, sum *summarizer.Service, catalog *gemini.Catalog, fetcher *feed.Fetcher) *Server {
	return &Server{
		cfg:        cfg,
		db:         db,
		summarizer: sum,
		catalog:    catalog,
		fetcher:    fetcher,
	}
}

// Start sets up routes and starts the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	s.routes(mux)

	handler := recoveryMiddleware(loggingMiddleware(mux))

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	slog.Info("Starting server", "addr", addr)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /summary/{id}", s.handleSummary)

	mux.HandleFunc("GET /api/settings", s.handleSettingsGet)
	mux.HandleFunc("POST /api/settings", s.handleSettingsUpdate)
	mux.HandleFunc("GET /api/models", s.handleModels)

	mux.HandleFunc("POST /api/feeds", s.handleFeedCreate)
	mux.HandleFunc("GET /api/feeds", s.handleFeedList)
	mux.HandleFunc("DELETE /api/feeds/{id}", s.handleFeedDelete)
	mux.HandleFunc("POST /api/feeds/refresh", s.handleFeedRefresh)
	mux.HandleFunc("GET /api/entries", s.handleEntryList)
}
