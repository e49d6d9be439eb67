package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Eckii24/fresh-rss-summary/internal/config"
	"github.com/Eckii24/fresh-rss-summary/internal/database"
	"github.com/Eckii24/fresh-rss-summary/internal/feed"
	"github.com/Eckii24/fresh-rss-summary/internal/gemini"
	"github.com/Eckii24/fresh-rss-summary/internal/server"
	"github.com/Eckii24/fresh-rss-summary/internal/summarizer"
	"github.com/Eckii24/fresh-rss-summary/internal/youtube"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("fresh-rss-summary %s\n", version)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	var logLevel slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting fresh-rss-summary", "version", version)

	// Initialize database
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("Database initialized", "path", cfg.Database.Path)

	// Initialize services
	sum := summarizer.New(summarizer.Config{Videos: youtube.NewClient(youtube.ClientConfig{})})
	catalog := gemini.NewCatalog(gemini.CatalogConfig{Store: db.ModelCache()})
	fetcher := feed.NewFetcher(db, time.Duration(cfg.Feeds.FetchTimeoutSeconds)*time.Second, slog.Default())
	sched := feed.NewScheduler(fetcher, time.Duration(cfg.Feeds.RefreshIntervalMinutes)*time.Minute, slog.Default())

	// Build HTTP server
	srv := server.New(cfg, db, sum, catalog, fetcher)

	// Start scheduler in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
		srv.Shutdown(context.Background())
	}()

	// Start serving
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
