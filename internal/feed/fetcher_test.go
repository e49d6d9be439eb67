package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Eckii24/fresh-rss-summary/internal/database"
)

const rssDoc = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Example Feed</title>
<item>
	<title>Post One</title>
	<link>https://example.com/1</link>
	<guid>g1</guid>
	<description>Body one</description>
	<pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
</item>
<item>
	<title>Post Two</title>
	<link>https://example.com/2</link>
	<guid>g2</guid>
	<description>Body two</description>
</item>
</channel></rss>`

func newTestFetcher(t *testing.T) (*Fetcher, *database.DB) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewFetcher(db, 5*time.Second, nil), db
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssDoc))
	}))
	defer srv.Close()

	f, _ := newTestFetcher(t)
	title, err := f.Probe(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if title != "Example Feed" {
		t.Errorf("title = %q", title)
	}
}

func TestProbeNotAFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>not a feed</body></html>"))
	}))
	defer srv.Close()

	f, _ := newTestFetcher(t)
	if _, err := f.Probe(context.Background(), srv.URL); err == nil {
		t.Error("expected an error for a non-feed document")
	}
}

func TestRefreshFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssDoc))
	}))
	defer srv.Close()

	f, db := newTestFetcher(t)
	feedID, err := db.CreateFeed("Example Feed", srv.URL, "")
	if err != nil {
		t.Fatalf("CreateFeed: %v", err)
	}
	stored, _ := db.GetFeed(feedID)

	added, err := f.RefreshFeed(context.Background(), stored)
	if err != nil {
		t.Fatalf("RefreshFeed: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	// A second refresh of the same items adds nothing.
	added, err = f.RefreshFeed(context.Background(), stored)
	if err != nil {
		t.Fatalf("RefreshFeed: %v", err)
	}
	if added != 0 {
		t.Errorf("added on rerun = %d, want 0", added)
	}

	entries, err := db.ListEntries(feedID, 0)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	stored, _ = db.GetFeed(feedID)
	if stored.LastFetchedAt == nil {
		t.Error("LastFetchedAt not set after refresh")
	}
}

func TestRefreshAllSkipsBrokenFeeds(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssDoc))
	}))
	defer good.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	f, db := newTestFetcher(t)
	if _, err := db.CreateFeed("Broken", broken.URL, ""); err != nil {
		t.Fatalf("CreateFeed: %v", err)
	}
	if _, err := db.CreateFeed("Good", good.URL, ""); err != nil {
		t.Fatalf("CreateFeed: %v", err)
	}

	added, err := f.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2 from the working feed", added)
	}
}

func TestDiscoverFeedURL(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
<link rel="alternate" type="application/rss+xml" href="/feed.xml">
</head><body></body></html>`))
	})

	got := DiscoverFeedURL(srv.URL + "/")
	want := srv.URL + "/feed.xml"
	if got != want {
		t.Errorf("DiscoverFeedURL = %q, want %q", got, want)
	}
}

func TestDiscoverFeedURLNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>plain</title></head></html>"))
	}))
	defer srv.Close()

	if got := DiscoverFeedURL(srv.URL); got != "" {
		t.Errorf("DiscoverFeedURL = %q, want empty", got)
	}
}
