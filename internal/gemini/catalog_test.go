package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Eckii24/fresh-rss-summary/internal/cache"
)

const modelsPage = `{"models":[
	{"name":"models/gemini-2.5-pro","displayName":"Gemini 2.5 Pro","supportedGenerationMethods":["generateContent","countTokens"]},
	{"name":"models/gemini-2.5-flash","displayName":"Gemini 2.5 Flash","supportedGenerationMethods":["generateContent"]},
	{"name":"models/embedding-001","displayName":"Embedding 001","supportedGenerationMethods":["embedContent"]}
]}`

func newTestCatalog(t *testing.T, handler http.HandlerFunc) *Catalog {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCatalog(CatalogConfig{Store: cache.NewMemory(), APIBase: srv.URL})
}

func TestCatalogModels(t *testing.T) {
	c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(modelsPage))
	})

	result := c.Models(context.Background(), "test-key")
	if result.Err != "" {
		t.Fatalf("Models error: %s", result.Err)
	}
	if len(result.Models) != 2 {
		t.Fatalf("models = %d, want 2 (non-generation models filtered)", len(result.Models))
	}
	// Sorted case-insensitively by display name.
	if result.Models[0].DisplayName != "Gemini 2.5 Flash" || result.Models[1].DisplayName != "Gemini 2.5 Pro" {
		t.Errorf("unexpected order: %+v", result.Models)
	}
	if result.Models[0].ID != "models/gemini-2.5-flash" {
		t.Errorf("id = %q, want resource name", result.Models[0].ID)
	}
}

func TestCatalogPaging(t *testing.T) {
	pages := 0
	c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		pages++
		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{"models":[{"name":"models/a","displayName":"A","supportedGenerationMethods":["generateContent"]}],"nextPageToken":"page2"}`)
			return
		}
		fmt.Fprint(w, `{"models":[{"name":"models/b","displayName":"B","supportedGenerationMethods":["generateContent"]}]}`)
	})

	result := c.Models(context.Background(), "test-key")
	if result.Err != "" {
		t.Fatalf("Models error: %s", result.Err)
	}
	if pages != 2 {
		t.Errorf("pages fetched = %d, want 2", pages)
	}
	if len(result.Models) != 2 {
		t.Errorf("models = %d, want 2", len(result.Models))
	}
}

func TestCatalogCaching(t *testing.T) {
	fetches := 0
	c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.Write([]byte(modelsPage))
	})

	now := time.Now()
	c.now = func() time.Time { return now }

	c.Models(context.Background(), "test-key")
	c.Models(context.Background(), "test-key")
	if fetches != 1 {
		t.Fatalf("fetches = %d, want 1 (second call served from cache)", fetches)
	}

	// A different key has its own cache slot.
	c.Models(context.Background(), "other-key")
	if fetches != 2 {
		t.Fatalf("fetches = %d, want 2", fetches)
	}

	// After the TTL the entry is refreshed.
	now = now.Add(2 * time.Hour)
	c.Models(context.Background(), "test-key")
	if fetches != 3 {
		t.Fatalf("fetches = %d, want 3 (expired entry refetched)", fetches)
	}
}

func TestCatalogCachesErrors(t *testing.T) {
	fetches := 0
	c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	first := c.Models(context.Background(), "test-key")
	second := c.Models(context.Background(), "test-key")
	if first.Err == "" || second.Err == "" {
		t.Fatal("expected error results")
	}
	if fetches != 1 {
		t.Errorf("fetches = %d, want 1 (error result cached too)", fetches)
	}
	if !strings.Contains(first.Err, "HTTP 503") {
		t.Errorf("error = %q", first.Err)
	}
}

func TestCatalogEmptyKey(t *testing.T) {
	c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected fetch with empty key")
	})

	result := c.Models(context.Background(), "   ")
	if result.Err != "" || len(result.Models) != 0 {
		t.Errorf("result = %+v, want zero value", result)
	}
}

func TestCatalogNoGenerationModels(t *testing.T) {
	c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"models":[{"name":"models/embedding-001","displayName":"Embedding","supportedGenerationMethods":["embedContent"]}]}`)
	})

	result := c.Models(context.Background(), "test-key")
	if !strings.Contains(result.Err, "no models supporting generateContent") {
		t.Errorf("error = %q", result.Err)
	}
}
