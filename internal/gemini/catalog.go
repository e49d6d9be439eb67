package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/Eckii24/fresh-rss-summary/internal/cache"
)

const (
	catalogTTL      = time.Hour
	catalogPageSize = 1000
)

// ModelEntry is one model the API key is entitled to use.
type ModelEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// CatalogResult carries either a model list or an error string, never both.
// The list is for presentation only; a manually entered model id is always
// accepted regardless of catalog membership.
type CatalogResult struct {
	Models []ModelEntry `json:"models"`
	Err    string       `json:"error,omitempty"`
}

// Catalog lists generation-capable models, caching results per API-key
// fingerprint so the settings page does not hammer the provider.
type Catalog struct {
	httpClient *http.Client
	apiBase    string
	store      cache.Store
	ttl        time.Duration
	now        func() time.Time
	log        *slog.Logger
}

// CatalogConfig configures a Catalog. Zero values fall back to production
// defaults; Store is required.
type CatalogConfig struct {
	Store   cache.Store
	APIBase string
	Logger  *slog.Logger
}

func NewCatalog(cfg CatalogConfig) *Catalog {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Catalog{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiBase:    cfg.APIBase,
		store:      cfg.Store,
		ttl:        catalogTTL,
		now:        time.Now,
		log:        cfg.Logger,
	}
}

// Models returns the models available to the API key, sorted
// case-insensitively by display name. Results — including refresh failures —
// are cached for an hour keyed by a fingerprint of the key.
func (c *Catalog) Models(ctx context.Context, apiKey string) CatalogResult {
	if strings.TrimSpace(apiKey) == "" {
		return CatalogResult{}
	}

	fingerprint := cache.Fingerprint(apiKey)
	if entry, ok, err := c.store.Get(fingerprint); err == nil && ok && c.now().Sub(entry.UpdatedAt) < c.ttl {
		var cached CatalogResult
		if json.Unmarshal(entry.Value, &cached) == nil {
			return cached
		}
	}

	result := c.fetch(ctx, apiKey)

	if data, err := json.Marshal(result); err == nil {
		if err := c.store.Set(fingerprint, data, c.now()); err != nil {
			c.log.Warn("Failed to cache model catalog", "error", err)
		}
	}
	return result
}

func (c *Catalog) fetch(ctx context.Context, apiKey string) CatalogResult {
	var entries []ModelEntry
	pageToken := ""

	for {
		reqURL := fmt.Sprintf("%s/v1beta/models?pageSize=%d", c.apiBase, catalogPageSize)
		if pageToken != "" {
			reqURL += "&pageToken=" + url.QueryEscape(pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		if err != nil {
			return CatalogResult{Err: "unable to fetch models list: " + err.Error()}
		}
		req.Header.Set("x-goog-api-key", apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return CatalogResult{Err: "unable to fetch models list: " + err.Error()}
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return CatalogResult{Err: "unable to read models list: " + err.Error()}
		}
		if resp.StatusCode != http.StatusOK {
			return CatalogResult{Err: fmt.Sprintf("unable to fetch models list (HTTP %d)", resp.StatusCode)}
		}

		var page struct {
			Models []struct {
				Name                       string   `json:"name"`
				BaseModelID                string   `json:"baseModelId"`
				DisplayName                string   `json:"displayName"`
				SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
			} `json:"models"`
			NextPageToken string `json:"nextPageToken"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return CatalogResult{Err: "decode models list: " + err.Error()}
		}

		for _, m := range page.Models {
			if !slices.Contains(m.SupportedGenerationMethods, "generateContent") {
				continue
			}
			// Prefer the full resource name to avoid version mismatches.
			id := m.Name
			if id == "" {
				id = m.BaseModelID
			}
			if id == "" {
				continue
			}
			display := m.DisplayName
			if display == "" {
				display = m.BaseModelID
			}
			if display == "" {
				display = m.Name
			}
			entries = append(entries, ModelEntry{ID: id, DisplayName: display})
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if len(entries) == 0 {
		return CatalogResult{Err: "no models supporting generateContent were returned"}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].DisplayName) < strings.ToLower(entries[j].DisplayName)
	})
	return CatalogResult{Models: entries}
}
