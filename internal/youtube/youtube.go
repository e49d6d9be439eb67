// Package youtube resolves YouTube references from article URLs and fetches
// best-effort video metadata from the public watch page.
package youtube

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	watchURLFormat = "https://www.youtube.com/watch?v=%s"

	// Description text is truncated to keep the prompt bounded.
	maxDescriptionLength = 500
)

// idPatterns are tried in order; the first match wins. Video IDs are the
// fixed 11-character token YouTube uses in every URL shape.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([a-zA-Z0-9_-]{11})`),
}

var (
	titlePattern = regexp.MustCompile(`(?i)<title>([^<]*)</title>`)
	descPattern  = regexp.MustCompile(`<meta name="description" content="([^"]*)"`)
)

// ExtractVideoID returns the video ID embedded in a URL, or false when the
// URL is not a recognized YouTube link.
func ExtractVideoID(rawURL string) (string, bool) {
	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// WatchURL returns the canonical watch page URL for a video ID.
func WatchURL(videoID string) string {
	return fmt.Sprintf(watchURLFormat, videoID)
}

// Info is scraped video metadata.
type Info struct {
	Title       string
	Description string
}

// ClientConfig configures a Client. Zero values fall back to the public
// watch-page defaults.
type ClientConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client fetches video metadata from the public watch page. The fetch is
// strictly best-effort: scraping the page with text patterns is good enough
// for prompt context, and any failure simply yields no metadata.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.youtube.com"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
	}
}

// FetchInfo returns metadata for a video, or nil when the page could not be
// fetched or carried no recognizable title.
func (c *Client) FetchInfo(ctx context.Context, videoID string) *Info {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/watch?v="+videoID, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	page := string(body)

	info := &Info{}
	if m := titlePattern.FindStringSubmatch(page); m != nil {
		title := html.UnescapeString(m[1])
		info.Title = strings.TrimSpace(strings.ReplaceAll(title, " - YouTube", ""))
	}
	if m := descPattern.FindStringSubmatch(page); m != nil {
		desc := html.UnescapeString(m[1])
		if len(desc) > maxDescriptionLength {
			desc = desc[:maxDescriptionLength]
		}
		info.Description = desc
	}

	if info.Title == "" && info.Description == "" {
		return nil
	}
	return info
}
