// Package gemini talks to the Google generative-language REST API. The
// response schema for generateContent is undocumented in places and varies
// by model family and API version, so the client negotiates: it retries a
// bounded ladder of alternate endpoint versions and payload shapes and
// extracts text from an ordered table of known candidate shapes.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultAPIBase is the production generative-language endpoint.
	DefaultAPIBase = "https://generativelanguage.googleapis.com"

	versionV1     = "v1"
	versionV1Beta = "v1beta"
)

// v1Models are served from the v1 API; everything else uses v1beta.
var v1Models = map[string]bool{
	"gemini-2.5-flash": true,
	"gemini-2.5-pro":   true,
	"gemini-2.0-flash": true,
}

func versionForModel(model string) string {
	if v1Models[modelPath(model)] {
		return versionV1
	}
	return versionV1Beta
}

func otherVersion(version string) string {
	if version == versionV1 {
		return versionV1Beta
	}
	return versionV1
}

// modelPath strips the resource-name prefix the model catalog prefers, so
// both "gemini-2.5-flash" and "models/gemini-2.5-flash" address the same
// endpoint.
func modelPath(model string) string {
	return strings.TrimPrefix(model, "models/")
}

// ClientConfig configures a Client. Zero values fall back to production
// defaults.
type ClientConfig struct {
	APIKey  string
	APIBase string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client executes generateContent requests with fallback negotiation.
type Client struct {
	httpClient *http.Client
	apiBase    string
	apiKey     string
	log        *slog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiBase:    cfg.APIBase,
		apiKey:     cfg.APIKey,
		log:        cfg.Logger,
	}
}

// GenerateSummary sends the prompt to the generateContent endpoint implied
// by the model and works through the fallback ladder until text is
// extracted or the ladder is exhausted: the primary attempt, the alternate
// API version with the same payload, then up to three alternate payload
// shapes at the original version. At most five generation calls are made,
// strictly in sequence. Transport failures, structured API errors and
// safety blocks are terminal and stop the ladder immediately.
func (c *Client) GenerateSummary(ctx context.Context, prompt string, p GenParams) (string, error) {
	if c.apiKey == "" || strings.TrimSpace(p.Model) == "" {
		return "", &SummaryError{KindConfigMissing, "API key and model must be configured"}
	}

	version := versionForModel(p.Model)
	payload := primaryPayload(prompt, p, version)
	var failures []string

	text, serr := c.attempt(ctx, 1, version, p.Model, "primary", payload)
	if serr == nil {
		return text, nil
	}
	if serr.Terminal() {
		return "", serr
	}
	failures = append(failures, version+"/primary: "+serr.Message)

	// Same payload against the other API version.
	alternate := otherVersion(version)
	text, serr = c.attempt(ctx, 2, alternate, p.Model, "primary", payload)
	if serr == nil {
		return text, nil
	}
	if serr.Terminal() {
		return "", serr
	}
	failures = append(failures, alternate+"/primary: "+serr.Message)

	// Alternate request shapes against the original version.
	for i, builder := range alternatePayloads {
		text, serr = c.attempt(ctx, 3+i, version, p.Model, builder.name, builder.build(prompt, p))
		if serr == nil {
			return text, nil
		}
		if serr.Terminal() {
			return "", serr
		}
		failures = append(failures, version+"/"+builder.name+": "+serr.Message)
	}

	return "", &SummaryError{
		Kind: KindExhausted,
		Message: "all request formats and API endpoints failed; the model may be unavailable or the configuration incorrect: " +
			strings.Join(failures, "; "),
	}
}

// attempt sends one request and tries to extract text from the reply.
func (c *Client) attempt(ctx context.Context, n int, version, model, payloadShape string, payload map[string]any) (string, *SummaryError) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", &SummaryError{KindNoText, "marshal request: " + err.Error()}
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.apiBase, version, modelPath(model))
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return "", &SummaryError{KindTransport, "create request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	c.log.Debug("gemini attempt",
		"attempt", n,
		"version", version,
		"payloadShape", payloadShape,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &SummaryError{KindTransport, "request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SummaryError{KindTransport, "read response: " + err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
			return "", &SummaryError{
				Kind:    KindAPIError,
				Message: fmt.Sprintf("API error (HTTP %d): %s", resp.StatusCode, msg.String()),
			}
		}
		// A bare non-200 may be an endpoint/format mismatch for this
		// model; let the ladder continue.
		return "", &SummaryError{KindNoText, fmt.Sprintf("HTTP %d without structured error", resp.StatusCode)}
	}

	text, shape, serr := parseResponse(body)
	if serr != nil {
		c.log.Debug("gemini attempt yielded no text",
			"attempt", n,
			"version", version,
			"payloadShape", payloadShape,
			"error", serr.Message,
		)
		return "", serr
	}

	c.log.Debug("gemini attempt succeeded",
		"attempt", n,
		"version", version,
		"payloadShape", payloadShape,
		"responseShape", shape,
		"chars", len(text),
	)
	return text, nil
}
