// Package gateway is the typed client for the report persistence API.
// It mirrors the degradation contract the web client relies on: reads
// degrade to empty results, health never errors, and only saves
// surface failures to the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"stockreport-backend/internal/reports"
	"stockreport-backend/internal/shared/telemetry"
)

// ErrPersistence wraps save failures; reads never return it.
var ErrPersistence = errors.New("persistence failed")

// Client talks to the report API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource authenticates every request with tokens from ts.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.httpClient = oauth2.NewClient(context.Background(), ts)
	}
}

// NewClient constructs a Client for the given base URL, e.g.
// "http://localhost:3001/api".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type healthResponse struct {
	Status string `json:"status"`
}

type saveResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// Health reports backend reachability. It never returns an error;
// any failure reads as unhealthy.
func (c *Client) Health(ctx context.Context) bool {
	var parsed healthResponse
	if err := c.getJSON(ctx, "/health", &parsed); err != nil {
		return false
	}
	return parsed.Status == "ok"
}

// Save persists one analysis result and returns the canonical document
// id. Failures wrap ErrPersistence.
func (c *Client) Save(ctx context.Context, result reports.AnalysisResult) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/save", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrPersistence, resp.StatusCode, truncate(body))
	}

	var parsed saveResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !parsed.Success {
		return "", fmt.Errorf("%w: backend rejected save", ErrPersistence)
	}
	return parsed.ID, nil
}

// List fetches the document summaries, newest first. Failures degrade
// to an empty slice so browsing survives backend outages.
func (c *Client) List(ctx context.Context) []reports.DocumentSummary {
	var out []reports.DocumentSummary
	if err := c.getJSON(ctx, "/documents", &out); err != nil {
		telemetry.Warn("gateway.list_unavailable", map[string]any{"error": err.Error()})
		return []reports.DocumentSummary{}
	}
	if out == nil {
		out = []reports.DocumentSummary{}
	}
	return out
}

// HistoryByID fetches all analyses for one document id, newest first.
// Failures degrade to an empty slice.
func (c *Client) HistoryByID(ctx context.Context, id string) []reports.AnalysisResult {
	var out []reports.AnalysisResult
	if err := c.getJSON(ctx, "/history/"+url.PathEscape(id), &out); err != nil {
		telemetry.Warn("gateway.history_unavailable", map[string]any{"doc_id": id, "error": err.Error()})
		return []reports.AnalysisResult{}
	}
	if out == nil {
		out = []reports.AnalysisResult{}
	}
	return out
}

// Latest fetches the most recent analysis. It returns nil both when no
// analysis exists and when the backend is unreachable.
func (c *Client) Latest(ctx context.Context) *reports.AnalysisResult {
	var out *reports.AnalysisResult
	if err := c.getJSON(ctx, "/latest", &out); err != nil {
		telemetry.Warn("gateway.latest_unavailable", map[string]any{"error": err.Error()})
		return nil
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body))
	}
	return json.Unmarshal(body, dest)
}

func truncate(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
