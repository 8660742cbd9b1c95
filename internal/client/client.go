// Package client implements the HTTP adapter for the crawl4ai API.
//
// The client is a pure translation/transport layer: it trusts its callers to
// have validated parameters, performs exactly one outbound request per call,
// and never retries or caches. Failures come back as one of three types so
// the dispatch layer can render an informative message: *TransportError
// (network), *APIError (non-2xx status), *DecodeError (unexpected body).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crawl4ai/crawl4ai-mcp/internal/common"
)

// adapterConfig holds credential and endpoint. It is replaced wholesale by
// Configure and never mutated, so handlers can read it concurrently.
type adapterConfig struct {
	apiKey  string
	baseURL string
}

// Client talks to the crawl4ai API.
type Client struct {
	cfg        *adapterConfig
	httpClient *http.Client
	logger     *common.Logger
}

// New creates an unconfigured client. Configure must be called before the
// first request.
func New(logger *common.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 300 * time.Second, // crawl and research calls can run long
		},
		logger: logger,
	}
}

// Configure sets the credential and endpoint, replacing any prior
// configuration. It is idempotent; subsequent requests use only the most
// recent values. An empty baseURL is rejected by config validation upstream,
// so it is kept as-is here.
func (c *Client) Configure(apiKey, baseURL string) {
	c.cfg = &adapterConfig{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Scrape fetches a single page in the requested formats.
func (c *Client) Scrape(ctx context.Context, req ScrapeRequest) (*Document, error) {
	var resp struct {
		Success bool     `json:"success"`
		Data    Document `json:"data"`
	}
	if err := c.post(ctx, "/v1/scrape", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// MapURL discovers URLs on a site.
func (c *Client) MapURL(ctx context.Context, req MapRequest) ([]string, error) {
	var resp struct {
		Success bool     `json:"success"`
		Links   []string `json:"links"`
	}
	if err := c.post(ctx, "/v1/map", req, &resp); err != nil {
		return nil, err
	}
	return resp.Links, nil
}

// StartCrawl submits an asynchronous crawl and returns the accepted job.
func (c *Client) StartCrawl(ctx context.Context, req CrawlRequest) (*CrawlJob, error) {
	var resp struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
		URL     string `json:"url"`
	}
	if err := c.post(ctx, "/v1/crawl", req, &resp); err != nil {
		return nil, err
	}
	return &CrawlJob{ID: resp.ID, URL: resp.URL}, nil
}

// GetCrawlStatus fetches the progress of a crawl job.
func (c *Client) GetCrawlStatus(ctx context.Context, id string) (*CrawlStatus, error) {
	var status CrawlStatus
	if err := c.get(ctx, "/v1/crawl/"+url.PathEscape(id), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Extract runs LLM-backed structured extraction over the given URLs.
func (c *Client) Extract(ctx context.Context, req ExtractRequest) (json.RawMessage, error) {
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := c.post(ctx, "/v1/extract", req, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DeepResearch runs an agentic research session for a query.
func (c *Client) DeepResearch(ctx context.Context, req DeepResearchRequest) (*ResearchResult, error) {
	var resp struct {
		Success bool           `json:"success"`
		Data    ResearchResult `json:"data"`
	}
	if err := c.post(ctx, "/v1/deep-research", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Search performs a web search, optionally scraping each result.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	var resp struct {
		Success bool           `json:"success"`
		Data    []SearchResult `json:"data"`
	}
	if err := c.post(ctx, "/v1/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// post performs a POST with a JSON body and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), out)
}

// get performs a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	cfg := c.cfg
	if cfg == nil {
		return &TransportError{Op: path, Err: fmt.Errorf("client is not configured")}
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Msg("crawl4ai API request")

	req, err := http.NewRequestWithContext(ctx, method, cfg.baseURL+path, body)
	if err != nil {
		return &TransportError{Op: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Dur("duration", duration).Msg("crawl4ai API request failed")
		return &TransportError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug().
		Str("status", resp.Status).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Str("path", path).
		Msg("crawl4ai API response")

	if resp.StatusCode >= 400 {
		return &APIError{Op: path, StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &DecodeError{Op: path, Err: err}
	}
	return nil
}

// errorMessage extracts the backend's error body when one was provided.
func errorMessage(status int, body []byte) string {
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return errResp.Error
	}
	return fmt.Sprintf("crawl4ai API returned status %d: %s", status, strings.TrimSpace(string(body)))
}
