package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/crawl4ai/crawl4ai-mcp/internal/client"
	"github.com/crawl4ai/crawl4ai-mcp/internal/common"
	"github.com/crawl4ai/crawl4ai-mcp/internal/store"
)

// newToolEnv wires a registry with the full tool catalog against a mock
// crawl4ai backend and a temporary job store.
func newToolEnv(t *testing.T, backend http.Handler) (*Registry, *store.JobStore) {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	logger := common.NewSilentLogger()
	c := client.New(logger)
	c.Configure("test-key", srv.URL)

	jobs, err := store.Open(filepath.Join(t.TempDir(), "jobs"), logger)
	if err != nil {
		t.Fatalf("Failed to open job store: %v", err)
	}
	t.Cleanup(func() { jobs.Close() })

	r := testRegistry()
	if err := RegisterAll(r, c, jobs); err != nil {
		t.Fatalf("Failed to register tools: %v", err)
	}
	return r, jobs
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("Failed to encode response: %v", err)
	}
}

func TestRegisterAll_Catalog(t *testing.T) {
	r, _ := newToolEnv(t, http.NotFoundHandler())

	want := []string{
		"crawl4ai_scrape",
		"crawl4ai_map",
		"crawl4ai_crawl",
		"crawl4ai_check_crawl_status",
		"crawl4ai_extract",
		"crawl4ai_deep_research",
		"crawl4ai_search",
	}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("Expected %d tools, got %d: %v", len(want), len(got), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("Expected tool %q at position %d, got %q", name, i, got[i])
		}
	}
}

func TestScrape_DefaultsReachBackend(t *testing.T) {
	var body map[string]any
	r, _ := newToolEnv(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/v1/scrape" {
			t.Errorf("Expected path /v1/scrape, got %s", req.URL.Path)
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		writeJSON(t, w, map[string]any{
			"success": true,
			"data": map[string]any{
				"markdown": "# Hello\n\nWorld.",
				"metadata": map[string]any{"title": "Hello Page", "sourceURL": "https://example.com"},
			},
		})
	}))

	result := r.Dispatch(context.Background(), "crawl4ai_scrape", map[string]any{
		"url": "https://example.com",
	})
	if result.IsError {
		t.Fatalf("Expected success, got %v", result.Content)
	}

	if formats, ok := body["formats"].([]any); !ok || len(formats) != 1 || formats[0] != "markdown" {
		t.Errorf("Expected default formats ['markdown'] in request, got %v", body["formats"])
	}
	if body["onlyMainContent"] != true {
		t.Errorf("Expected default onlyMainContent true, got %v", body["onlyMainContent"])
	}
	if body["timeout"] != float64(30000) {
		t.Errorf("Expected default timeout 30000, got %v", body["timeout"])
	}

	text := resultText(t, result)
	if !strings.Contains(text, "# Hello Page") || !strings.Contains(text, "World.") {
		t.Errorf("Expected formatted document, got %q", text)
	}
	if !strings.Contains(text, "https://example.com") {
		t.Errorf("Expected source URL in output, got %q", text)
	}
}

func TestScrape_InvalidURLRejectedBeforeBackend(t *testing.T) {
	backendHit := false
	r, _ := newToolEnv(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		backendHit = true
	}))

	result := r.Dispatch(context.Background(), "crawl4ai_scrape", map[string]any{
		"url": "ftp://example.com/file",
	})
	if !result.IsError {
		t.Error("Expected validation failure for non-http URL")
	}
	if backendHit {
		t.Error("Backend must not be called on validation failure")
	}
	if text := resultText(t, result); !strings.Contains(text, "url") {
		t.Errorf("Expected violation naming the url field, got %q", text)
	}
}

func TestExtract_EmptyURLListRejected(t *testing.T) {
	backendHit := false
	r, _ := newToolEnv(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		backendHit = true
	}))

	result := r.Dispatch(context.Background(), "crawl4ai_extract", map[string]any{
		"urls": []any{},
	})
	if !result.IsError {
		t.Error("Expected validation failure for empty urls")
	}
	if backendHit {
		t.Error("Backend must not be called on validation failure")
	}
	if text := resultText(t, result); !strings.Contains(text, "at least 1") {
		t.Errorf("Expected minimum-length violation, got %q", text)
	}
}

func TestExtract_DefaultsAndSchemaForwarded(t *testing.T) {
	var body map[string]any
	r, _ := newToolEnv(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/v1/extract" {
			t.Errorf("Expected path /v1/extract, got %s", req.URL.Path)
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		writeJSON(t, w, map[string]any{
			"success": true,
			"data":    map[string]any{"price": 42.5, "name": "Widget"},
		})
	}))

	result := r.Dispatch(context.Background(), "crawl4ai_extract", map[string]any{
		"urls":   []any{"https://example.com/product"},
		"prompt": "Extract the product name and price",
		"schema": `{"type":"object","properties":{"name":{"type":"string"}}}`,
	})
	if result.IsError {
		t.Fatalf("Expected success, got %v", result.Content)
	}

	if body["outputFormat"] != "json" {
		t.Errorf("Expected default outputFormat json, got %v", body["outputFormat"])
	}
	if body["maxDepth"] != float64(1) {
		t.Errorf("Expected default maxDepth 1, got %v", body["maxDepth"])
	}
	if body["includeSubdomains"] != true {
		t.Errorf("Expected default includeSubdomains true, got %v", body["includeSubdomains"])
	}
	if schema, ok := body["schema"].(map[string]any); !ok || schema["type"] != "object" {
		t.Errorf("Expected schema forwarded as JSON object, got %v", body["schema"])
	}

	text := resultText(t, result)
	if !strings.Contains(text, "```json") || !strings.Contains(text, `"name": "Widget"`) {
		t.Errorf("Expected pretty-printed JSON result, got %q", text)
	}
}

func TestExtract_MarkdownOutputUnwrapped(t *testing.T) {
	r, _ := newToolEnv(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(t, w, map[string]any{
			"success": true,
			"data":    "## Findings\n\nThe product costs $42.",
		})
	}))

	result := r.Dispatch(context.Background(), "crawl4ai_extract", map[string]any{
		"urls":         []any{"https://example.com"},
		"outputFormat": "markdown",
	})
	if result.IsError {
		t.Fatalf("Expected success, got %v", result.Content)
	}
	text := resultText(t, result)
	if strings.Contains(text, "```json") {
		t.Errorf("Expected raw markdown, got fenced JSON: %q", text)
	}
	if !strings.Contains(text, "## Findings") {
		t.Errorf("Expected markdown body, got %q", text)
	}
}

func TestBackendFailure_NormalizedAndRecoverable(t *testing.T) {
	failing := true
	r, _ := newToolEnv(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			writeJSON(t, w, map[string]any{"error": "upstream exploded"})
			return
		}
		writeJSON(t, w, map[string]any{
			"success": true,
			"data":    map[string]any{"markdown": "recovered", "metadata": map[string]any{}},
		})
	}))

	result := r.Dispatch(context.Background(), "crawl4ai_scrape", map[string]any{
		"url": "https://example.com",
	})
	if !result.IsError {
		t.Fatal("Expected error result from 500 backend")
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "Error: ") || !strings.Contains(text, "upstream exploded") {
		t.Errorf("Expected normalized backend error, got %q", text)
	}

	// The same registry keeps serving after a backend failure.
	failing = false
	ok := r.Dispatch(context.Background(), "crawl4ai_scrape", map[string]any{
		"url": "https://example.com",
	})
	if ok.IsError {
		t.Errorf("Expected success after backend recovery, got %v", ok.Content)
	}
}

func TestCrawl_StartRecordsJobAndStatusEnriches(t *testing.T) {
	r, jobs := newToolEnv(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch {
		case req.Method == http.MethodPost && req.URL.Path == "/v1/crawl":
			writeJSON(t, w, map[string]any{"success": true, "id": "job-123", "url": "https://example.com"})
		case req.Method == http.MethodGet && req.URL.Path == "/v1/crawl/job-123":
			writeJSON(t, w, map[string]any{
				"status":    "scraping",
				"total":     40,
				"completed": 12,
			})
		default:
			t.Errorf("Unexpected request: %s %s", req.Method, req.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	started := r.Dispatch(context.Background(), "crawl4ai_crawl", map[string]any{
		"url": "https://example.com",
	})
	if started.IsError {
		t.Fatalf("Expected success, got %v", started.Content)
	}
	if text := resultText(t, started); !strings.Contains(text, "job-123") {
		t.Errorf("Expected job ID in acknowledgement, got %q", text)
	}

	job, found, err := jobs.Get("job-123")
	if err != nil {
		t.Fatalf("Unexpected store error: %v", err)
	}
	if !found {
		t.Fatal("Expected crawl job recorded in store")
	}
	if job.URL != "https://example.com" {
		t.Errorf("Expected recorded URL, got %q", job.URL)
	}
	if job.SubmittedAt.IsZero() {
		t.Error("Expected recorded submission time")
	}

	status := r.Dispatch(context.Background(), "crawl4ai_check_crawl_status", map[string]any{
		"id": "job-123",
	})
	if status.IsError {
		t.Fatalf("Expected success, got %v", status.Content)
	}
	text := resultText(t, status)
	if !strings.Contains(text, "scraping") || !strings.Contains(text, "12 / 40") {
		t.Errorf("Expected progress in status output, got %q", text)
	}
	if !strings.Contains(text, "Origin URL") || !strings.Contains(text, "https://example.com") {
		t.Errorf("Expected stored origin URL in status output, got %q", text)
	}
}

func TestCheckCrawlStatus_UnknownJobStillFormats(t *testing.T) {
	r, _ := newToolEnv(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(t, w, map[string]any{
			"status":    "completed",
			"total":     3,
			"completed": 3,
			"data": []map[string]any{
				{"metadata": map[string]any{"title": "Page One", "sourceURL": "https://example.com/1"}},
			},
		})
	}))

	result := r.Dispatch(context.Background(), "crawl4ai_check_crawl_status", map[string]any{
		"id": "job-unknown",
	})
	if result.IsError {
		t.Fatalf("Expected success, got %v", result.Content)
	}
	text := resultText(t, result)
	if strings.Contains(text, "Origin URL") {
		t.Errorf("Expected no stored-record enrichment for unknown job, got %q", text)
	}
	if !strings.Contains(text, "Page One") {
		t.Errorf("Expected crawled page listed, got %q", text)
	}
}

func TestMap_FormatsDiscoveredURLs(t *testing.T) {
	r, _ := newToolEnv(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/v1/map" {
			t.Errorf("Expected path /v1/map, got %s", req.URL.Path)
		}
		writeJSON(t, w, map[string]any{
			"success": true,
			"links":   []string{"https://example.com/", "https://example.com/about"},
		})
	}))

	result := r.Dispatch(context.Background(), "crawl4ai_map", map[string]any{
		"url": "https://example.com",
	})
	if result.IsError {
		t.Fatalf("Expected success, got %v", result.Content)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "**2** URLs") {
		t.Errorf("Expected URL count, got %q", text)
	}
	if !strings.Contains(text, "- https://example.com/about") {
		t.Errorf("Expected discovered URL listed, got %q", text)
	}
}

func TestSearch_FormatsNumberedResults(t *testing.T) {
	var body map[string]any
	r, _ := newToolEnv(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/v1/search" {
			t.Errorf("Expected path /v1/search, got %s", req.URL.Path)
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		writeJSON(t, w, map[string]any{
			"success": true,
			"data": []map[string]any{
				{"url": "https://golang.org", "title": "The Go Programming Language", "description": "Official site"},
				{"url": "https://go.dev", "title": "go.dev"},
			},
		})
	}))

	result := r.Dispatch(context.Background(), "crawl4ai_search", map[string]any{
		"query": "golang",
	})
	if result.IsError {
		t.Fatalf("Expected success, got %v", result.Content)
	}

	if body["limit"] != float64(5) {
		t.Errorf("Expected default limit 5 in request, got %v", body["limit"])
	}
	if body["lang"] != "en" || body["country"] != "us" {
		t.Errorf("Expected default lang/country, got %v/%v", body["lang"], body["country"])
	}

	text := resultText(t, result)
	if !strings.Contains(text, "1. **The Go Programming Language**") {
		t.Errorf("Expected numbered first result, got %q", text)
	}
	if !strings.Contains(text, "2. **go.dev**") {
		t.Errorf("Expected numbered second result, got %q", text)
	}
	if !strings.Contains(text, "Official site") {
		t.Errorf("Expected description in output, got %q", text)
	}
}

func TestDeepResearch_FormatsAnalysisAndSources(t *testing.T) {
	r, _ := newToolEnv(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/v1/deep-research" {
			t.Errorf("Expected path /v1/deep-research, got %s", req.URL.Path)
		}
		writeJSON(t, w, map[string]any{
			"success": true,
			"data": map[string]any{
				"finalAnalysis": "Generics landed in Go 1.18.",
				"activities": []map[string]any{
					{"type": "search", "message": "searching release notes"},
					{"type": "analyze", "message": "reading proposal"},
				},
				"sources": []map[string]any{
					{"url": "https://go.dev/blog/intro-generics", "title": "An Introduction To Generics"},
				},
			},
		})
	}))

	result := r.Dispatch(context.Background(), "crawl4ai_deep_research", map[string]any{
		"query": "when did Go get generics",
	})
	if result.IsError {
		t.Fatalf("Expected success, got %v", result.Content)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Generics landed in Go 1.18.") {
		t.Errorf("Expected analysis in output, got %q", text)
	}
	if !strings.Contains(text, "An Introduction To Generics") {
		t.Errorf("Expected source in output, got %q", text)
	}
	if !strings.Contains(text, "2 steps") {
		t.Errorf("Expected activity count, got %q", text)
	}
}

func TestScrape_StubbornlyEmptyDocument(t *testing.T) {
	r, _ := newToolEnv(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(t, w, map[string]any{"success": true, "data": map[string]any{}})
	}))

	result := r.Dispatch(context.Background(), "crawl4ai_scrape", map[string]any{
		"url":     "https://example.com",
		"formats": []any{"markdown", "links"},
	})
	if result.IsError {
		t.Fatalf("Expected success, got %v", result.Content)
	}
	if text := resultText(t, result); !strings.Contains(text, "No content returned") {
		t.Errorf("Expected empty-document fallback text, got %q", text)
	}
}

func TestFormatCrawlStatus_CapsPageList(t *testing.T) {
	status := &client.CrawlStatus{Status: "completed", Total: 25, Completed: 25}
	for i := 0; i < 25; i++ {
		status.Data = append(status.Data, client.Document{
			Metadata: client.PageMetadata{SourceURL: "https://example.com/page"},
		})
	}

	out := formatCrawlStatus("job-1", status, &store.CrawlJob{
		ID: "job-1", URL: "https://example.com", SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	if !strings.Contains(out, "and 15 more pages") {
		t.Errorf("Expected capped page list, got %q", out)
	}
	if !strings.Contains(out, "2025-06-01T12:00:00Z") {
		t.Errorf("Expected submitted timestamp, got %q", out)
	}
}
