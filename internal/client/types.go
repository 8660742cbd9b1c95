package client

import (
	"encoding/json"
	"time"
)

// ScrapeRequest holds the parameters for a single-page scrape.
type ScrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats,omitempty"`
	OnlyMainContent bool     `json:"onlyMainContent"`
	IncludeTags     []string `json:"includeTags,omitempty"`
	ExcludeTags     []string `json:"excludeTags,omitempty"`
	WaitFor         int      `json:"waitFor,omitempty"`
	Timeout         int      `json:"timeout,omitempty"`
	Mobile          bool     `json:"mobile,omitempty"`
}

// PageMetadata is the metadata block attached to scraped documents.
type PageMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
	SourceURL   string `json:"sourceURL"`
	StatusCode  int    `json:"statusCode"`
}

// Document is one scraped page in the formats requested.
type Document struct {
	Markdown   string       `json:"markdown"`
	HTML       string       `json:"html"`
	RawHTML    string       `json:"rawHtml"`
	Links      []string     `json:"links"`
	Screenshot string       `json:"screenshot"`
	Metadata   PageMetadata `json:"metadata"`
}

// MapRequest holds the parameters for URL discovery on a site.
type MapRequest struct {
	URL               string `json:"url"`
	Search            string `json:"search,omitempty"`
	IgnoreSitemap     bool   `json:"ignoreSitemap,omitempty"`
	SitemapOnly       bool   `json:"sitemapOnly,omitempty"`
	IncludeSubdomains bool   `json:"includeSubdomains,omitempty"`
	Limit             int    `json:"limit,omitempty"`
}

// CrawlRequest holds the parameters to start an asynchronous crawl.
type CrawlRequest struct {
	URL                    string   `json:"url"`
	ExcludePaths           []string `json:"excludePaths,omitempty"`
	IncludePaths           []string `json:"includePaths,omitempty"`
	MaxDepth               int      `json:"maxDepth,omitempty"`
	IgnoreSitemap          bool     `json:"ignoreSitemap,omitempty"`
	Limit                  int      `json:"limit,omitempty"`
	AllowBackwardLinks     bool     `json:"allowBackwardLinks,omitempty"`
	AllowExternalLinks     bool     `json:"allowExternalLinks,omitempty"`
	DeduplicateSimilarURLs bool     `json:"deduplicateSimilarURLs,omitempty"`
	Webhook                string   `json:"webhook,omitempty"`
}

// CrawlJob identifies a crawl accepted by the backend.
type CrawlJob struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CrawlStatus describes the progress of an asynchronous crawl.
type CrawlStatus struct {
	Status      string     `json:"status"` // scraping, completed, failed, cancelled
	Total       int        `json:"total"`
	Completed   int        `json:"completed"`
	CreditsUsed int        `json:"creditsUsed"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	Data        []Document `json:"data"`
}

// ExtractRequest holds the parameters for LLM-backed structured extraction.
type ExtractRequest struct {
	URLs               []string        `json:"urls"`
	Prompt             string          `json:"prompt,omitempty"`
	SystemPrompt       string          `json:"systemPrompt,omitempty"`
	Schema             json.RawMessage `json:"schema,omitempty"`
	AllowExternalLinks bool            `json:"allowExternalLinks,omitempty"`
	EnableWebSearch    bool            `json:"enableWebSearch,omitempty"`
	IncludeSubdomains  bool            `json:"includeSubdomains"`
	MaxDepth           int             `json:"maxDepth,omitempty"`
	OutputFormat       string          `json:"outputFormat,omitempty"`
}

// DeepResearchRequest holds the parameters for a deep-research run.
type DeepResearchRequest struct {
	Query     string `json:"query"`
	MaxDepth  int    `json:"maxDepth,omitempty"`
	TimeLimit int    `json:"timeLimit,omitempty"`
	MaxURLs   int    `json:"maxUrls,omitempty"`
}

// ResearchActivity is one step the research agent performed.
type ResearchActivity struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ResearchSource is one source consulted during research.
type ResearchSource struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ResearchResult is the outcome of a deep-research run.
type ResearchResult struct {
	FinalAnalysis string             `json:"finalAnalysis"`
	Activities    []ResearchActivity `json:"activities"`
	Sources       []ResearchSource   `json:"sources"`
}

// SearchRequest holds the parameters for a web search.
type SearchRequest struct {
	Query         string `json:"query"`
	Limit         int    `json:"limit,omitempty"`
	Lang          string `json:"lang,omitempty"`
	Country       string `json:"country,omitempty"`
	Filter        string `json:"filter,omitempty"`
	ScrapeResults bool   `json:"scrapeResults,omitempty"`
}

// SearchResult is one web search hit, optionally with scraped content.
type SearchResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Markdown    string `json:"markdown,omitempty"`
}
