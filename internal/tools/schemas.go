package tools

import (
	"github.com/crawl4ai/crawl4ai-mcp/internal/client"
	"github.com/crawl4ai/crawl4ai-mcp/internal/schema"
	"github.com/crawl4ai/crawl4ai-mcp/internal/store"
)

// RegisterAll registers the full crawl4ai tool catalog on the registry.
// The job store may be nil; crawl tools then skip job tracking.
func RegisterAll(r *Registry, c *client.Client, jobs *store.JobStore) error {
	all := []*Tool{
		newScrapeTool(c),
		newMapTool(c),
		newCrawlTool(c, jobs),
		newCheckCrawlStatusTool(c, jobs),
		newExtractTool(c),
		newDeepResearchTool(c),
		newSearchTool(c),
	}
	for _, t := range all {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func newScrapeTool(c *client.Client) *Tool {
	return &Tool{
		Name:        "crawl4ai_scrape",
		Description: "Scrape a single webpage and return its content as markdown, HTML, links, or a screenshot. Best for reading one known URL. Use crawl4ai_crawl for multiple pages.",
		Schema: schema.New(
			schema.Field{
				Name: "url", Type: schema.TypeString, Required: true, URL: true,
				Description: "The URL to scrape (must be http or https)",
			},
			schema.Field{
				Name: "formats", Type: schema.TypeStringArray,
				Default:     []string{"markdown"},
				ItemEnum:    []string{"markdown", "html", "rawHtml", "links", "screenshot"},
				Description: "Content formats to return (default: ['markdown'])",
			},
			schema.Field{
				Name: "onlyMainContent", Type: schema.TypeBoolean, Default: true,
				Description: "Extract only the main page content, skipping navigation and boilerplate (default: true)",
			},
			schema.Field{
				Name: "includeTags", Type: schema.TypeStringArray, Default: []string{},
				Description: "HTML tags to include in extraction",
			},
			schema.Field{
				Name: "excludeTags", Type: schema.TypeStringArray, Default: []string{},
				Description: "HTML tags to exclude from extraction",
			},
			schema.Field{
				Name: "waitFor", Type: schema.TypeNumber, Default: float64(0),
				Integer: true, Min: schema.Float(0), Max: schema.Float(60000),
				Description: "Milliseconds to wait for dynamic content to load (default: 0)",
			},
			schema.Field{
				Name: "timeout", Type: schema.TypeNumber, Default: float64(30000),
				Integer: true, Min: schema.Float(1000), Max: schema.Float(120000),
				Description: "Maximum milliseconds for the scrape (default: 30000)",
			},
			schema.Field{
				Name: "mobile", Type: schema.TypeBoolean, Default: false,
				Description: "Render with a mobile viewport (default: false)",
			},
		),
		Handler: handleScrape(c),
	}
}

func newMapTool(c *client.Client) *Tool {
	return &Tool{
		Name:        "crawl4ai_map",
		Description: "Discover the URLs of a website, from sitemaps and link analysis. Returns a flat list of URLs. Use before crawling to scope a site.",
		Schema: schema.New(
			schema.Field{
				Name: "url", Type: schema.TypeString, Required: true, URL: true,
				Description: "Starting URL for discovery",
			},
			schema.Field{
				Name: "search", Type: schema.TypeString, Default: "",
				Description: "Filter discovered URLs by this search term",
			},
			schema.Field{
				Name: "ignoreSitemap", Type: schema.TypeBoolean, Default: false,
				Description: "Skip the sitemap.xml during discovery (default: false)",
			},
			schema.Field{
				Name: "sitemapOnly", Type: schema.TypeBoolean, Default: false,
				Description: "Only use the sitemap.xml, no link crawling (default: false)",
			},
			schema.Field{
				Name: "includeSubdomains", Type: schema.TypeBoolean, Default: false,
				Description: "Include URLs from subdomains (default: false)",
			},
			schema.Field{
				Name: "limit", Type: schema.TypeNumber, Default: float64(5000),
				Integer: true, Min: schema.Float(1), Max: schema.Float(30000),
				Description: "Maximum URLs to return (default: 5000)",
			},
		),
		Handler: handleMap(c),
	}
}

func newCrawlTool(c *client.Client, jobs *store.JobStore) *Tool {
	return &Tool{
		Name:        "crawl4ai_crawl",
		Description: "Start an asynchronous crawl of a website. Returns a job ID immediately; poll crawl4ai_check_crawl_status for progress and results.",
		Schema: schema.New(
			schema.Field{
				Name: "url", Type: schema.TypeString, Required: true, URL: true,
				Description: "Starting URL for the crawl",
			},
			schema.Field{
				Name: "excludePaths", Type: schema.TypeStringArray, Default: []string{},
				Description: "URL path patterns to exclude from the crawl",
			},
			schema.Field{
				Name: "includePaths", Type: schema.TypeStringArray, Default: []string{},
				Description: "Only crawl URL paths matching these patterns",
			},
			schema.Field{
				Name: "maxDepth", Type: schema.TypeNumber, Default: float64(2),
				Integer: true, Min: schema.Float(1), Max: schema.Float(50),
				Description: "Maximum link depth from the starting URL (default: 2)",
			},
			schema.Field{
				Name: "ignoreSitemap", Type: schema.TypeBoolean, Default: false,
				Description: "Skip the sitemap.xml when planning the crawl (default: false)",
			},
			schema.Field{
				Name: "limit", Type: schema.TypeNumber, Default: float64(100),
				Integer: true, Min: schema.Float(1), Max: schema.Float(10000),
				Description: "Maximum pages to crawl (default: 100)",
			},
			schema.Field{
				Name: "allowBackwardLinks", Type: schema.TypeBoolean, Default: false,
				Description: "Follow links that point above the starting path (default: false)",
			},
			schema.Field{
				Name: "allowExternalLinks", Type: schema.TypeBoolean, Default: false,
				Description: "Follow links to other domains (default: false)",
			},
			schema.Field{
				Name: "deduplicateSimilarURLs", Type: schema.TypeBoolean, Default: true,
				Description: "Collapse URLs that differ only in tracking parameters (default: true)",
			},
			schema.Field{
				Name: "webhook", Type: schema.TypeString, Default: "", URLIfSet: true,
				Description: "Optional URL to notify when the crawl completes",
			},
		),
		Handler: handleCrawl(c, jobs),
	}
}

func newCheckCrawlStatusTool(c *client.Client, jobs *store.JobStore) *Tool {
	return &Tool{
		Name:        "crawl4ai_check_crawl_status",
		Description: "Check the progress and results of a crawl started with crawl4ai_crawl.",
		Schema: schema.New(
			schema.Field{
				Name: "id", Type: schema.TypeString, Required: true, MinLen: 1,
				Description: "The crawl job ID returned by crawl4ai_crawl",
			},
		),
		Handler: handleCheckCrawlStatus(c, jobs),
	}
}

func newExtractTool(c *client.Client) *Tool {
	return &Tool{
		Name:        "crawl4ai_extract",
		Description: "Extract structured information from webpages using LLM analysis. Provide a prompt and/or a JSON schema describing the fields you want.",
		Schema: schema.New(
			schema.Field{
				Name: "urls", Type: schema.TypeStringArray, Required: true,
				MinItems: 1, ItemURL: true,
				Description: "URLs to extract from (each must be http or https)",
			},
			schema.Field{
				Name: "prompt", Type: schema.TypeString, Default: "",
				Description: "Natural-language description of what to extract",
			},
			schema.Field{
				Name: "systemPrompt", Type: schema.TypeString, Default: "",
				Description: "System prompt guiding the extraction model",
			},
			schema.Field{
				Name: "schema", Type: schema.TypeString, Default: "", JSON: true,
				Description: "JSON schema (as text) describing the expected output structure",
			},
			schema.Field{
				Name: "allowExternalLinks", Type: schema.TypeBoolean, Default: false,
				Description: "Allow extraction to follow links to other domains (default: false)",
			},
			schema.Field{
				Name: "enableWebSearch", Type: schema.TypeBoolean, Default: false,
				Description: "Let the extractor consult web search for context (default: false)",
			},
			schema.Field{
				Name: "includeSubdomains", Type: schema.TypeBoolean, Default: true,
				Description: "Include subdomain pages when following links (default: true)",
			},
			schema.Field{
				Name: "maxDepth", Type: schema.TypeNumber, Default: float64(1),
				Integer: true, Min: schema.Float(1), Max: schema.Float(10),
				Description: "Link depth to follow from each URL; only applies when allowExternalLinks is true (default: 1)",
			},
			schema.Field{
				Name: "outputFormat", Type: schema.TypeString, Default: "json",
				Enum:        []string{"json", "markdown"},
				Description: "Shape of the extraction result (default: json)",
			},
		),
		Handler: handleExtract(c),
	}
}

func newDeepResearchTool(c *client.Client) *Tool {
	return &Tool{
		Name:        "crawl4ai_deep_research",
		Description: "SLOW: Run multi-step web research on a question. Crawls, searches, and synthesizes sources into an analysis. Can take minutes.",
		Schema: schema.New(
			schema.Field{
				Name: "query", Type: schema.TypeString, Required: true, MinLen: 1,
				Description: "The research question",
			},
			schema.Field{
				Name: "maxDepth", Type: schema.TypeNumber, Default: float64(3),
				Integer: true, Min: schema.Float(1), Max: schema.Float(10),
				Description: "Maximum research iterations (default: 3)",
			},
			schema.Field{
				Name: "timeLimit", Type: schema.TypeNumber, Default: float64(120),
				Integer: true, Min: schema.Float(30), Max: schema.Float(300),
				Description: "Time budget in seconds (default: 120)",
			},
			schema.Field{
				Name: "maxUrls", Type: schema.TypeNumber, Default: float64(20),
				Integer: true, Min: schema.Float(1), Max: schema.Float(100),
				Description: "Maximum URLs to analyze (default: 20)",
			},
		),
		Handler: handleDeepResearch(c),
	}
}

func newSearchTool(c *client.Client) *Tool {
	return &Tool{
		Name:        "crawl4ai_search",
		Description: "Search the web and return results with titles and descriptions. Set scrapeResults to also fetch each result's content as markdown.",
		Schema: schema.New(
			schema.Field{
				Name: "query", Type: schema.TypeString, Required: true, MinLen: 1,
				Description: "The search query",
			},
			schema.Field{
				Name: "limit", Type: schema.TypeNumber, Default: float64(5),
				Integer: true, Min: schema.Float(1), Max: schema.Float(50),
				Description: "Maximum results to return (default: 5)",
			},
			schema.Field{
				Name: "lang", Type: schema.TypeString, Default: "en",
				Description: "Language code for results (default: en)",
			},
			schema.Field{
				Name: "country", Type: schema.TypeString, Default: "us",
				Description: "Country code for results (default: us)",
			},
			schema.Field{
				Name: "filter", Type: schema.TypeString, Default: "",
				Description: "Search operator filter, e.g. 'site:example.com'",
			},
			schema.Field{
				Name: "scrapeResults", Type: schema.TypeBoolean, Default: false,
				Description: "Also scrape each result to markdown (default: false)",
			},
		),
		Handler: handleSearch(c),
	}
}
