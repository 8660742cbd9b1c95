package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/crawl4ai/crawl4ai-mcp/internal/client"
	"github.com/crawl4ai/crawl4ai-mcp/internal/schema"
	"github.com/crawl4ai/crawl4ai-mcp/internal/store"
)

// Handlers receive validated, default-filled parameters and translate them
// into crawl4ai API calls. Errors propagate freely; Dispatch normalizes them.

func handleScrape(c *client.Client) HandlerFunc {
	return func(ctx context.Context, args schema.Params) (*mcp.CallToolResult, error) {
		formats := args.StringSlice("formats")
		doc, err := c.Scrape(ctx, client.ScrapeRequest{
			URL:             args.String("url"),
			Formats:         formats,
			OnlyMainContent: args.Bool("onlyMainContent"),
			IncludeTags:     args.StringSlice("includeTags"),
			ExcludeTags:     args.StringSlice("excludeTags"),
			WaitFor:         args.Int("waitFor"),
			Timeout:         args.Int("timeout"),
			Mobile:          args.Bool("mobile"),
		})
		if err != nil {
			return nil, err
		}
		return textResult(formatDocument(doc, formats)), nil
	}
}

func handleMap(c *client.Client) HandlerFunc {
	return func(ctx context.Context, args schema.Params) (*mcp.CallToolResult, error) {
		target := args.String("url")
		links, err := c.MapURL(ctx, client.MapRequest{
			URL:               target,
			Search:            args.String("search"),
			IgnoreSitemap:     args.Bool("ignoreSitemap"),
			SitemapOnly:       args.Bool("sitemapOnly"),
			IncludeSubdomains: args.Bool("includeSubdomains"),
			Limit:             args.Int("limit"),
		})
		if err != nil {
			return nil, err
		}
		return textResult(formatLinkMap(target, links)), nil
	}
}

func handleCrawl(c *client.Client, jobs *store.JobStore) HandlerFunc {
	return func(ctx context.Context, args schema.Params) (*mcp.CallToolResult, error) {
		target := args.String("url")
		job, err := c.StartCrawl(ctx, client.CrawlRequest{
			URL:                    target,
			ExcludePaths:           args.StringSlice("excludePaths"),
			IncludePaths:           args.StringSlice("includePaths"),
			MaxDepth:               args.Int("maxDepth"),
			IgnoreSitemap:          args.Bool("ignoreSitemap"),
			Limit:                  args.Int("limit"),
			AllowBackwardLinks:     args.Bool("allowBackwardLinks"),
			AllowExternalLinks:     args.Bool("allowExternalLinks"),
			DeduplicateSimilarURLs: args.Bool("deduplicateSimilarURLs"),
			Webhook:                args.String("webhook"),
		})
		if err != nil {
			return nil, err
		}

		if jobs != nil && job.ID != "" {
			// Job tracking is best-effort; a store failure must not fail the crawl.
			_ = jobs.Put(store.CrawlJob{ID: job.ID, URL: target, SubmittedAt: timeNow()})
		}

		return textResult(formatCrawlStarted(job, target)), nil
	}
}

func handleCheckCrawlStatus(c *client.Client, jobs *store.JobStore) HandlerFunc {
	return func(ctx context.Context, args schema.Params) (*mcp.CallToolResult, error) {
		id := args.String("id")
		status, err := c.GetCrawlStatus(ctx, id)
		if err != nil {
			return nil, err
		}

		var record *store.CrawlJob
		if jobs != nil {
			if job, ok, err := jobs.Get(id); err == nil && ok {
				record = job
			}
		}

		return textResult(formatCrawlStatus(id, status, record)), nil
	}
}

func handleExtract(c *client.Client) HandlerFunc {
	return func(ctx context.Context, args schema.Params) (*mcp.CallToolResult, error) {
		req := client.ExtractRequest{
			URLs:               args.StringSlice("urls"),
			Prompt:             args.String("prompt"),
			SystemPrompt:       args.String("systemPrompt"),
			AllowExternalLinks: args.Bool("allowExternalLinks"),
			EnableWebSearch:    args.Bool("enableWebSearch"),
			IncludeSubdomains:  args.Bool("includeSubdomains"),
			MaxDepth:           args.Int("maxDepth"),
			OutputFormat:       args.String("outputFormat"),
		}
		if s := args.String("schema"); s != "" {
			req.Schema = json.RawMessage(s)
		}

		data, err := c.Extract(ctx, req)
		if err != nil {
			return nil, err
		}
		return textResult(formatExtraction(data, req.OutputFormat)), nil
	}
}

func handleDeepResearch(c *client.Client) HandlerFunc {
	return func(ctx context.Context, args schema.Params) (*mcp.CallToolResult, error) {
		result, err := c.DeepResearch(ctx, client.DeepResearchRequest{
			Query:     args.String("query"),
			MaxDepth:  args.Int("maxDepth"),
			TimeLimit: args.Int("timeLimit"),
			MaxURLs:   args.Int("maxUrls"),
		})
		if err != nil {
			return nil, err
		}
		return textResult(formatResearch(args.String("query"), result)), nil
	}
}

func handleSearch(c *client.Client) HandlerFunc {
	return func(ctx context.Context, args schema.Params) (*mcp.CallToolResult, error) {
		query := args.String("query")
		results, err := c.Search(ctx, client.SearchRequest{
			Query:         query,
			Limit:         args.Int("limit"),
			Lang:          args.String("lang"),
			Country:       args.String("country"),
			Filter:        args.String("filter"),
			ScrapeResults: args.Bool("scrapeResults"),
		})
		if err != nil {
			return nil, err
		}
		return textResult(formatSearchResults(query, results)), nil
	}
}
