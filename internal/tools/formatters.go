package tools

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/crawl4ai/crawl4ai-mcp/internal/client"
	"github.com/crawl4ai/crawl4ai-mcp/internal/store"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// maxStatusPages caps how many crawled documents a status response inlines.
const maxStatusPages = 10

// formatDocument renders a scraped page in the requested formats.
func formatDocument(doc *client.Document, formats []string) string {
	var sb strings.Builder

	if doc.Metadata.Title != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", doc.Metadata.Title))
	}
	if doc.Metadata.SourceURL != "" {
		sb.WriteString(fmt.Sprintf("**Source:** %s\n\n", doc.Metadata.SourceURL))
	}

	for _, format := range formats {
		switch format {
		case "markdown":
			if doc.Markdown != "" {
				sb.WriteString(doc.Markdown)
				sb.WriteString("\n")
			}
		case "html":
			if doc.HTML != "" {
				sb.WriteString("```html\n" + doc.HTML + "\n```\n")
			}
		case "rawHtml":
			if doc.RawHTML != "" {
				sb.WriteString("```html\n" + doc.RawHTML + "\n```\n")
			}
		case "links":
			if len(doc.Links) > 0 {
				sb.WriteString(fmt.Sprintf("## Links (%d)\n\n", len(doc.Links)))
				for _, link := range doc.Links {
					sb.WriteString("- " + link + "\n")
				}
			}
		case "screenshot":
			if doc.Screenshot != "" {
				sb.WriteString(fmt.Sprintf("**Screenshot:** %s\n", doc.Screenshot))
			}
		}
	}

	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "No content returned for the requested formats."
	}
	return result
}

// formatLinkMap renders discovered URLs as a markdown list.
func formatLinkMap(target string, links []string) string {
	if len(links) == 0 {
		return fmt.Sprintf("No URLs discovered for %s.", target)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# URL Map: %s\n\n", target))
	sb.WriteString(fmt.Sprintf("Discovered **%d** URLs:\n\n", len(links)))
	for _, link := range links {
		sb.WriteString("- " + link + "\n")
	}
	return sb.String()
}

// formatCrawlStarted renders the acknowledgement for an accepted crawl job.
func formatCrawlStarted(job *client.CrawlJob, target string) string {
	var sb strings.Builder
	sb.WriteString("# Crawl Started\n\n")
	sb.WriteString(fmt.Sprintf("**Job ID:** `%s`\n", job.ID))
	sb.WriteString(fmt.Sprintf("**URL:** %s\n\n", target))
	sb.WriteString("The crawl runs asynchronously. Use `crawl4ai_check_crawl_status` with this job ID to check progress and fetch results.\n")
	return sb.String()
}

// formatCrawlStatus renders crawl progress, enriched with the stored job
// record when available.
func formatCrawlStatus(id string, status *client.CrawlStatus, record *store.CrawlJob) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Crawl Status: `%s`\n\n", id))
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Status | %s |\n", status.Status))
	sb.WriteString(fmt.Sprintf("| Progress | %d / %d pages |\n", status.Completed, status.Total))
	if status.CreditsUsed > 0 {
		sb.WriteString(fmt.Sprintf("| Credits used | %d |\n", status.CreditsUsed))
	}
	if !status.ExpiresAt.IsZero() {
		sb.WriteString(fmt.Sprintf("| Expires | %s |\n", status.ExpiresAt.Format(time.RFC3339)))
	}
	if record != nil {
		sb.WriteString(fmt.Sprintf("| Origin URL | %s |\n", record.URL))
		sb.WriteString(fmt.Sprintf("| Submitted | %s |\n", record.SubmittedAt.Format(time.RFC3339)))
	}
	sb.WriteString("\n")

	if len(status.Data) > 0 {
		sb.WriteString(fmt.Sprintf("## Crawled Pages (%d)\n\n", len(status.Data)))
		for i, doc := range status.Data {
			if i >= maxStatusPages {
				sb.WriteString(fmt.Sprintf("\n*… and %d more pages.*\n", len(status.Data)-maxStatusPages))
				break
			}
			title := doc.Metadata.Title
			if title == "" {
				title = doc.Metadata.SourceURL
			}
			sb.WriteString(fmt.Sprintf("- **%s** — %s\n", title, doc.Metadata.SourceURL))
		}
	}

	return sb.String()
}

// formatExtraction renders extracted data, either raw markdown or fenced JSON.
func formatExtraction(data json.RawMessage, outputFormat string) string {
	if len(data) == 0 {
		return "No data extracted."
	}

	if outputFormat == "markdown" {
		// Markdown output arrives as a JSON string.
		var text string
		if json.Unmarshal(data, &text) == nil && text != "" {
			return text
		}
	}

	var pretty map[string]any
	if json.Unmarshal(data, &pretty) == nil {
		if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			return fmt.Sprintf("```json\n%s\n```", string(out))
		}
	}
	return fmt.Sprintf("```json\n%s\n```", string(data))
}

// formatResearch renders a deep-research report with its sources.
func formatResearch(query string, result *client.ResearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Research: %s\n\n", query))

	if result.FinalAnalysis != "" {
		sb.WriteString(result.FinalAnalysis)
		sb.WriteString("\n\n")
	} else {
		sb.WriteString("*The research run produced no analysis.*\n\n")
	}

	if len(result.Sources) > 0 {
		sb.WriteString(fmt.Sprintf("## Sources (%d)\n\n", len(result.Sources)))
		for _, src := range result.Sources {
			if src.Title != "" {
				sb.WriteString(fmt.Sprintf("- [%s](%s)", src.Title, src.URL))
			} else {
				sb.WriteString("- " + src.URL)
			}
			if src.Description != "" {
				sb.WriteString(" — " + src.Description)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(result.Activities) > 0 {
		sb.WriteString(fmt.Sprintf("*Research performed %d steps.*\n", len(result.Activities)))
	}

	return sb.String()
}

// formatSearchResults renders web search hits as a numbered list.
func formatSearchResults(query string, results []client.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for %q.", query)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Search Results: %s\n\n", query))
	for i, res := range results {
		title := res.Title
		if title == "" {
			title = res.URL
		}
		sb.WriteString(fmt.Sprintf("%d. **%s**\n   %s\n", i+1, title, res.URL))
		if res.Description != "" {
			sb.WriteString("   " + res.Description + "\n")
		}
		if res.Markdown != "" {
			sb.WriteString("\n" + res.Markdown + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
