package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/crawl4ai/crawl4ai-mcp/internal/client"
	"github.com/crawl4ai/crawl4ai-mcp/internal/common"
	"github.com/crawl4ai/crawl4ai-mcp/internal/config"
	"github.com/crawl4ai/crawl4ai-mcp/internal/store"
	"github.com/crawl4ai/crawl4ai-mcp/internal/tools"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "crawl4ai-mcp.toml", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadFromFile(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	common.LoadVersionFromFile()

	logger := common.NewLoggerFromConfig(cfg.Logging)

	apiClient := client.New(logger)
	apiClient.Configure(cfg.API.Key, cfg.API.URL)

	// The job store is optional: a missing path disables it, and an open
	// failure degrades to serving without job tracking.
	var jobs *store.JobStore
	if cfg.Storage.Path != "" {
		jobs, err = store.Open(cfg.Storage.Path, logger)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.Storage.Path).Msg("crawl job store unavailable, continuing without it")
			jobs = nil
		} else {
			defer jobs.Close()
		}
	}

	registry := tools.NewRegistry(logger, cfg.IsProduction())
	if err := tools.RegisterAll(registry, apiClient, jobs); err != nil {
		log.Fatalf("Failed to register tools: %v", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)
	registry.Attach(mcpServer)

	logger.Info().
		Int("tools", len(registry.Names())).
		Str("api_url", cfg.API.URL).
		Str("environment", cfg.Environment).
		Msg("crawl4ai MCP server initialized")

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Streamable HTTP transport — listens on configured port
	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", cfg.Server.Port)

	if err := httpServer.Start(":" + cfg.Server.Port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
