package config

import "github.com/crawl4ai/crawl4ai-mcp/internal/common"

// DefaultAPIURL is the public crawl4ai API endpoint used when no
// endpoint is configured.
const DefaultAPIURL = "https://api.crawl4ai.com"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Name: "Crawl4AI-MCP",
			Port: "4270",
		},
		API: APIConfig{
			URL: DefaultAPIURL,
		},
		Storage: StorageConfig{
			Path: "",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/crawl4ai-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
