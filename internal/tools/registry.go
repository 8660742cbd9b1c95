// Package tools implements the tool registry and dispatch layer of the
// crawl4ai MCP server: declarative parameter schemas per tool, a uniform
// error-handling wrapper, and handlers that translate validated parameters
// into crawl4ai API calls.
package tools

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/crawl4ai/crawl4ai-mcp/internal/client"
	"github.com/crawl4ai/crawl4ai-mcp/internal/common"
	"github.com/crawl4ai/crawl4ai-mcp/internal/schema"
)

// HandlerFunc consumes validated parameters and produces a tool result.
// A handler may return an error freely; Dispatch converts every failure into
// a well-formed error response.
type HandlerFunc func(ctx context.Context, args schema.Params) (*mcp.CallToolResult, error)

// Tool binds a name, description, parameter schema, and handler.
type Tool struct {
	Name        string
	Description string
	Schema      *schema.Schema
	Handler     HandlerFunc
}

// Registry owns the set of registered tools for the lifetime of a server
// instance. It is populated once at startup and read-only afterwards, so
// concurrent dispatches need no locking.
type Registry struct {
	logger     *common.Logger
	production bool
	tools      map[string]*Tool
	names      []string
}

// NewRegistry creates an empty registry. Production mode reduces the detail
// logged on failure paths (kind and message only, no arguments or traces).
func NewRegistry(logger *common.Logger, production bool) *Registry {
	return &Registry{
		logger:     logger,
		production: production,
		tools:      make(map[string]*Tool),
	}
}

// Register adds a tool. Names must be unique across the registry.
func (r *Registry) Register(t *Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if t.Schema == nil || t.Handler == nil {
		return fmt.Errorf("tool %q is missing a schema or handler", t.Name)
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %q is already registered", t.Name)
	}
	r.tools[t.Name] = t
	r.names = append(r.names, t.Name)
	return nil
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Dispatch routes a tool invocation: lookup, schema validation, then the
// wrapped handler. It always returns a well-formed result with non-empty
// content; no failure propagates past this boundary.
func (r *Registry) Dispatch(ctx context.Context, name string, raw map[string]any) *mcp.CallToolResult {
	logger := r.logger.WithCorrelationId(uuid.NewString())

	tool, ok := r.tools[name]
	if !ok {
		logger.Warn().Str("tool", name).Msg("tool not found")
		return errorResult(fmt.Sprintf("Error: tool not found: %s", name))
	}

	args, err := tool.Schema.Validate(raw)
	if err != nil {
		r.logFailure(logger, name, err, raw)
		return errorResult(fmt.Sprintf("Error: invalid parameters for %s: %v", name, err))
	}

	result, err := r.run(ctx, tool, args)
	if err != nil {
		r.logFailure(logger, name, err, raw)
		return errorResult(fmt.Sprintf("Error: %v", err))
	}
	if result == nil || len(result.Content) == 0 {
		r.logFailure(logger, name, fmt.Errorf("handler returned an empty result"), raw)
		return errorResult(fmt.Sprintf("Error: %s produced no content", name))
	}
	return result
}

// run executes a handler, converting panics into ordinary errors so a single
// bad invocation can never take the server down.
func (r *Registry) run(ctx context.Context, tool *Tool, args schema.Params) (result *mcp.CallToolResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if !r.production {
				r.logger.Error().
					Str("tool", tool.Name).
					Str("panic", fmt.Sprint(rec)).
					Str("stack", string(debug.Stack())).
					Msg("tool handler panicked")
			}
			result = nil
			err = fmt.Errorf("internal error in %s: %v", tool.Name, rec)
		}
	}()
	return tool.Handler(ctx, args)
}

// logFailure emits a diagnostic log entry. Outside production the entry
// carries the raw arguments and full error; in production only the failure
// kind and message are recorded.
func (r *Registry) logFailure(logger *common.Logger, name string, err error, raw map[string]any) {
	kind := classify(err)
	if r.production {
		logger.Warn().
			Str("tool", name).
			Str("kind", kind).
			Str("error", err.Error()).
			Msg("tool invocation failed")
		return
	}
	logger.Error().
		Str("tool", name).
		Str("kind", kind).
		Str("args", fmt.Sprintf("%v", raw)).
		Err(err).
		Msg("tool invocation failed")
}

// classify buckets a failure for logging: validation, backend, or internal.
func classify(err error) string {
	var verrs schema.ValidationErrors
	if errors.As(err, &verrs) {
		return "validation"
	}
	var transportErr *client.TransportError
	var apiErr *client.APIError
	var decodeErr *client.DecodeError
	if errors.As(err, &transportErr) || errors.As(err, &apiErr) || errors.As(err, &decodeErr) {
		return "backend"
	}
	return "internal"
}

// Attach registers every tool on the MCP server, routing each call through
// Dispatch so the wrapper applies uniformly.
func (r *Registry) Attach(s *server.MCPServer) {
	for _, name := range r.names {
		tool := r.tools[name]
		opts := append([]mcp.ToolOption{mcp.WithDescription(tool.Description)}, tool.Schema.ToolOptions()...)
		mcpTool := mcp.NewTool(tool.Name, opts...)

		toolName := name
		s.AddTool(mcpTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return r.Dispatch(ctx, toolName, req.GetArguments()), nil
		})
	}
}

// textResult wraps text in a single-content tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// errorResult wraps an error message in a tool result flagged as an error.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
