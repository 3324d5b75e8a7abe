// Package mcp is the protocol facade. It wraps the MCP SDK server,
// registers the two grounded tools with their inferred schemas, the
// four static prompt templates and the server resources, and runs the
// protocol loop over a transport. No data transformation happens here;
// all of that lives in the adapter.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gemini-search-mcp/internal/adapter"
)

// Server wraps the MCP SDK server and the tool adapter.
type Server struct {
	mcpServer *mcp.Server
	adapter   *adapter.Adapter
	logger    *slog.Logger
	name      string
	version   string
	model     string
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string

	// Model is reported in the status and capabilities resources.
	Model string

	Adapter *adapter.Adapter
	Logger  *slog.Logger
}

// NewServer creates the MCP server and registers tools, prompts and
// resources.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Adapter == nil {
		return nil, fmt.Errorf("adapter is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		adapter:   cfg.Adapter,
		logger:    cfg.Logger,
		name:      cfg.Name,
		version:   cfg.Version,
		model:     cfg.Model,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	s.registerPrompts()
	if err := s.registerResources(); err != nil {
		return nil, fmt.Errorf("registering resources: %w", err)
	}

	return s, nil
}

// Run starts the server on the given transport. It blocks, handling
// all protocol communication until the client disconnects or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// SearchInput defines the input schema for the search tool.
type SearchInput struct {
	Topic string `json:"topic" jsonschema:"What to search for. Can be a question or topic."`
}

// AnalyzeURLInput defines the input schema for the analyze_url tool.
type AnalyzeURLInput struct {
	URL      string `json:"url" jsonschema:"The URL of the webpage to analyze"`
	Question string `json:"question,omitempty" jsonschema:"Optional specific question about the URL content"`
}

// registerTools registers the two adapter tools on the MCP server.
func (s *Server) registerTools() error {
	searchSchema, err := jsonschema.For[SearchInput](nil)
	if err != nil {
		return fmt.Errorf("schema for search: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "search",
		Description: "Search the web with Gemini and Google Search grounding. " +
			"Returns a cited, summarized answer and fetches full page content when needed. " +
			"Do NOT use this for analyzing a specific known URL; use analyze_url instead.",
		InputSchema: searchSchema,
	}, s.handleSearch)

	analyzeSchema, err := jsonschema.For[AnalyzeURLInput](nil)
	if err != nil {
		return fmt.Errorf("schema for analyze_url: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "analyze_url",
		Description: "Deeply analyze the content of a specific webpage. " +
			"Goes beyond search snippets by ingesting the complete page. " +
			"Do NOT use this for general web search; use search instead.",
		InputSchema: analyzeSchema,
	}, s.handleAnalyzeURL)

	return nil
}

// handleSearch handles the search MCP tool call.
func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, any, error) {
	text, err := s.adapter.Search(ctx, in.Topic)
	if err != nil {
		return toolErrorResult(err)
	}
	return textResult(text), nil, nil
}

// handleAnalyzeURL handles the analyze_url MCP tool call.
func (s *Server) handleAnalyzeURL(ctx context.Context, _ *mcp.CallToolRequest, in AnalyzeURLInput) (*mcp.CallToolResult, any, error) {
	text, err := s.adapter.AnalyzeURL(ctx, in.URL, in.Question)
	if err != nil {
		return toolErrorResult(err)
	}
	return textResult(text), nil, nil
}

// toolErrorResult renders a ToolError as a failed tool result so the
// session stays healthy. Anything else (e.g. cancellation) propagates
// to the protocol layer.
func toolErrorResult(err error) (*mcp.CallToolResult, any, error) {
	var toolErr *adapter.ToolError
	if errors.As(err, &toolErr) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + toolErr.Message}},
			IsError: true,
		}, nil, nil
	}
	return nil, nil, err
}

// textResult builds a successful single-text-block result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
