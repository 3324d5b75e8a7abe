// Package cmd wires configuration, the Gemini client, the tool adapter
// and the MCP server into a runnable stdio process.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"gemini-search-mcp/internal/adapter"
	"gemini-search-mcp/internal/config"
	"gemini-search-mcp/internal/gemini"
	"gemini-search-mcp/internal/log"
	"gemini-search-mcp/internal/mcp"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "0.1.0"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

const serverName = "gemini-search"

// Execute is the entry point called from main. It handles version/help
// flags, then starts the stdio MCP server.
func Execute() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			printVersion()
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		}
	}

	logger := initLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			printAPIKeyHelp()
		}
		return fmt.Errorf("loading configuration: %w", err)
	}

	return runServer(cfg, logger)
}

// runServer builds the pipeline and blocks on the stdio transport until
// the client disconnects or the process receives SIGINT/SIGTERM.
func runServer(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := gemini.NewClient(ctx, cfg, logger.With("component", "gemini"))
	if err != nil {
		return fmt.Errorf("initializing gemini client: %w", err)
	}

	tools, err := adapter.New(client, logger.With("component", "adapter"))
	if err != nil {
		return fmt.Errorf("initializing tool adapter: %w", err)
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:    serverName,
		Version: AppVersion,
		Model:   cfg.Model,
		Adapter: tools,
		Logger:  logger.With("component", "mcp"),
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	logger.Info("MCP server ready",
		"name", serverName,
		"version", AppVersion,
		"model", cfg.Model,
		"transport", "stdio",
	)

	if err := server.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	logger.Info("MCP server shut down gracefully")
	return nil
}

// initLogger creates the process logger. DEBUG enables debug level.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level})
}

func printVersion() {
	fmt.Printf("%s v%s\n", serverName, AppVersion)
	fmt.Printf("Build: %s\n", BuildTime)
	fmt.Printf("Commit: %s\n", GitCommit)
}

func printHelp() {
	fmt.Printf(`%s - web search and URL analysis MCP server backed by Gemini

Usage:
  %s            start the stdio MCP server
  %s version    print version information
  %s help       show this help

Environment:
  GEMINI_API_KEY           Gemini API key (required)
  GEMINI_MODEL             model identifier (default %s)
  GEMINI_TIMEOUT_SECONDS   per-request timeout (default %d)
  DEBUG                    enable debug logging
`, serverName, serverName, serverName, serverName, config.DefaultModel, config.DefaultTimeoutSeconds)
}

// printAPIKeyHelp prints setup instructions when the credential is
// missing, before the error itself is reported.
func printAPIKeyHelp() {
	fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable not set")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "The server requires a Gemini API key to function.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "To set your API key:")
	fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=your-api-key")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Get your API key at: https://ai.google.dev/")
}
