// Package adapter is the core dispatcher between tool invocations and
// grounded Gemini generation.
//
// For each tool it validates arguments, builds the provider request
// (prompt plus grounding mode), issues exactly one provider call, runs
// the grounding extractor over the result and assembles the formatted
// text block. Every failure is converted to a ToolError before crossing
// the tool boundary; nothing here crashes the process.
package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"gemini-search-mcp/internal/gemini"
	"gemini-search-mcp/internal/grounding"
	"gemini-search-mcp/internal/security"
)

// Generator issues a single grounded generation request.
// *gemini.Client satisfies it; tests substitute a recording fake.
type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (*gemini.Response, error)
}

// Adapter holds the generator and logger shared by all invocations.
// It keeps no per-request state, so concurrent invocations are
// independent.
type Adapter struct {
	gen    Generator
	logger *slog.Logger
}

// New creates a tool adapter.
func New(gen Generator, logger *slog.Logger) (*Adapter, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{gen: gen, logger: logger}, nil
}

const (
	searchPromptFormat = "Answer the following using current information from the web. Cite your sources.\n\n%s"

	analyzePromptDefault = "Analyze and summarize the content of this page."

	noSearchResultsText = "No results found for the query."
)

// Search answers a topic using web-search grounding and returns the
// formatted answer with a numbered Sources block.
func (a *Adapter) Search(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", invalidArgument("topic is required and cannot be empty")
	}

	logger := a.logger.With("tool", "search", "request_id", uuid.NewString())
	logger.Info("search", "topic", topic)

	resp, err := a.gen.Generate(ctx, gemini.Request{
		Prompt: fmt.Sprintf(searchPromptFormat, topic),
		Mode:   gemini.ModeWebSearch,
	})
	if err != nil {
		logger.Warn("search failed", "error", err)
		return "", wrapProviderError(err)
	}

	text, cites := grounding.Extract(resp)
	if text == "" && len(cites) == 0 {
		text = noSearchResultsText
	}
	logger.Debug("search complete", "citations", len(cites))
	return grounding.FormatResult(text, cites), nil
}

// AnalyzeURL has the model fetch and analyze a single page via
// URL-context grounding. question optionally steers the analysis.
func (a *Adapter) AnalyzeURL(ctx context.Context, rawURL, question string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	question = strings.TrimSpace(question)

	if rawURL == "" {
		return "", invalidArgument("url is required and cannot be empty")
	}
	if err := security.ValidateURL(rawURL); err != nil {
		return "", invalidArgument("invalid URL %q: %v", rawURL, err)
	}

	logger := a.logger.With("tool", "analyze_url", "request_id", uuid.NewString())
	logger.Info("analyze_url", "url", rawURL)

	instruction := analyzePromptDefault
	if question != "" {
		instruction = question
	}

	resp, err := a.gen.Generate(ctx, gemini.Request{
		Prompt: instruction + "\n\nURL: " + rawURL,
		Mode:   gemini.ModeURLContext,
	})
	if err != nil {
		logger.Warn("analyze_url failed", "error", err)
		return "", wrapProviderError(err)
	}

	for _, r := range resp.Retrievals {
		if !r.OK() {
			logger.Warn("url retrieval not successful", "url", r.URL, "status", r.Status)
		}
	}

	text, cites := grounding.Extract(resp)
	if text == "" && len(cites) == 0 {
		// The model layer owns page retrieval; an empty result is a
		// valid outcome, not a fetch error.
		text = fmt.Sprintf("No content could be retrieved from %s.", rawURL)
	}
	logger.Debug("analyze_url complete", "citations", len(cites))
	return grounding.FormatResult(text, cites), nil
}
