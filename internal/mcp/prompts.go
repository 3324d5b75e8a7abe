package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// promptTemplate is a static prompt declaration: a named template whose
// expansion is an instruction string that triggers one of the tools
// when executed by the assistant. The set is fixed at startup.
type promptTemplate struct {
	prompt *mcp.Prompt
	expand func(args map[string]string) (string, error)
}

// requireArg fetches a required prompt argument.
func requireArg(args map[string]string, name string) (string, error) {
	v := strings.TrimSpace(args[name])
	if v == "" {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	return v, nil
}

// promptTemplates builds the read-only template set.
func promptTemplates() []promptTemplate {
	return []promptTemplate{
		{
			prompt: &mcp.Prompt{
				Name:        "web-search",
				Description: "Search the web for current information about a topic",
				Arguments: []*mcp.PromptArgument{
					{Name: "topic", Description: "What to search for", Required: true},
				},
			},
			expand: func(args map[string]string) (string, error) {
				topic, err := requireArg(args, "topic")
				if err != nil {
					return "", err
				}
				return fmt.Sprintf(
					"Use the search tool to find current information about: %s\n\n"+
						"Summarize the findings and keep the cited sources in your answer.",
					topic), nil
			},
		},
		{
			prompt: &mcp.Prompt{
				Name:        "analyze-documentation",
				Description: "Analyze a documentation page in depth",
				Arguments: []*mcp.PromptArgument{
					{Name: "url", Description: "The documentation URL to analyze", Required: true},
					{Name: "focus", Description: "Optional aspect to focus on"},
				},
			},
			expand: func(args map[string]string) (string, error) {
				u, err := requireArg(args, "url")
				if err != nil {
					return "", err
				}
				text := fmt.Sprintf(
					"Use the analyze_url tool on %s and explain the key concepts, "+
						"APIs and examples the page documents.", u)
				if focus := strings.TrimSpace(args["focus"]); focus != "" {
					text += fmt.Sprintf(" Focus on: %s.", focus)
				}
				return text, nil
			},
		},
		{
			prompt: &mcp.Prompt{
				Name:        "research-topic",
				Description: "Research a topic with one or more grounded searches",
				Arguments: []*mcp.PromptArgument{
					{Name: "topic", Description: "The topic to research", Required: true},
					{Name: "depth", Description: "Optional depth: brief or detailed"},
				},
			},
			expand: func(args map[string]string) (string, error) {
				topic, err := requireArg(args, "topic")
				if err != nil {
					return "", err
				}
				if strings.TrimSpace(args["depth"]) == "detailed" {
					return fmt.Sprintf(
						"Research %s using the search tool. Run additional searches for "+
							"important subtopics you discover, then write a detailed report "+
							"with all sources listed.", topic), nil
				}
				return fmt.Sprintf(
					"Research %s using the search tool and give a brief overview "+
						"with sources.", topic), nil
			},
		},
		{
			prompt: &mcp.Prompt{
				Name:        "compare-technologies",
				Description: "Compare two technologies using current web information",
				Arguments: []*mcp.PromptArgument{
					{Name: "first", Description: "First technology", Required: true},
					{Name: "second", Description: "Second technology", Required: true},
					{Name: "criteria", Description: "Optional comparison criteria"},
				},
			},
			expand: func(args map[string]string) (string, error) {
				first, err := requireArg(args, "first")
				if err != nil {
					return "", err
				}
				second, err := requireArg(args, "second")
				if err != nil {
					return "", err
				}
				text := fmt.Sprintf(
					"Use the search tool to gather current information about %s and %s, "+
						"then compare them.", first, second)
				if criteria := strings.TrimSpace(args["criteria"]); criteria != "" {
					text += fmt.Sprintf(" Compare along: %s.", criteria)
				}
				return text + " Cite the sources for every claim.", nil
			},
		},
	}
}

// registerPrompts registers the static prompt templates.
func (s *Server) registerPrompts() {
	for _, pt := range promptTemplates() {
		s.mcpServer.AddPrompt(pt.prompt, promptHandler(pt))
	}
}

// promptHandler adapts a template to the SDK handler signature.
func promptHandler(pt promptTemplate) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := map[string]string{}
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		text, err := pt.expand(args)
		if err != nil {
			return nil, err
		}
		return &mcp.GetPromptResult{
			Description: pt.prompt.Description,
			Messages: []*mcp.PromptMessage{
				{Role: "user", Content: &mcp.TextContent{Text: text}},
			},
		}, nil
	}
}
