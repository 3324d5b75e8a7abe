package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	statusResourceURI       = "gemini-search://status"
	capabilitiesResourceURI = "gemini-search://capabilities"
)

// capabilities is the static JSON document served at the capabilities
// resource URI.
type capabilities struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Model     string   `json:"model"`
	Tools     []string `json:"tools"`
	Prompts   []string `json:"prompts"`
	Grounding []string `json:"grounding"`
}

// registerResources registers the read-only status and capabilities
// resources. Their content is computed once here, not per read.
func (s *Server) registerResources() error {
	statusText := fmt.Sprintf("%s %s\nmodel: %s\nstatus: ok", s.name, s.version, s.model)
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         statusResourceURI,
		Name:        "server-status",
		Description: "Server version and status",
		MIMEType:    "text/plain",
	}, staticResource(statusResourceURI, "text/plain", statusText))

	var promptNames []string
	for _, pt := range promptTemplates() {
		promptNames = append(promptNames, pt.prompt.Name)
	}
	capsJSON, err := json.MarshalIndent(capabilities{
		Name:      s.name,
		Version:   s.version,
		Model:     s.model,
		Tools:     []string{"search", "analyze_url"},
		Prompts:   promptNames,
		Grounding: []string{"google_search", "url_context"},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling capabilities: %w", err)
	}
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         capabilitiesResourceURI,
		Name:        "server-capabilities",
		Description: "Capabilities document: tools, prompts and grounding modes",
		MIMEType:    "application/json",
	}, staticResource(capabilitiesResourceURI, "application/json", string(capsJSON)))

	return nil
}

// staticResource returns a handler serving fixed text.
func staticResource(uri, mimeType, text string) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: uri, MIMEType: mimeType, Text: text},
			},
		}, nil
	}
}
