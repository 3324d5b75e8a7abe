// Package gemini owns the outbound connection to the Gemini API.
//
// Client issues exactly one grounded GenerateContent call per request
// and converts the SDK response into a validated local snapshot
// (Response) so the rest of the pipeline never touches the SDK's nested
// optional fields. Failures are classified into Error kinds; no retries
// happen at this layer.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"gemini-search-mcp/internal/config"
)

// Mode selects the grounding configuration for a generation request.
type Mode int

const (
	// ModeWebSearch enables Google Search grounding. URL context stays
	// on as well so search answers can ingest full pages, not just
	// snippets.
	ModeWebSearch Mode = iota + 1

	// ModeURLContext enables URL-context grounding only: the model
	// fetches and reads the page itself.
	ModeURLContext
)

// String returns the mode name for logging.
func (m Mode) String() string {
	switch m {
	case ModeWebSearch:
		return "web_search"
	case ModeURLContext:
		return "url_context"
	default:
		return "unknown"
	}
}

// Request is a single grounded generation request. Immutable after
// construction.
type Request struct {
	Prompt string
	Mode   Mode
}

// Chunk is one grounding source reference, in provider order.
type Chunk struct {
	URI   string
	Title string
}

// Retrieval reports the url_context fetch status for one URL.
type Retrieval struct {
	URL    string
	Status string
}

// retrievalSuccess is the status the API reports for a fetched page.
const retrievalSuccess = "URL_RETRIEVAL_STATUS_SUCCESS"

// OK reports whether the provider managed to fetch the URL.
func (r Retrieval) OK() bool {
	return r.Status == retrievalSuccess
}

// Response is the validated snapshot of a provider response. Owned by
// the call that produced it; not retained after formatting.
type Response struct {
	// Text is the concatenation of all text parts in provider order,
	// whitespace preserved.
	Text string

	// Chunks are the grounding chunks with a usable web reference, in
	// provider order. May be empty: zero sources is a valid outcome.
	Chunks []Chunk

	// Retrievals carries url_context retrieval statuses when present.
	Retrievals []Retrieval
}

// Client wraps the Gemini SDK client with a fixed model and timeout.
// Safe for concurrent use; it holds no per-request state.
type Client struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewClient creates a Gemini client from the loaded configuration.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		// The HTTP client timeout bounds every call so a slow request
		// cannot hang an invocation indefinitely.
		HTTPClient: &http.Client{Timeout: cfg.Timeout()},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Client{client: gc, model: cfg.Model, logger: logger}, nil
}

// Generate issues exactly one GenerateContent call with the request's
// grounding configuration. No retries: retry policy, if any, belongs to
// the caller.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, &Error{Kind: KindInvalidArgument, Message: "empty prompt"}
	}

	genCfg, err := generationConfig(req.Mode)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return nil, classify(err)
	}

	snap := snapshot(resp)
	c.logger.Debug("generate content",
		"model", c.model,
		"mode", req.Mode,
		"chunks", len(snap.Chunks),
		"elapsed", time.Since(start),
	)
	return snap, nil
}

// generationConfig maps a grounding mode to the built-in tool set.
func generationConfig(mode Mode) (*genai.GenerateContentConfig, error) {
	switch mode {
	case ModeWebSearch:
		return &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
				{URLContext: &genai.URLContext{}},
			},
		}, nil
	case ModeURLContext:
		return &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{URLContext: &genai.URLContext{}},
			},
		}, nil
	default:
		return nil, &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf("unknown grounding mode %d", mode)}
	}
}

// snapshot flattens the SDK response into the local shape. Only the
// first candidate is considered; the server never requests more.
func snapshot(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}
	if resp == nil || len(resp.Candidates) == 0 {
		return out
	}
	cand := resp.Candidates[0]
	if cand == nil {
		return out
	}

	if cand.Content != nil {
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		out.Text = sb.String()
	}

	if gm := cand.GroundingMetadata; gm != nil {
		for _, chunk := range gm.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			out.Chunks = append(out.Chunks, Chunk{URI: chunk.Web.URI, Title: chunk.Web.Title})
		}
	}

	if um := cand.URLContextMetadata; um != nil {
		for _, m := range um.URLMetadata {
			if m == nil {
				continue
			}
			out.Retrievals = append(out.Retrievals, Retrieval{
				URL:    m.RetrievedURL,
				Status: string(m.URLRetrievalStatus),
			})
		}
	}

	return out
}
