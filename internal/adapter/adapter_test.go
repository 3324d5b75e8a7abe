package adapter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemini-search-mcp/internal/gemini"
	"gemini-search-mcp/internal/log"
)

// fakeGenerator records every request and plays back a canned response
// or error.
type fakeGenerator struct {
	requests []gemini.Request
	resp     *gemini.Response
	err      error
}

func (f *fakeGenerator) Generate(ctx context.Context, req gemini.Request) (*gemini.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &gemini.Response{Text: "ok"}, nil
}

func newTestAdapter(t *testing.T, gen Generator) *Adapter {
	t.Helper()
	a, err := New(gen, log.NewNop())
	require.NoError(t, err)
	return a
}

func TestNew_RequiresGenerator(t *testing.T) {
	_, err := New(nil, log.NewNop())
	require.Error(t, err)
}

func TestSearch_CallsProviderExactlyOnce(t *testing.T) {
	gen := &fakeGenerator{resp: &gemini.Response{Text: "answer"}}
	a := newTestAdapter(t, gen)

	_, err := a.Search(context.Background(), "gold price")

	require.NoError(t, err)
	require.Len(t, gen.requests, 1)
	assert.Equal(t, gemini.ModeWebSearch, gen.requests[0].Mode)
	assert.Contains(t, gen.requests[0].Prompt, "gold price")
}

func TestSearch_EmptyTopicNoNetworkCall(t *testing.T) {
	for _, topic := range []string{"", "   ", "\t\n"} {
		gen := &fakeGenerator{}
		a := newTestAdapter(t, gen)

		_, err := a.Search(context.Background(), topic)

		var toolErr *ToolError
		require.ErrorAs(t, err, &toolErr)
		assert.Equal(t, ErrInvalidArgument, toolErr.Kind)
		assert.Empty(t, gen.requests, "no provider call for topic %q", topic)
	}
}

func TestSearch_EndToEndWithSyntheticTitles(t *testing.T) {
	gen := &fakeGenerator{resp: &gemini.Response{
		Text: "Gold is $X/oz",
		Chunks: []gemini.Chunk{
			{URI: "https://site-a.example"},
			{URI: "https://site-b.example"},
		},
	}}
	a := newTestAdapter(t, gen)

	out, err := a.Search(context.Background(), "current price of gold")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Gold is $X/oz"))
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "1. site-a.example — https://site-a.example")
	assert.Contains(t, out, "2. site-b.example — https://site-b.example")
}

func TestSearch_NoSourcesOmitsSourcesBlock(t *testing.T) {
	gen := &fakeGenerator{resp: &gemini.Response{Text: "answer without grounding"}}
	a := newTestAdapter(t, gen)

	out, err := a.Search(context.Background(), "something")

	require.NoError(t, err)
	assert.Equal(t, "answer without grounding", out)
	assert.NotContains(t, out, "Sources")
}

func TestSearch_EmptyResponseFallbackText(t *testing.T) {
	gen := &fakeGenerator{resp: &gemini.Response{}}
	a := newTestAdapter(t, gen)

	out, err := a.Search(context.Background(), "something obscure")

	require.NoError(t, err)
	assert.Equal(t, "No results found for the query.", out)
}

func TestSearch_AuthAndRateLimitMessagesDiffer(t *testing.T) {
	authGen := &fakeGenerator{err: &gemini.Error{Kind: gemini.KindAuth, Code: 401, Message: "bad key"}}
	rateGen := &fakeGenerator{err: &gemini.Error{Kind: gemini.KindRateLimited, Code: 429, Message: "quota"}}

	_, authErr := newTestAdapter(t, authGen).Search(context.Background(), "x")
	_, rateErr := newTestAdapter(t, rateGen).Search(context.Background(), "x")

	var authTool, rateTool *ToolError
	require.ErrorAs(t, authErr, &authTool)
	require.ErrorAs(t, rateErr, &rateTool)

	assert.Equal(t, ErrUpstreamFailure, authTool.Kind)
	assert.Equal(t, ErrUpstreamFailure, rateTool.Kind)
	assert.NotEqual(t, authTool.Message, rateTool.Message)
	assert.Contains(t, authTool.Message, "GEMINI_API_KEY")
	assert.Contains(t, rateTool.Message, "Try again later")
}

func TestSearch_UnavailableMessageIsActionable(t *testing.T) {
	gen := &fakeGenerator{err: &gemini.Error{Kind: gemini.KindUnavailable, Code: 503, Message: "overloaded"}}

	_, err := newTestAdapter(t, gen).Search(context.Background(), "x")

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Contains(t, toolErr.Message, "temporarily unavailable")
}

func TestSearch_CancellationPropagates(t *testing.T) {
	gen := &fakeGenerator{err: context.Canceled}

	_, err := newTestAdapter(t, gen).Search(context.Background(), "x")

	assert.True(t, errors.Is(err, context.Canceled))
	var toolErr *ToolError
	assert.False(t, errors.As(err, &toolErr), "cancellation must not become a ToolError")
}

func TestAnalyzeURL_URLContextModeAndPrompt(t *testing.T) {
	gen := &fakeGenerator{resp: &gemini.Response{Text: "summary"}}
	a := newTestAdapter(t, gen)

	_, err := a.AnalyzeURL(context.Background(), "https://docs.example/guide", "")

	require.NoError(t, err)
	require.Len(t, gen.requests, 1)
	assert.Equal(t, gemini.ModeURLContext, gen.requests[0].Mode)
	assert.Contains(t, gen.requests[0].Prompt, "https://docs.example/guide")
	assert.Contains(t, gen.requests[0].Prompt, "Analyze and summarize")
}

func TestAnalyzeURL_QuestionSteersPrompt(t *testing.T) {
	gen := &fakeGenerator{resp: &gemini.Response{Text: "summary"}}
	a := newTestAdapter(t, gen)

	_, err := a.AnalyzeURL(context.Background(), "https://docs.example", "What auth modes are supported?")

	require.NoError(t, err)
	require.Len(t, gen.requests, 1)
	assert.Contains(t, gen.requests[0].Prompt, "What auth modes are supported?")
	assert.NotContains(t, gen.requests[0].Prompt, "Analyze and summarize")
}

func TestAnalyzeURL_InvalidURLNoNetworkCall(t *testing.T) {
	cases := []string{"", "   ", "not-a-url", "ftp://files.example/x", "https://"}
	for _, raw := range cases {
		gen := &fakeGenerator{}
		a := newTestAdapter(t, gen)

		_, err := a.AnalyzeURL(context.Background(), raw, "")

		var toolErr *ToolError
		require.ErrorAs(t, err, &toolErr, "url %q", raw)
		assert.Equal(t, ErrInvalidArgument, toolErr.Kind, "url %q", raw)
		assert.Empty(t, gen.requests, "no provider call for url %q", raw)
	}
}

func TestAnalyzeURL_EmptyContentIsSuccess(t *testing.T) {
	gen := &fakeGenerator{resp: &gemini.Response{
		Retrievals: []gemini.Retrieval{
			{URL: "https://blocked.example", Status: "URL_RETRIEVAL_STATUS_ERROR"},
		},
	}}
	a := newTestAdapter(t, gen)

	out, err := a.AnalyzeURL(context.Background(), "https://blocked.example", "")

	require.NoError(t, err, "blocked page fetch is a valid empty outcome, not an error")
	assert.Contains(t, out, "https://blocked.example")
}
