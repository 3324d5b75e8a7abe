package adapter

import (
	"context"
	"errors"
	"fmt"

	"gemini-search-mcp/internal/gemini"
)

// ErrorKind classifies a tool failure.
type ErrorKind int

const (
	// ErrInvalidArgument is a caller-supplied argument problem, detected
	// before any network call. Always recoverable.
	ErrInvalidArgument ErrorKind = iota + 1

	// ErrUpstreamFailure wraps a provider failure.
	ErrUpstreamFailure
)

// ToolError is the only error type crossing the tool boundary. The
// protocol runtime renders it as a failed tool result, leaving the
// session healthy.
type ToolError struct {
	Kind    ErrorKind
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

func invalidArgument(format string, args ...any) *ToolError {
	return &ToolError{Kind: ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// upstreamMessage translates a classified provider error into a
// human-actionable message. Credential problems must read differently
// from rate limits and from transient failures.
func upstreamMessage(err *gemini.Error) string {
	switch err.Kind {
	case gemini.KindAuth:
		return "Gemini rejected the credential. Check that GEMINI_API_KEY is set to a valid API key."
	case gemini.KindRateLimited:
		return "Gemini rate limit or quota exceeded. Try again later or review your project quota."
	case gemini.KindInvalidArgument:
		return fmt.Sprintf("Gemini rejected the request: %s", err.Message)
	case gemini.KindUnavailable:
		return "Gemini is temporarily unavailable. Try again in a few moments."
	default:
		return fmt.Sprintf("Gemini request failed: %s", err.Message)
	}
}

// wrapProviderError converts a provider failure into a ToolError.
// Cancellation propagates unchanged so the runtime sees a cancelled
// call, not a failed tool.
func wrapProviderError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var provErr *gemini.Error
	if errors.As(err, &provErr) {
		return &ToolError{Kind: ErrUpstreamFailure, Message: upstreamMessage(provErr)}
	}
	return &ToolError{Kind: ErrUpstreamFailure, Message: fmt.Sprintf("Gemini request failed: %v", err)}
}
