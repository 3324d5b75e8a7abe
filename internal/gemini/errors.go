package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Kind classifies a provider failure so callers can produce distinct,
// actionable messages for credential problems versus transient ones.
type Kind int

const (
	// KindUnknown is an unclassified provider failure.
	KindUnknown Kind = iota

	// KindAuth is a missing or invalid credential.
	KindAuth

	// KindRateLimited is a rate limit or quota rejection.
	KindRateLimited

	// KindInvalidArgument is a request the provider rejected as malformed.
	KindInvalidArgument

	// KindUnavailable is a transient failure: server errors, timeouts,
	// broken transport.
	KindUnavailable
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimited:
		return "rate_limited"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is a classified provider failure.
type Error struct {
	Kind Kind

	// Code is the HTTP status from the API, 0 when not applicable.
	Code int

	Message string
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("gemini: %s (%d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("gemini: %s: %s", e.Kind, e.Message)
}

// classify maps SDK and transport failures onto error kinds.
// Cancellation passes through untouched so callers can report it as a
// cancellation rather than a provider failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindUnavailable, Message: "request timed out"}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		kind := KindUnknown
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = KindAuth
		case http.StatusTooManyRequests:
			kind = KindRateLimited
		case http.StatusBadRequest:
			kind = KindInvalidArgument
		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			kind = KindUnavailable
		}
		return &Error{Kind: kind, Code: apiErr.Code, Message: apiErr.Message}
	}

	// Transport-level failures carry no status code; fall back to
	// message inspection.
	msg := err.Error()
	switch {
	case containsAny(msg, "api key", "unauthorized", "permission denied"):
		return &Error{Kind: KindAuth, Message: msg}
	case containsAny(msg, "rate limit", "quota exceeded", "429"):
		return &Error{Kind: KindRateLimited, Message: msg}
	case containsAny(msg, "timeout", "connection reset", "unavailable", "503"):
		return &Error{Kind: KindUnavailable, Message: msg}
	}
	return &Error{Kind: KindUnknown, Message: msg}
}

// containsAny checks if s contains any of the substrings (case-insensitive).
func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
