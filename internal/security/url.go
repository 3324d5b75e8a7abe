// Package security provides input validators for the server.
package security

import (
	"fmt"
	"net/url"
	"strings"
)

// allowedSchemes defines permitted URL schemes for analyze_url.
var allowedSchemes = map[string]struct{}{
	"http":  {},
	"https": {},
}

// ValidateURL checks that raw is a well-formed absolute http(s) URL
// with a host. The check is syntactic only: the Gemini service performs
// the actual fetch, so reachability is not this process's concern.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if _, ok := allowedSchemes[strings.ToLower(u.Scheme)]; !ok {
		return fmt.Errorf("unsupported scheme %q (allowed: http, https)", u.Scheme)
	}

	if u.Hostname() == "" {
		return fmt.Errorf("empty hostname")
	}

	return nil
}
