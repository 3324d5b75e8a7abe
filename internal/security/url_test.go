package security

import "testing"

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com/path?q=1",
		"https://sub.domain.example:8443/deep/path#frag",
		"  https://example.com  ",
		"HTTPS://EXAMPLE.COM",
	}
	for _, raw := range valid {
		if err := ValidateURL(raw); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", raw, err)
		}
	}

	// No scheme, unsupported schemes, and host-less URLs are all
	// rejected before any network call would happen.
	invalid := []string{
		"",
		"   ",
		"example.com",
		"ftp://files.example",
		"file:///etc/passwd",
		"https://",
		"http:///path-only",
		"javascript:alert(1)",
	}
	for _, raw := range invalid {
		if err := ValidateURL(raw); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", raw)
		}
	}
}
