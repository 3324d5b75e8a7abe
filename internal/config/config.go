// Package config loads the process-wide configuration for the server.
//
// Sources (highest to lowest priority):
//  1. Environment variables (GEMINI_API_KEY, GEMINI_MODEL, ...)
//  2. A .env file in the working directory
//  3. Default values
//
// The configuration is loaded once at startup into an immutable value
// and passed explicitly to constructors. Validation is fail-fast: a
// missing API key is a startup error, never a per-call provider error.
//
// Security: the API key is masked in MarshalJSON and String.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIKey indicates GEMINI_API_KEY is not set.
	ErrMissingAPIKey = errors.New("missing GEMINI_API_KEY")

	// ErrInvalidTimeout indicates the request timeout is not a positive duration.
	ErrInvalidTimeout = errors.New("invalid request timeout")
)

const (
	// DefaultModel is the Gemini model used when GEMINI_MODEL is not set.
	DefaultModel = "gemini-2.5-flash"

	// DefaultTimeoutSeconds bounds each upstream call so a slow request
	// cannot hang the process indefinitely.
	DefaultTimeoutSeconds = 120
)

// Config stores the server configuration. Immutable after Load.
type Config struct {
	// APIKey is the Gemini API credential. SENSITIVE: masked in MarshalJSON.
	APIKey string `mapstructure:"api_key" json:"api_key"`

	// Model is the Gemini model identifier, e.g. "gemini-2.5-flash".
	Model string `mapstructure:"model" json:"model"`

	// TimeoutSeconds bounds each outbound provider call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" json:"timeout_seconds"`

	// Debug enables debug-level logging.
	Debug bool `mapstructure:"debug" json:"debug"`
}

// Load reads configuration from the environment, overlaying a .env file
// from the working directory when present.
func Load() (*Config, error) {
	// A missing .env is not an error; the environment alone is enough.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("model", DefaultModel)
	v.SetDefault("timeout_seconds", DefaultTimeoutSeconds)

	// Helper to panic on unexpected bind errors (hardcoded keys can't fail).
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}
	mustBind("api_key", "GEMINI_API_KEY")
	mustBind("model", "GEMINI_MODEL")
	mustBind("timeout_seconds", "GEMINI_TIMEOUT_SECONDS")
	mustBind("debug", "DEBUG")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for startup-fatal problems.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: set GEMINI_API_KEY before starting the server", ErrMissingAPIKey)
	}
	if strings.TrimSpace(c.Model) == "" {
		c.Model = DefaultModel
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: %d seconds", ErrInvalidTimeout, c.TimeoutSeconds)
	}
	return nil
}

// Timeout returns the per-call timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret for safe logging. Short secrets are fully
// masked to prevent substring matching; longer ones keep the first and
// last two characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with the API key masked.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.APIKey = maskSecret(a.APIKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of the key.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
