package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validSSLModes = map[string]struct{}{
	"disable":     {},
	"allow":       {},
	"prefer":      {},
	"require":     {},
	"verify-ca":   {},
	"verify-full": {},
}

// Validate checks the full configuration for the serve command.
// Returns a sentinel error (wrapped with detail) on the first violation.
func (c *Config) Validate() error {
	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host must not be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d (must be 1-65535)", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if _, ok := validSSLModes[c.PostgresSSLMode]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPostgresSSLMode, c.PostgresSSLMode)
	}

	if err := c.validateCompletion(); err != nil {
		return err
	}

	if c.TopK < 1 || c.TopK > 50 {
		return fmt.Errorf("%w: %d (must be 1-50)", ErrInvalidTopK, c.TopK)
	}
	if c.MaxChunkSize < 100 || c.MaxChunkSize > 100_000 {
		return fmt.Errorf("%w: %d (must be 100-100000)", ErrInvalidChunkSize, c.MaxChunkSize)
	}
	if c.MaxUploadBytes < 1024 || c.MaxUploadBytes > 1<<30 {
		return fmt.Errorf("%w: %d bytes", ErrInvalidUploadLimit, c.MaxUploadBytes)
	}

	if c.InferenceBaseURL != "" {
		if err := validateHTTPURL(c.InferenceBaseURL); err != nil {
			return fmt.Errorf("%w: inference_base_url: %v", ErrInvalidBaseURL, err)
		}
	}

	return nil
}

func (c *Config) validateCompletion() error {
	if c.CompletionAPIKey == "" {
		return fmt.Errorf("%w: set MIDAS_COMPLETION_API_KEY or GROQ_API_KEY", ErrMissingAPIKey)
	}
	if err := validateHTTPURL(c.CompletionBaseURL); err != nil {
		return fmt.Errorf("%w: completion_base_url: %v", ErrInvalidBaseURL, err)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %.2f (must be 0.0-2.0)", ErrInvalidTemperature, c.Temperature)
	}
	if c.MaxTokens < 1 || c.MaxTokens > 32768 {
		return fmt.Errorf("%w: %d (must be 1-32768)", ErrInvalidMaxTokens, c.MaxTokens)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
