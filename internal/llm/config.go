package llm

import (
	"fmt"
	"strings"
)

// ProviderType identifies a supported LLM provider backend.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderOllama    ProviderType = "ollama"
	ProviderMock      ProviderType = "mock"
)

// String returns the string representation of the ProviderType
func (t ProviderType) String() string {
	return string(t)
}

// IsValid checks if the provider type is supported
func (t ProviderType) IsValid() bool {
	switch t {
	case ProviderAnthropic, ProviderOpenAI, ProviderOllama, ProviderMock:
		return true
	default:
		return false
	}
}

// ParseProviderType parses a string into a ProviderType, case-insensitively.
func ParseProviderType(s string) (ProviderType, error) {
	t := ProviderType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unsupported provider type: %q", s)
	}
	return t, nil
}

// ProviderConfig holds the settings needed to construct a provider.
type ProviderConfig struct {
	Type         ProviderType `yaml:"type" json:"type"`
	APIKey       string       `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	BaseURL      string       `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	DefaultModel string       `yaml:"default_model,omitempty" json:"default_model,omitempty"`

	// RequestsPerMinute caps outbound completion calls when > 0.
	RequestsPerMinute int `yaml:"requests_per_minute,omitempty" json:"requests_per_minute,omitempty"`
}

// Validate checks the provider configuration.
func (c ProviderConfig) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("unsupported provider type: %q", c.Type)
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must be non-negative, got %d", c.RequestsPerMinute)
	}
	return nil
}
