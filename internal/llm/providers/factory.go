package providers

import (
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/llm"
)

// NewProvider constructs a provider from configuration. When the config
// carries a request-per-minute budget the provider is wrapped with a
// client-side rate limiter.
func NewProvider(cfg llm.ProviderConfig) (llm.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, llm.NewInvalidRequestError(err.Error())
	}

	var (
		provider llm.Provider
		err      error
	)

	switch cfg.Type {
	case llm.ProviderAnthropic:
		provider, err = NewAnthropicProvider(cfg)
	case llm.ProviderOpenAI:
		provider, err = NewOpenAIProvider(cfg)
	case llm.ProviderOllama:
		provider, err = NewOllamaProvider(cfg)
	case llm.ProviderMock:
		provider = NewMockProvider(nil)
	default:
		return nil, llm.NewProviderNotFoundError(cfg.Type.String())
	}

	if err != nil {
		return nil, err
	}

	if cfg.RequestsPerMinute > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute)
	}

	return provider, nil
}
