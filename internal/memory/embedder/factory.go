package embedder

import (
	"context"
	"fmt"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// New creates an embedder from the configuration.
//
// Supported providers:
//   - "ollama": local Ollama server, no API key (default model embeddinggemma)
//   - "genai": Google Gemini embedding API, requires an API key
//   - "mock": deterministic hash-based embedder for tests and dry runs
func New(ctx context.Context, cfg Config) (Embedder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case "ollama":
		return NewOllamaEmbedder(cfg)

	case "genai":
		return NewGenAIEmbedder(ctx, cfg)

	case "mock":
		mock := NewMockEmbedder()
		if cfg.Dimensions > 0 {
			mock.SetDimensions(cfg.Dimensions)
		}
		return mock, nil

	default:
		return nil, types.NewError(ErrCodeConfigInvalid,
			fmt.Sprintf("unknown embedder provider %q, must be ollama, genai or mock", cfg.Provider))
	}
}
