package embedder

import (
	"context"
	"fmt"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// Embedder generates embedding vectors from text.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch generates embeddings for multiple texts. The result has
	// one embedding per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimensions returns the dimensionality of the embedding vectors.
	Dimensions() int

	// Model returns the name of the embedding model in use.
	Model() string

	// Health reports whether the embedder can serve requests.
	Health(ctx context.Context) types.HealthStatus
}

// Config holds configuration for embedding providers.
type Config struct {
	// Provider selects the implementation: "ollama", "genai" or "mock".
	Provider string `yaml:"provider" json:"provider"`

	// Model is the embedding model name. Defaults depend on the provider:
	// "embeddinggemma" for ollama, "gemini-embedding-001" for genai.
	Model string `yaml:"model" json:"model"`

	// APIKey authenticates against the genai provider. Falls back to the
	// GEMINI_API_KEY environment variable.
	APIKey string `yaml:"api_key" json:"api_key"`

	// BaseURL is the server URL for the ollama provider. Defaults to
	// http://localhost:11434.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Dimensions is the expected embedding dimensionality. Defaults to 768,
	// which matches both default models.
	Dimensions int `yaml:"dimensions" json:"dimensions"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return types.NewError(ErrCodeConfigInvalid, "embedder provider cannot be empty")
	}
	if c.Dimensions < 0 {
		return types.NewError(ErrCodeConfigInvalid,
			fmt.Sprintf("embedder dimensions must be non-negative, got %d", c.Dimensions))
	}
	return nil
}

// DefaultConfig returns a local-first configuration: Ollama with
// embeddinggemma, no API key needed.
func DefaultConfig() Config {
	return Config{
		Provider:   "ollama",
		Model:      "embeddinggemma",
		BaseURL:    "http://localhost:11434",
		Dimensions: 768,
	}
}
