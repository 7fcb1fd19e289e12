package llm

import (
	"context"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// Provider defines the interface that all LLM providers must implement.
// The planner depends only on this interface, so providers can be swapped
// without touching reasoning logic.
type Provider interface {
	// Name returns the provider's identifier (e.g. "anthropic", "openai", "ollama").
	Name() string

	// Models returns the models this provider can serve.
	Models() []ModelInfo

	// Complete generates a completion for the given request.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Health checks provider availability.
	Health(ctx context.Context) types.HealthStatus
}
