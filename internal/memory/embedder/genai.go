package embedder

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

const defaultGenAIModel = "gemini-embedding-001"

// Embeddings are requested for semantic similarity, which suits both storing
// learnings and querying them with campaign briefs.
const genaiTaskType = "SEMANTIC_SIMILARITY"

// GenAIEmbedder generates embeddings through Google's Gemini API.
type GenAIEmbedder struct {
	client *genai.Client
	model  string
	dims   int
	config *genai.EmbedContentConfig
}

// NewGenAIEmbedder creates a Gemini-backed embedder. The API key comes from
// the config or the GEMINI_API_KEY environment variable.
func NewGenAIEmbedder(ctx context.Context, cfg Config) (*GenAIEmbedder, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, types.NewError(ErrCodeConfigInvalid,
			"genai embedder requires api_key (or GEMINI_API_KEY environment variable)")
	}

	model := cfg.Model
	if model == "" {
		model = defaultGenAIModel
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = 768
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, types.WrapError(ErrCodeUnavailable, "failed to create genai client", err)
	}

	outputDims := int32(dims)
	return &GenAIEmbedder{
		client: client,
		model:  model,
		dims:   dims,
		config: &genai.EmbedContentConfig{
			TaskType:             genaiTaskType,
			OutputDimensionality: &outputDims,
		},
	}, nil
}

// Embed generates an embedding for a single text.
func (e *GenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, types.NewError(ErrCodeEmbedFailed, "text cannot be empty")
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		e.config,
	)
	if err != nil {
		return nil, types.WrapRetryableError(ErrCodeEmbedFailed, "genai embed failed", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, types.NewError(ErrCodeEmbedFailed, "genai returned no embeddings")
	}
	return toFloat64(result.Embeddings[0].Values), nil
}

// EmbedBatch sends all texts in a single request; the Gemini API supports
// batching natively.
func (e *GenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, e.config)
	if err != nil {
		return nil, types.WrapRetryableError(ErrCodeBatchFailed, "genai batch embed failed", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, types.NewError(ErrCodeBatchFailed,
			fmt.Sprintf("genai returned %d embeddings for %d texts", len(result.Embeddings), len(texts)))
	}

	embeddings := make([][]float64, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		embeddings[i] = toFloat64(emb.Values)
	}
	return embeddings, nil
}

// Dimensions returns the configured embedding dimensionality.
func (e *GenAIEmbedder) Dimensions() int {
	return e.dims
}

// Model returns the provider-qualified model name.
func (e *GenAIEmbedder) Model() string {
	return fmt.Sprintf("genai:%s", e.model)
}

// Health embeds a short probe text to verify credentials and connectivity.
func (e *GenAIEmbedder) Health(ctx context.Context) types.HealthStatus {
	if _, err := e.Embed(ctx, "ping"); err != nil {
		return types.Unhealthy(fmt.Sprintf("genai embedder unavailable: %v", err))
	}
	return types.Healthy(fmt.Sprintf("genai embedder operational (model: %s, dims: %d)", e.model, e.dims))
}

// toFloat64 widens the API's float32 vectors to the float64 the vector
// store works in.
func toFloat64(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
