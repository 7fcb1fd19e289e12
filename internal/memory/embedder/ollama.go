package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "embeddinggemma"

	// Ollama has no batch endpoint, so batches fan out over single-text
	// requests with this concurrency bound.
	ollamaBatchConcurrency = 4
)

// OllamaEmbedder generates embeddings through a local Ollama server.
// No API key required; the model must be pulled on the server beforehand.
type OllamaEmbedder struct {
	baseURL string
	model   string
	dims    int
	client  *http.Client
}

// NewOllamaEmbedder creates an embedder talking to the configured Ollama
// server.
func NewOllamaEmbedder(cfg Config) (*OllamaEmbedder, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = 768
	}

	return &OllamaEmbedder{
		baseURL: baseURL,
		model:   model,
		dims:    dims,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed generates an embedding for a single text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, types.NewError(ErrCodeEmbedFailed, "text cannot be empty")
	}

	body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, types.WrapError(ErrCodeEmbedFailed, "failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, types.WrapError(ErrCodeEmbedFailed, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, types.WrapRetryableError(ErrCodeUnavailable, "ollama request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, types.NewError(ErrCodeEmbedFailed,
			fmt.Sprintf("ollama returned status %d: %s", resp.StatusCode, string(respBody)))
	}

	var result ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, types.WrapError(ErrCodeEmbedFailed, "failed to decode response", err)
	}
	if len(result.Embedding) == 0 {
		return nil, types.NewError(ErrCodeEmbedFailed, "ollama returned an empty embedding")
	}
	return result.Embedding, nil
}

// EmbedBatch fans single-text requests out with bounded concurrency and
// returns embeddings in input order.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float64, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ollamaBatchConcurrency)

	for i, text := range texts {
		g.Go(func() error {
			embedding, err := e.Embed(gctx, text)
			if err != nil {
				return types.WrapError(ErrCodeBatchFailed,
					fmt.Sprintf("failed to embed text %d", i), err)
			}
			embeddings[i] = embedding
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return embeddings, nil
}

// Dimensions returns the configured embedding dimensionality.
func (e *OllamaEmbedder) Dimensions() int {
	return e.dims
}

// Model returns the provider-qualified model name.
func (e *OllamaEmbedder) Model() string {
	return fmt.Sprintf("ollama:%s", e.model)
}

// Health embeds a short probe text to verify the server and model respond.
func (e *OllamaEmbedder) Health(ctx context.Context) types.HealthStatus {
	if _, err := e.Embed(ctx, "ping"); err != nil {
		return types.Unhealthy(fmt.Sprintf("ollama embedder unavailable: %v", err))
	}
	return types.Healthy(fmt.Sprintf("ollama embedder operational (model: %s, dims: %d)", e.model, e.dims))
}
