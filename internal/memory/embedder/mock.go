package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// MockCall records a method invocation on the mock embedder.
type MockCall struct {
	Method    string
	Args      []any
	Timestamp time.Time
}

// MockEmbedder is an Embedder double for tests. Embeddings are derived from
// a SHA-256 hash of the text, so the same text always yields the same unit
// vector and different texts diverge.
type MockEmbedder struct {
	mu           sync.RWMutex
	dimensions   int
	model        string
	calls        []MockCall
	embedError   error
	batchError   error
	healthStatus types.HealthStatus
}

// NewMockEmbedder creates a healthy 768-dimensional mock.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		dimensions:   768,
		model:        "mock-embedder",
		healthStatus: types.Healthy("mock embedder"),
	}
}

// Embed generates a deterministic embedding for a single text.
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Method: "Embed", Args: []any{text}, Timestamp: time.Now()})
	if m.embedError != nil {
		return nil, m.embedError
	}
	return m.generateEmbedding(text), nil
}

// EmbedBatch generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Method: "EmbedBatch", Args: []any{texts}, Timestamp: time.Now()})
	if m.batchError != nil {
		return nil, m.batchError
	}

	embeddings := make([][]float64, len(texts))
	for i, text := range texts {
		embeddings[i] = m.generateEmbedding(text)
	}
	return embeddings, nil
}

// generateEmbedding hashes the text, seeds a PRNG with the hash and draws a
// unit-normalized vector from it.
func (m *MockEmbedder) generateEmbedding(text string) []float64 {
	hash := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint64(hash[:8]))
	rng := rand.New(rand.NewSource(seed))

	embedding := make([]float64, m.dimensions)
	for i := range embedding {
		embedding[i] = (rng.Float64() * 2) - 1
	}
	return normalizeVector(embedding)
}

// Dimensions returns the configured dimensionality.
func (m *MockEmbedder) Dimensions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dimensions
}

// Model returns the mock model name.
func (m *MockEmbedder) Model() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.model
}

// Health records the call and returns the configured status.
func (m *MockEmbedder) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Method: "Health", Timestamp: time.Now()})
	return m.healthStatus
}

// SetDimensions changes the embedding dimensionality.
func (m *MockEmbedder) SetDimensions(dims int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimensions = dims
}

// SetEmbedError scripts Embed to fail.
func (m *MockEmbedder) SetEmbedError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedError = err
}

// SetBatchError scripts EmbedBatch to fail.
func (m *MockEmbedder) SetBatchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchError = err
}

// SetHealthStatus scripts what Health returns.
func (m *MockEmbedder) SetHealthStatus(status types.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthStatus = status
}

// GetCalls returns a copy of all recorded calls.
func (m *MockEmbedder) GetCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns the total number of recorded calls.
func (m *MockEmbedder) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

// Reset clears recorded calls and scripted behavior.
func (m *MockEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = nil
	m.embedError = nil
	m.batchError = nil
	m.dimensions = 768
	m.model = "mock-embedder"
	m.healthStatus = types.Healthy("mock embedder")
}

// normalizeVector scales a vector to unit length. Zero vectors pass through.
func normalizeVector(v []float64) []float64 {
	var sum float64
	for _, val := range v {
		sum += val * val
	}
	if sum == 0 {
		return v
	}

	norm := math.Sqrt(sum)
	normalized := make([]float64, len(v))
	for i, val := range v {
		normalized[i] = val / norm
	}
	return normalized
}
