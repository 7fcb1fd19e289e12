// Package memory persists learnings from completed campaigns and retrieves
// them by semantic similarity for new ones. It composes an embedder that
// turns learning summaries into vectors with a vector store that holds them,
// keeping both behind the LearningStore interface so the engine stays
// backend-agnostic.
package memory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/memory/embedder"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/memory/vector"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// LearningStore is the memory surface the engine depends on.
type LearningStore interface {
	// Store embeds the learning summary and persists the record.
	Store(ctx context.Context, record LearningRecord) error

	// Retrieve returns learnings semantically similar to the query text,
	// most similar first.
	Retrieve(ctx context.Context, query RetrieveQuery) ([]ScoredLearning, error)

	// Delete removes a learning by ID. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	// Health reports the combined health of the store and its embedder.
	Health(ctx context.Context) types.HealthStatus

	// Close releases underlying resources.
	Close() error
}

// LearningMemory implements LearningStore over a vector store and an
// embedder. The embedder produces the vectors; the store owns persistence
// and similarity search.
type LearningMemory struct {
	store    vector.Store
	embedder embedder.Embedder
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures a LearningMemory.
type Option func(*LearningMemory)

// WithLogger sets the logger for memory operations.
func WithLogger(logger *slog.Logger) Option {
	return func(m *LearningMemory) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTracer enables OpenTelemetry tracing for memory operations.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *LearningMemory) {
		m.tracer = tracer
	}
}

// NewLearningMemory wires a vector store and an embedder into a learning
// memory.
func NewLearningMemory(store vector.Store, emb embedder.Embedder, opts ...Option) *LearningMemory {
	m := &LearningMemory{
		store:    store,
		embedder: emb,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store embeds the learning summary and upserts it into the vector store.
func (m *LearningMemory) Store(ctx context.Context, record LearningRecord) error {
	if m.tracer != nil {
		var span trace.Span
		ctx, span = m.tracer.Start(ctx, "memory.store",
			trace.WithAttributes(
				attribute.String("learning.id", record.ID.String()),
				attribute.String("learning.industry", record.Industry),
			))
		defer span.End()
	}

	if err := record.Validate(); err != nil {
		return err
	}

	embedding, err := m.embedder.Embed(ctx, record.Summary)
	if err != nil {
		return NewEmbeddingError("failed to embed learning summary", err)
	}

	rec := vector.Record{
		ID:        record.ID.String(),
		Content:   record.Summary,
		Embedding: embedding,
		Metadata:  metadataFromRecord(record),
		CreatedAt: record.CreatedAt,
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	if err := m.store.Upsert(ctx, rec); err != nil {
		return NewStoreError(fmt.Sprintf("failed to store learning %s", record.ID), err)
	}

	m.logger.DebugContext(ctx, "Stored campaign learning",
		"learning_id", record.ID,
		"industry", record.Industry,
		"score", record.Score,
	)
	return nil
}

// Retrieve embeds the query text and searches the vector store, optionally
// filtered by industry.
func (m *LearningMemory) Retrieve(ctx context.Context, query RetrieveQuery) ([]ScoredLearning, error) {
	if m.tracer != nil {
		var span trace.Span
		ctx, span = m.tracer.Start(ctx, "memory.retrieve",
			trace.WithAttributes(
				attribute.String("query.industry", query.Industry),
				attribute.Int("query.top_k", query.TopK),
			))
		defer span.End()
	}

	if err := query.Validate(); err != nil {
		return nil, err
	}
	topK := query.TopK
	if topK == 0 {
		topK = DefaultTopK
	}

	embedding, err := m.embedder.Embed(ctx, query.Text)
	if err != nil {
		return nil, NewEmbeddingError("failed to embed retrieve query", err)
	}

	vq := vector.NewQuery(embedding, topK).WithMinScore(query.MinScore)
	if query.Industry != "" {
		vq = vq.WithFilters(map[string]any{"industry": query.Industry})
	}

	matches, err := m.store.Search(ctx, *vq)
	if err != nil {
		return nil, NewRetrieveError("vector search failed", err)
	}

	results := make([]ScoredLearning, 0, len(matches))
	for _, match := range matches {
		results = append(results, ScoredLearning{
			Learning:   recordFromVector(match.Record),
			Similarity: match.Score,
		})
	}

	m.logger.DebugContext(ctx, "Retrieved campaign learnings",
		"results", len(results),
		"industry", query.Industry,
	)
	return results, nil
}

// Delete removes a learning from the vector store.
func (m *LearningMemory) Delete(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return NewStoreError(fmt.Sprintf("failed to delete learning %s", id), err)
	}
	return nil
}

// Health reports the worse of the store's and the embedder's health.
func (m *LearningMemory) Health(ctx context.Context) types.HealthStatus {
	return types.WorstOf(m.store.Health(ctx), m.embedder.Health(ctx))
}

// Close closes the vector store and, when it supports it, the embedder.
func (m *LearningMemory) Close() error {
	err := m.store.Close()
	if closer, ok := m.embedder.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// metadataFromRecord flattens the record fields that retrieval filters and
// reconstruction need.
func metadataFromRecord(record LearningRecord) map[string]any {
	meta := map[string]any{
		"campaign_id": record.CampaignID.String(),
		"score":       record.Score,
	}
	if record.Industry != "" {
		meta["industry"] = record.Industry
	}
	if record.Goal != "" {
		meta["goal"] = record.Goal
	}
	return meta
}

// recordFromVector rebuilds a learning record from a stored vector record.
func recordFromVector(rec vector.Record) LearningRecord {
	return LearningRecord{
		ID:         types.ID(rec.ID),
		CampaignID: types.ID(metaString(rec.Metadata, "campaign_id")),
		Summary:    rec.Content,
		Industry:   metaString(rec.Metadata, "industry"),
		Goal:       metaString(rec.Metadata, "goal"),
		Score:      metaFloat(rec.Metadata, "score"),
		CreatedAt:  rec.CreatedAt,
	}
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

func metaFloat(meta map[string]any, key string) float64 {
	if meta == nil {
		return 0
	}
	switch v := meta[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
