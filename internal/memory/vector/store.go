package vector

import (
	"context"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// Store provides vector-based semantic search over embedded records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Upsert writes a single record, replacing any record with the same ID.
	Upsert(ctx context.Context, record Record) error

	// UpsertBatch writes multiple records in one operation.
	UpsertBatch(ctx context.Context, records []Record) error

	// Search finds the records most similar to the query embedding.
	Search(ctx context.Context, query Query) ([]Match, error)

	// Get retrieves a specific record by ID.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete removes a record. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	// Health reports the health of the store.
	Health(ctx context.Context) types.HealthStatus

	// Close releases all resources held by the store.
	Close() error
}
