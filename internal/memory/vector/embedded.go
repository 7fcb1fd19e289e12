package vector

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// EmbeddedStore is an in-memory vector store. It uses brute-force cosine
// search, which is fine for the learning-memory workload of at most a few
// thousand campaign summaries. Contents do not survive process restart;
// use SQLiteStore for persistence.
type EmbeddedStore struct {
	mu      sync.RWMutex
	records map[string]Record
	dims    int
}

// NewEmbeddedStore creates an in-memory store for embeddings of the given
// dimensionality.
func NewEmbeddedStore(dims int) *EmbeddedStore {
	return &EmbeddedStore{
		records: make(map[string]Record),
		dims:    dims,
	}
}

// Upsert writes a single record, replacing any record with the same ID.
func (s *EmbeddedStore) Upsert(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if len(record.Embedding) != s.dims {
		return types.NewError(ErrCodeStoreFailed,
			fmt.Sprintf("embedding dimensions mismatch: expected %d, got %d", s.dims, len(record.Embedding)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = record
	return nil
}

// UpsertBatch writes multiple records. All records are validated before any
// is written, so a bad record leaves the store untouched.
func (s *EmbeddedStore) UpsertBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	for i, record := range records {
		if err := record.Validate(); err != nil {
			return types.WrapError(ErrCodeStoreFailed,
				fmt.Sprintf("invalid record at index %d", i), err)
		}
		if len(record.Embedding) != s.dims {
			return types.NewError(ErrCodeStoreFailed,
				fmt.Sprintf("record %d: embedding dimensions mismatch: expected %d, got %d",
					i, s.dims, len(record.Embedding)))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		s.records[record.ID] = record
	}
	return nil
}

// Search scores every record against the query embedding and returns the
// top-k above the score floor, ordered by sortMatches.
func (s *EmbeddedStore) Search(ctx context.Context, query Query) ([]Match, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if len(query.Embedding) != s.dims {
		return nil, types.NewError(ErrCodeSearchFailed,
			fmt.Sprintf("query embedding dimensions mismatch: expected %d, got %d",
				s.dims, len(query.Embedding)))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]Match, 0, len(s.records))
	for _, record := range s.records {
		if !matchesFilters(record, query.Filters) {
			continue
		}
		score := cosineSimilarity(query.Embedding, record.Embedding)
		if score >= query.MinScore {
			matches = append(matches, Match{Record: record, Score: score})
		}
	}

	sortMatches(matches)
	if len(matches) > query.TopK {
		matches = matches[:query.TopK]
	}
	return matches, nil
}

// Get retrieves a record by ID.
func (s *EmbeddedStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[id]
	if !exists {
		return nil, types.NewError(ErrCodeNotFound,
			fmt.Sprintf("vector record not found: %s", id))
	}
	return &record, nil
}

// Delete removes a record. Deleting an absent ID is a no-op.
func (s *EmbeddedStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

// Health reports the record count and configured dimensionality.
func (s *EmbeddedStore) Health(ctx context.Context) types.HealthStatus {
	s.mu.RLock()
	count := len(s.records)
	s.mu.RUnlock()

	return types.Healthy(
		fmt.Sprintf("embedded vector store operational with %d records (dims: %d)", count, s.dims))
}

// Close drops all records.
func (s *EmbeddedStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}

// cosineSimilarity computes (a · b) / (||a|| * ||b||). Zero vectors and
// mismatched lengths score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// matchesFilters reports whether every filter key is present in the record
// metadata with an equal value.
func matchesFilters(record Record, filters map[string]any) bool {
	if len(filters) == 0 {
		return true
	}
	if record.Metadata == nil {
		return false
	}
	for key, want := range filters {
		got, exists := record.Metadata[key]
		if !exists || got != want {
			return false
		}
	}
	return true
}
