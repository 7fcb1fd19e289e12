package vector

import (
	"fmt"
	"sort"
	"time"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// Record is a stored embedding with its source text and metadata.
type Record struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewRecord creates a Record stamped with the current UTC time.
func NewRecord(id, content string, embedding []float64, metadata map[string]any) *Record {
	return &Record{
		ID:        id,
		Content:   content,
		Embedding: embedding,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks that the record can be stored.
func (r *Record) Validate() error {
	if r.ID == "" {
		return types.NewError(ErrCodeStoreFailed, "record ID cannot be empty")
	}
	if r.Content == "" {
		return types.NewError(ErrCodeStoreFailed, "record content cannot be empty")
	}
	if len(r.Embedding) == 0 {
		return types.NewError(ErrCodeStoreFailed, "record embedding cannot be empty")
	}
	return nil
}

// Dimensions returns the dimensionality of the embedding vector.
func (r *Record) Dimensions() int {
	return len(r.Embedding)
}

// Query is a similarity search request. The embedding must be computed by
// the caller; stores never embed text themselves.
type Query struct {
	Embedding []float64      `json:"embedding"`
	TopK      int            `json:"top_k"`
	Filters   map[string]any `json:"filters,omitempty"`
	MinScore  float64        `json:"min_score,omitempty"`
}

// NewQuery creates a Query with no score floor and no filters.
func NewQuery(embedding []float64, topK int) *Query {
	return &Query{
		Embedding: embedding,
		TopK:      topK,
	}
}

// WithFilters adds exact-match metadata filters. All filters must match
// (AND semantics). Returns the query for chaining.
func (q *Query) WithFilters(filters map[string]any) *Query {
	q.Filters = filters
	return q
}

// WithMinScore sets the minimum similarity score. Returns the query for
// chaining.
func (q *Query) WithMinScore(minScore float64) *Query {
	q.MinScore = minScore
	return q
}

// Validate checks that the query can be executed.
func (q *Query) Validate() error {
	if len(q.Embedding) == 0 {
		return types.NewError(ErrCodeSearchFailed, "query embedding cannot be empty")
	}
	if q.TopK <= 0 {
		return types.NewError(ErrCodeSearchFailed,
			fmt.Sprintf("query top_k must be greater than 0, got %d", q.TopK))
	}
	if q.MinScore < 0 || q.MinScore > 1 {
		return types.NewError(ErrCodeSearchFailed,
			fmt.Sprintf("query min_score must be between 0 and 1, got %f", q.MinScore))
	}
	return nil
}

// Match is a search hit: the record plus its cosine similarity to the
// query, in [0, 1] for non-negative embeddings, higher is more similar.
type Match struct {
	Record Record  `json:"record"`
	Score  float64 `json:"score"`
}

// sortMatches orders matches for stable retrieval: score descending, then
// newer records first, then ID ascending. Equal-quality hits always come
// back in the same order.
func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if !matches[i].Record.CreatedAt.Equal(matches[j].Record.CreatedAt) {
			return matches[i].Record.CreatedAt.After(matches[j].Record.CreatedAt)
		}
		return matches[i].Record.ID < matches[j].Record.ID
	})
}
