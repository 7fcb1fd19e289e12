package memory

import "github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"

// Learning memory error codes
const (
	ErrCodeMemoryStoreFailed    types.ErrorCode = "MEMORY_STORE_FAILED"
	ErrCodeMemoryRetrieveFailed types.ErrorCode = "MEMORY_RETRIEVE_FAILED"
	ErrCodeMemoryInvalidRecord  types.ErrorCode = "MEMORY_INVALID_RECORD"
	ErrCodeMemoryInvalidQuery   types.ErrorCode = "MEMORY_INVALID_QUERY"
	ErrCodeEmbeddingFailed      types.ErrorCode = "MEMORY_EMBEDDING_FAILED"
)

// NewStoreError wraps a failure to persist a learning.
func NewStoreError(message string, cause error) *types.ContentGenError {
	return types.WrapError(ErrCodeMemoryStoreFailed, message, cause)
}

// NewRetrieveError wraps a failure to search past learnings.
func NewRetrieveError(message string, cause error) *types.ContentGenError {
	return types.WrapError(ErrCodeMemoryRetrieveFailed, message, cause)
}

// NewEmbeddingError wraps a failure to generate an embedding.
func NewEmbeddingError(message string, cause error) *types.ContentGenError {
	return types.WrapError(ErrCodeEmbeddingFailed, message, cause)
}
