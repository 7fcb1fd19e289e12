package embedder

import "github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"

// Embedder error codes
const (
	ErrCodeUnavailable   types.ErrorCode = "EMBEDDER_UNAVAILABLE"
	ErrCodeEmbedFailed   types.ErrorCode = "EMBEDDING_FAILED"
	ErrCodeBatchFailed   types.ErrorCode = "EMBEDDING_BATCH_FAILED"
	ErrCodeConfigInvalid types.ErrorCode = "EMBEDDER_CONFIG_INVALID"
)
