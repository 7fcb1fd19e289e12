package vector

import "github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"

// Vector store error codes
const (
	ErrCodeUnavailable   types.ErrorCode = "VECTOR_STORE_UNAVAILABLE"
	ErrCodeNotFound      types.ErrorCode = "VECTOR_NOT_FOUND"
	ErrCodeStoreFailed   types.ErrorCode = "VECTOR_STORE_FAILED"
	ErrCodeSearchFailed  types.ErrorCode = "VECTOR_SEARCH_FAILED"
	ErrCodeConfigInvalid types.ErrorCode = "VECTOR_CONFIG_INVALID"
)
