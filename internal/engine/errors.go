package engine

import "github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"

// ErrCodeEngineInvalid reports a constructor or Run argument problem:
// a missing collaborator or an unrunnable campaign state.
const ErrCodeEngineInvalid types.ErrorCode = "ENGINE_INVALID"
