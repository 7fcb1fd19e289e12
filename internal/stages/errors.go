package stages

import "github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"

// Error codes for stage execution.
const (
	// ErrCodeToolFailed wraps a stage tool failure. Terminal for the run.
	ErrCodeToolFailed types.ErrorCode = "TOOL_EXECUTION_FAILED"

	// ErrCodeToolNoOutput marks a tool that returned neither output nor error.
	ErrCodeToolNoOutput types.ErrorCode = "TOOL_NO_OUTPUT"
)
