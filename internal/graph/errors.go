package graph

import (
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// Graph error codes
const (
	// ErrCodeConfigInvalid reports a graph that fails Compile validation:
	// missing entry point, dangling edges, duplicate nodes.
	ErrCodeConfigInvalid types.ErrorCode = "GRAPH_CONFIG_INVALID"

	// ErrCodeRouteInvalid reports a router returning a key with no
	// registered target. Raised at runtime and treated as fatal.
	ErrCodeRouteInvalid types.ErrorCode = "GRAPH_ROUTE_INVALID"

	// ErrCodeRunCanceled reports a run stopped by context cancellation.
	ErrCodeRunCanceled types.ErrorCode = "GRAPH_RUN_CANCELED"
)
