package config

import (
	"fmt"
	"strings"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// Scorer strategy names.
const (
	ScorerHeuristic = "heuristic"
	ScorerLLM       = "llm"
)

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Engine.MaxIterations <= 0 {
		errs = append(errs, fmt.Sprintf("engine.max_iterations must be positive, got %d", c.Engine.MaxIterations))
	}
	if c.Engine.QualityThreshold < 0 || c.Engine.QualityThreshold > 1 {
		errs = append(errs, fmt.Sprintf("engine.quality_threshold must be between 0 and 1, got %f", c.Engine.QualityThreshold))
	}
	if c.Engine.NodeTimeout < 0 {
		errs = append(errs, "engine.node_timeout must not be negative")
	}

	if c.Planner.Model == "" {
		errs = append(errs, "planner.model is required")
	}
	if c.Planner.Temperature < 0 || c.Planner.Temperature > 1 {
		errs = append(errs, fmt.Sprintf("planner.temperature must be between 0 and 1, got %f", c.Planner.Temperature))
	}
	if c.Planner.MaxTokens <= 0 {
		errs = append(errs, fmt.Sprintf("planner.max_tokens must be positive, got %d", c.Planner.MaxTokens))
	}

	if err := c.Provider.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("provider: %v", err))
	}

	switch c.Evaluator.Scorer {
	case ScorerHeuristic:
	case ScorerLLM:
		if c.Evaluator.Model == "" {
			errs = append(errs, "evaluator.model is required for the llm scorer")
		}
	default:
		errs = append(errs, fmt.Sprintf("evaluator.scorer must be %q or %q, got %q", ScorerHeuristic, ScorerLLM, c.Evaluator.Scorer))
	}

	if c.Memory.Enabled {
		switch c.Memory.Backend {
		case "embedded":
		case "sqlite":
			if c.Memory.Path == "" {
				errs = append(errs, "memory.path is required for the sqlite backend")
			}
		default:
			errs = append(errs, fmt.Sprintf("memory.backend must be embedded or sqlite, got %q", c.Memory.Backend))
		}
		if err := c.Memory.Embedder.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("memory.embedder: %v", err))
		}
	}

	if len(errs) > 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("config validation failed with %d error(s): %s", len(errs), strings.Join(errs, "; ")))
	}
	return nil
}
