package config

import (
	"time"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/llm"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/memory/embedder"
)

// DefaultConfig returns a runnable local-first configuration: the mock
// provider, heuristic scoring, and memory disabled.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxIterations:    campaign.DefaultMaxIterations,
			QualityThreshold: campaign.DefaultQualityThreshold,
			NodeTimeout:      Duration(2 * time.Minute),
		},
		Planner: PlannerConfig{
			Model:       "claude-3-5-sonnet",
			Temperature: 0.2,
			MaxTokens:   1024,
		},
		Provider: llm.ProviderConfig{
			Type: llm.ProviderMock,
		},
		Evaluator: EvaluatorConfig{
			Scorer: ScorerHeuristic,
		},
		Memory: MemoryConfig{
			Enabled:  false,
			Backend:  "embedded",
			Embedder: embedder.DefaultConfig(),
		},
	}
}

// applyDefaults fills zero values on a loaded config so partial YAML files
// stay valid.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Engine.MaxIterations == 0 {
		c.Engine.MaxIterations = defaults.Engine.MaxIterations
	}
	if c.Engine.QualityThreshold == 0 {
		c.Engine.QualityThreshold = defaults.Engine.QualityThreshold
	}
	if c.Planner.Model == "" {
		c.Planner.Model = defaults.Planner.Model
	}
	if c.Planner.MaxTokens == 0 {
		c.Planner.MaxTokens = defaults.Planner.MaxTokens
	}
	if c.Provider.Type == "" {
		c.Provider.Type = defaults.Provider.Type
	}
	if c.Evaluator.Scorer == "" {
		c.Evaluator.Scorer = ScorerHeuristic
	}
	if c.Memory.Backend == "" {
		c.Memory.Backend = defaults.Memory.Backend
	}
	if c.Memory.Enabled && c.Memory.Embedder.Provider == "" {
		c.Memory.Embedder = defaults.Memory.Embedder
	}
}
