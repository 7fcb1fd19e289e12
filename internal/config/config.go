// Package config defines the YAML configuration for the content generation
// engine and its collaborators. Loading expands ${ENV_VAR} references so
// API keys never have to live in the file itself.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/llm"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/memory/embedder"
)

// Duration is a time.Duration that decodes from YAML duration strings
// ("90s", "2m") as well as integer nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value: %s", value.Value)
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration.
type Config struct {
	Engine    EngineConfig       `yaml:"engine"`
	Planner   PlannerConfig      `yaml:"planner"`
	Provider  llm.ProviderConfig `yaml:"provider"`
	Evaluator EvaluatorConfig    `yaml:"evaluator"`
	Memory    MemoryConfig       `yaml:"memory"`
}

// EngineConfig bounds a campaign run.
type EngineConfig struct {
	// MaxIterations caps planner invocations per run.
	MaxIterations int `yaml:"max_iterations"`

	// QualityThreshold is the minimum stage score that avoids regeneration.
	QualityThreshold float64 `yaml:"quality_threshold"`

	// NodeTimeout bounds each graph node execution. Zero disables it.
	NodeTimeout Duration `yaml:"node_timeout"`
}

// PlannerConfig tunes the master reasoner's LLM calls.
type PlannerConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// EvaluatorConfig selects the quality scoring strategy.
type EvaluatorConfig struct {
	// Scorer is "heuristic" (default) or "llm".
	Scorer string `yaml:"scorer"`

	// Model is used by the llm scorer only.
	Model string `yaml:"model,omitempty"`
}

// MemoryConfig wires the long-term learning memory. Disabled means the
// engine runs without past-campaign context.
type MemoryConfig struct {
	Enabled bool `yaml:"enabled"`

	// Backend is "embedded" (default) or "sqlite".
	Backend string `yaml:"backend,omitempty"`

	// Path is the sqlite database file, sqlite backend only.
	Path string `yaml:"path,omitempty"`

	Embedder embedder.Config `yaml:"embedder"`
}
