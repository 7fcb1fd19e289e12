package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/llm"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// Defaults applied by NewLLMScorer when no option overrides them.
const (
	DefaultScorerModel       = "claude-3-5-haiku"
	DefaultScorerTemperature = 0.0
	DefaultScorerMaxTokens   = 512
)

// ErrCodeScoreFailed marks an LLM scoring attempt that produced no usable
// score. The evaluator recovers it with the heuristic fallback.
const ErrCodeScoreFailed types.ErrorCode = "EVALUATOR_SCORE_FAILED"

const scorerSystemPrompt = `You are a marketing content quality reviewer.
You will be shown one stage output from an automated content campaign and the campaign goal.
Judge how complete and useful the output is for that goal.

Respond with strict JSON only:
{"reasoning": "<one or two sentences, written before the score>", "score": <number between 0.0 and 1.0>}

Score 0.9+ only for thorough, varied, goal-aligned output. Score below 0.5 for thin or incomplete output.`

// scoreResponse is the JSON shape the scoring model must answer with. The
// model is asked for reasoning before the score to avoid anchoring.
type scoreResponse struct {
	Reasoning string  `json:"reasoning"`
	Score     float64 `json:"score"`
}

// LLMScorer asks a language model to judge stage output quality. It is the
// optional alternative to the heuristic checklist; failures surface as
// errors so the evaluator can fall back.
type LLMScorer struct {
	provider    llm.Provider
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// LLMScorerOption is a functional option for configuring an LLMScorer.
type LLMScorerOption func(*LLMScorer)

// WithScorerModel sets the model used for scoring.
func WithScorerModel(model string) LLMScorerOption {
	return func(s *LLMScorer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithScorerLogger sets the logger for scoring calls.
func WithScorerLogger(logger *slog.Logger) LLMScorerOption {
	return func(s *LLMScorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewLLMScorer creates a model-backed stage scorer.
func NewLLMScorer(provider llm.Provider, opts ...LLMScorerOption) *LLMScorer {
	s := &LLMScorer{
		provider:    provider,
		model:       DefaultScorerModel,
		temperature: DefaultScorerTemperature,
		maxTokens:   DefaultScorerMaxTokens,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score asks the model to rate the stage output in [0,1].
func (s *LLMScorer) Score(ctx context.Context, stage campaign.Stage, state *campaign.State) (float64, error) {
	if s.provider == nil {
		return 0, types.NewError(ErrCodeScoreFailed, "no provider configured")
	}

	prompt, err := buildScorePrompt(stage, state)
	if err != nil {
		return 0, err
	}

	resp, err := s.provider.Complete(ctx, llm.NewCompletionRequest(s.model,
		[]llm.Message{
			llm.NewSystemMessage(scorerSystemPrompt),
			llm.NewUserMessage(prompt),
		},
		llm.WithTemperature(s.temperature),
		llm.WithMaxTokens(s.maxTokens),
	))
	if err != nil {
		return 0, types.WrapError(ErrCodeScoreFailed,
			fmt.Sprintf("scoring completion for %s failed", stage), err)
	}
	state.AddTokens(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)

	parsed, err := llm.ExtractJSONAs[scoreResponse](resp.Message.Content)
	if err != nil {
		return 0, types.WrapError(ErrCodeScoreFailed,
			fmt.Sprintf("scoring response for %s not parseable", stage), err)
	}
	if parsed.Score < 0 || parsed.Score > 1 {
		return 0, types.NewError(ErrCodeScoreFailed,
			fmt.Sprintf("scoring response for %s out of range: %f", stage, parsed.Score))
	}

	s.logger.DebugContext(ctx, "LLM stage score",
		"campaign_id", state.CampaignID,
		"stage", stage,
		"score", parsed.Score,
		"reasoning", parsed.Reasoning,
	)
	return parsed.Score, nil
}

// buildScorePrompt renders the goal plus the stage output as compact JSON.
func buildScorePrompt(stage campaign.Stage, state *campaign.State) (string, error) {
	// Nil checks happen per case: a nil stage pointer boxed into an any is
	// no longer == nil, so checking the interface afterwards would miss it.
	var output any
	switch stage {
	case campaign.StageResearch:
		if state.Research == nil {
			return "", types.NewError(ErrCodeScoreFailed, fmt.Sprintf("stage %s has no output to score", stage))
		}
		output = state.Research
	case campaign.StageStrategy:
		if state.Strategy == nil {
			return "", types.NewError(ErrCodeScoreFailed, fmt.Sprintf("stage %s has no output to score", stage))
		}
		output = state.Strategy
	case campaign.StageCreative:
		if state.Creative == nil {
			return "", types.NewError(ErrCodeScoreFailed, fmt.Sprintf("stage %s has no output to score", stage))
		}
		output = state.Creative
	case campaign.StageOrchestrate:
		if state.Orchestration == nil {
			return "", types.NewError(ErrCodeScoreFailed, fmt.Sprintf("stage %s has no output to score", stage))
		}
		output = state.Orchestration
	default:
		return "", types.NewError(ErrCodeScoreFailed, fmt.Sprintf("unknown stage %q", stage))
	}

	encoded, err := json.Marshal(output)
	if err != nil {
		return "", types.WrapError(ErrCodeScoreFailed,
			fmt.Sprintf("stage %s output not serializable", stage), err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Campaign goal: %s\n", state.Goal)
	if state.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", state.Industry)
	}
	fmt.Fprintf(&b, "Stage under review: %s\n\n", stage)
	fmt.Fprintf(&b, "Stage output:\n%s\n", encoded)
	return b.String(), nil
}
