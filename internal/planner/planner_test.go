package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/llm/providers"
)

func newTestState() *campaign.State {
	return campaign.NewState("Launch a 7-day post series for a coffee roastery", "https://roast.example",
		campaign.WithIndustry("food"))
}

func TestThink_ProposedActionAccepted(t *testing.T) {
	ctx := context.Background()
	provider := providers.NewMockProvider([]string{
		`{"thought": "research is done, strategy is next", "action": "strategy", "reasoning": "pipeline order", "confidence": 0.87}`,
	})
	reasoner := NewMasterReasoner(provider)

	state := newTestState()
	state.Research = &campaign.ResearchOutput{BusinessContext: "specialty roastery"}

	state, err := reasoner.Think(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, campaign.ActionStrategy, state.NextAction)
	assert.Equal(t, campaign.StatusReasoning, state.Status)
	assert.Equal(t, 1, state.Iterations)

	require.Len(t, state.Scratchpad, 1)
	entry := state.Scratchpad[0]
	assert.Equal(t, 1, entry.Step)
	assert.Equal(t, "research is done, strategy is next", entry.Thought)
	assert.Equal(t, campaign.ActionStrategy, entry.Action)
	assert.Equal(t, "pipeline order", entry.ActionInput)
	assert.Equal(t, 0.87, entry.QualityScore)
	assert.Empty(t, entry.Observation)

	assert.Positive(t, state.Usage.TotalTokens, "completion usage must be accumulated")
}

func TestThink_FenceWrappedJSONAccepted(t *testing.T) {
	ctx := context.Background()
	provider := providers.NewMockProvider([]string{
		"Here is my decision:\n```json\n{\"thought\": \"nothing done yet\", \"action\": \"research\", \"confidence\": 0.95}\n```\n",
	})
	reasoner := NewMasterReasoner(provider)

	state, err := reasoner.Think(ctx, newTestState())
	require.NoError(t, err)

	assert.Equal(t, campaign.ActionResearch, state.NextAction)
	assert.Equal(t, "nothing done yet", state.Scratchpad[0].Thought)
}

func TestThink_FallbackOnGarbage_PicksFirstMissingStage(t *testing.T) {
	ctx := context.Background()
	provider := providers.NewMockProvider([]string{
		"I think we should definitely do some marketing! No JSON for you.",
	})
	reasoner := NewMasterReasoner(provider)

	// Nothing has run, so the fallback picks research.
	state, err := reasoner.Think(ctx, newTestState())
	require.NoError(t, err)

	assert.Equal(t, campaign.ActionResearch, state.NextAction)
	assert.Equal(t, 1, state.Iterations)
	require.Len(t, state.Scratchpad, 1)
	assert.Contains(t, state.Scratchpad[0].Thought, "Falling back")
	assert.Zero(t, state.Scratchpad[0].QualityScore)
}

func TestThink_FallbackSkipsCompletedStages(t *testing.T) {
	ctx := context.Background()
	provider := providers.NewMockProvider([]string{"not json"})
	reasoner := NewMasterReasoner(provider)

	// Research and strategy are set, so the first missing stage is creative.
	state := newTestState()
	state.Research = &campaign.ResearchOutput{BusinessContext: "ctx"}
	state.Strategy = &campaign.ContentStrategy{Days: []campaign.StrategyDay{{Day: 1, Theme: "t"}}}

	state, err := reasoner.Think(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, campaign.ActionCreative, state.NextAction)
}

func TestThink_FallbackOnUnknownAction(t *testing.T) {
	ctx := context.Background()
	provider := providers.NewMockProvider([]string{
		`{"thought": "ship it", "action": "deploy", "confidence": 0.99}`,
	})
	reasoner := NewMasterReasoner(provider)

	state := newTestState()
	state.Research = &campaign.ResearchOutput{BusinessContext: "ctx"}

	state, err := reasoner.Think(ctx, state)
	require.NoError(t, err)

	// "deploy" is outside the vocabulary; the fallback wants strategy next.
	assert.Equal(t, campaign.ActionStrategy, state.NextAction)
}

func TestThink_FallbackOnProviderError(t *testing.T) {
	ctx := context.Background()
	provider := providers.NewMockProvider(nil)
	provider.SetError(errors.New("rate limited"))
	reasoner := NewMasterReasoner(provider)

	state, err := reasoner.Think(ctx, newTestState())
	require.NoError(t, err, "provider failures are recovered, never surfaced")

	assert.Equal(t, campaign.ActionResearch, state.NextAction)
	assert.Equal(t, 1, state.Iterations)
	assert.Zero(t, state.Usage.TotalTokens, "failed completions add no usage")
}

func TestThink_FallbackEndsWhenAllStagesComplete(t *testing.T) {
	ctx := context.Background()
	provider := providers.NewMockProvider([]string{"garbage"})
	reasoner := NewMasterReasoner(provider)

	state := newTestState()
	state.Research = &campaign.ResearchOutput{BusinessContext: "ctx"}
	state.Strategy = &campaign.ContentStrategy{}
	state.Creative = &campaign.CreativeOutput{}
	state.Orchestration = &campaign.OrchestrationOutput{}

	state, err := reasoner.Think(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, campaign.ActionEnd, state.NextAction)
}

func TestThink_IterationCapForcesEnd(t *testing.T) {
	ctx := context.Background()
	provider := providers.NewMockProvider([]string{
		`{"thought": "should not be consulted", "action": "research", "confidence": 1}`,
	})
	reasoner := NewMasterReasoner(provider)

	state := newTestState()
	state.Iterations = state.MaxIterations
	require.Equal(t, campaign.DefaultMaxIterations, state.Iterations)

	state, err := reasoner.Think(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, campaign.ActionEnd, state.NextAction)
	assert.Equal(t, campaign.StatusCompleted, state.Status)
	assert.Equal(t, campaign.StopReasonMaxIterations, state.StopReason)
	require.NotNil(t, state.CompletedAt)

	// The forced end short-circuits the whole reasoning step.
	assert.Empty(t, state.Scratchpad)
	assert.Equal(t, campaign.DefaultMaxIterations, state.Iterations)
	assert.Empty(t, provider.GetCalls(), "the LLM must not be consulted at the cap")
}

func TestThink_ClearsTransientRoutingFields(t *testing.T) {
	ctx := context.Background()
	provider := providers.NewMockProvider([]string{
		`{"thought": "strategy scored low, redo it", "action": "strategy", "confidence": 0.8}`,
	})
	reasoner := NewMasterReasoner(provider)

	// Leftovers from a previous evaluator step.
	state := newTestState()
	state.NextAction = campaign.ActionEvaluate
	state.ShouldRegenerate = true
	state.RegenerateAgent = campaign.StageStrategy

	state, err := reasoner.Think(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, campaign.ActionStrategy, state.NextAction)
	assert.False(t, state.ShouldRegenerate)
	assert.Empty(t, state.RegenerateAgent)
}

func TestThink_IterationsIncreaseByOnePerCall(t *testing.T) {
	ctx := context.Background()
	provider := providers.NewMockProvider([]string{
		`{"thought": "t1", "action": "research", "confidence": 0.9}`,
		`{"thought": "t2", "action": "evaluate", "confidence": 0.9}`,
	})
	reasoner := NewMasterReasoner(provider)

	state := newTestState()
	var err error
	state, err = reasoner.Think(ctx, state)
	require.NoError(t, err)
	state, err = reasoner.Think(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, 2, state.Iterations)
	require.Len(t, state.Scratchpad, 2)
	assert.Equal(t, 1, state.Scratchpad[0].Step)
	assert.Equal(t, 2, state.Scratchpad[1].Step)
	assert.Equal(t, campaign.ActionEvaluate, state.NextAction)
}

func TestThink_RequestCarriesStateSummary(t *testing.T) {
	ctx := context.Background()
	provider := providers.NewMockProvider([]string{
		`{"thought": "ok", "action": "research", "confidence": 0.9}`,
	})
	reasoner := NewMasterReasoner(provider,
		WithModel("claude-3-haiku"),
		WithTemperature(0.1),
		WithMaxTokens(512),
	)

	state := newTestState()
	state.PastLearnings = []campaign.Learning{
		{ID: "l1", Summary: "reels beat statics", Score: 0.9},
		{ID: "l2", Summary: "post at 8am", Score: 0.8},
	}

	_, err := reasoner.Think(ctx, state)
	require.NoError(t, err)

	calls := provider.GetCalls()
	require.Len(t, calls, 1)
	req := calls[0].Request

	assert.Equal(t, "claude-3-haiku", req.Model)
	assert.Equal(t, 0.1, req.Temperature)
	assert.Equal(t, 512, req.MaxTokens)

	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[0].Content, "Master Reasoner")
	assert.Contains(t, req.Messages[0].Content, `"action"`)

	prompt := req.Messages[1].Content
	assert.Contains(t, prompt, "Launch a 7-day post series for a coffee roastery")
	assert.Contains(t, prompt, "research: pending")
	assert.Contains(t, prompt, "Past Learnings (2 retrieved)")
	assert.Contains(t, prompt, "reels beat statics")
}

func TestBuildStatePrompt_ScoresAndScratchpad(t *testing.T) {
	state := newTestState()
	state.Research = &campaign.ResearchOutput{BusinessContext: "ctx"}
	state.SetQualityScore(campaign.StageStrategy, 0.5)
	state.SetQualityScore(campaign.StageCreative, 0.9)
	state.AppendThought("looked at the site", campaign.ActionResearch, "", 0.9)
	state.PatchObservation(campaign.ActionResearch, "2 competitors profiled")

	prompt := buildStatePrompt(state)

	assert.Contains(t, prompt, "research: done")
	assert.Contains(t, prompt, "strategy: pending")
	assert.Contains(t, prompt, "Quality Scores (threshold 0.70)")
	assert.Contains(t, prompt, "strategy: 0.50 (below threshold)")
	assert.Contains(t, prompt, "creative: 0.90 (passed)")
	assert.Contains(t, prompt, "step 1: research -> 2 competitors profiled")
	assert.Contains(t, prompt, "Past Learnings (0 retrieved)")
}
