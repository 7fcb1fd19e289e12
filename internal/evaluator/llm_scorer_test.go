package evaluator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/llm/providers"
)

func TestLLMScorer_ParsesScore(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		"```json\n{\"reasoning\": \"varied themes, all days captioned\", \"score\": 0.85}\n```",
	})
	scorer := NewLLMScorer(provider)

	state := evalState()
	score, err := scorer.Score(context.Background(), campaign.StageStrategy, state)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, score, 1e-9)
	assert.Positive(t, state.Usage.TotalTokens)

	calls := provider.GetCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Request.Messages[1].Content, "Grow bakery social following")
}

func TestLLMScorer_Errors(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "it looks fine to me"},
		{name: "score out of range", response: `{"reasoning": "great", "score": 1.4}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewLLMScorer(providers.NewMockProvider([]string{tt.response}))
			_, err := scorer.Score(context.Background(), campaign.StageStrategy, evalState())
			require.Error(t, err)
		})
	}
}

func TestLLMScorer_MissingOutput(t *testing.T) {
	// The state's stage outputs are nil pointers; scoring any of them must
	// fail before a model call instead of serializing null.
	state := campaign.NewState("goal", "https://a.example")

	for _, stage := range campaign.StagePriority() {
		t.Run(string(stage), func(t *testing.T) {
			provider := providers.NewMockProvider([]string{`{"reasoning": "ok", "score": 0.9}`})
			scorer := NewLLMScorer(provider)

			_, err := scorer.Score(context.Background(), stage, state)
			require.Error(t, err)
			assert.Empty(t, provider.GetCalls())
		})
	}
}
