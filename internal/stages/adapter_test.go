package stages

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

func newRunState() *campaign.State {
	state := campaign.NewState("Grow online presence", "https://shop.example",
		campaign.WithCompetitorURLs([]string{"https://rival.example"}))
	return state
}

func TestResearchAdapter_Success(t *testing.T) {
	tool := &MockResearchTool{Output: &campaign.ResearchOutput{
		BusinessContext: "local shop",
		Competitors:     []campaign.CompetitorProfile{{URL: "https://rival.example"}},
		ResearchImages:  []string{"https://img.example/a.jpg"},
	}}
	adapter := NewResearchAdapter(tool)

	state := newRunState()
	state.AppendThought("start with research", campaign.ActionResearch, "", 0.9)

	state, err := adapter.Execute(context.Background(), state)
	require.NoError(t, err)

	require.NotNil(t, state.Research)
	assert.Equal(t, campaign.StatusResearching, state.Status)
	assert.Contains(t, state.Scratchpad[0].Observation, "1 competitors profiled")

	require.Equal(t, 1, tool.Calls())
	assert.Equal(t, "https://shop.example", tool.Inputs[0].BusinessURL)
	assert.Equal(t, []string{"https://rival.example"}, tool.Inputs[0].CompetitorURLs)
}

func TestStrategyAdapter_PreconditionUnmet(t *testing.T) {
	tool := &MockStrategyTool{Output: &campaign.ContentStrategy{}}
	adapter := NewStrategyAdapter(tool)

	state := newRunState()
	state.Iterations = 2

	state, err := adapter.Execute(context.Background(), state)
	require.NoError(t, err)

	// Soft no-op: nothing mutated except status, tool never invoked,
	// iterations untouched.
	assert.Equal(t, campaign.StatusReasoning, state.Status)
	assert.Nil(t, state.Strategy)
	assert.Equal(t, 2, state.Iterations)
	assert.Equal(t, 0, tool.Calls())
}

func TestCreativeAdapter_RequiresOnlyStrategy(t *testing.T) {
	tool := &MockCreativeTool{Output: &campaign.CreativeOutput{
		Days:                 []campaign.CreativeDay{{Day: 1, Caption: "hello"}},
		TotalImagesGenerated: 1,
	}}
	adapter := NewCreativeAdapter(tool)

	state := newRunState()
	state.Strategy = &campaign.ContentStrategy{Days: []campaign.StrategyDay{{Day: 1, Theme: "launch"}}}

	state, err := adapter.Execute(context.Background(), state)
	require.NoError(t, err)

	require.NotNil(t, state.Creative)
	assert.Equal(t, campaign.StatusCreating, state.Status)
	require.Equal(t, 1, tool.Calls())
	assert.Empty(t, tool.Inputs[0].ResearchImages, "no research means no images, not a blocked stage")
}

func TestCreativeAdapter_PassesResearchImages(t *testing.T) {
	tool := &MockCreativeTool{Output: &campaign.CreativeOutput{}}
	adapter := NewCreativeAdapter(tool)

	state := newRunState()
	state.Research = &campaign.ResearchOutput{ResearchImages: []string{"https://img.example/a.jpg"}}
	state.Strategy = &campaign.ContentStrategy{Days: []campaign.StrategyDay{{Day: 1}}}

	_, err := adapter.Execute(context.Background(), state)
	require.NoError(t, err)
	require.Equal(t, 1, tool.Calls())
	assert.Equal(t, []string{"https://img.example/a.jpg"}, tool.Inputs[0].ResearchImages)
}

func TestOrchestrateAdapter_Success(t *testing.T) {
	tool := &MockOrchestrateTool{Output: &campaign.OrchestrationOutput{
		PublishedContentIDs: []string{"c1", "c2"},
	}}
	adapter := NewOrchestrateAdapter(tool)

	state := newRunState()
	state.Creative = &campaign.CreativeOutput{Days: []campaign.CreativeDay{{Day: 1}, {Day: 2}}}
	state.AppendThought("publish it", campaign.ActionOrchestrate, "", 0.9)

	state, err := adapter.Execute(context.Background(), state)
	require.NoError(t, err)

	require.NotNil(t, state.Orchestration)
	assert.Equal(t, campaign.StatusOrchestrating, state.Status)
	assert.Contains(t, state.Scratchpad[0].Observation, "2 content items")
}

func TestAdapter_ToolFailureIsTerminal(t *testing.T) {
	tool := &MockResearchTool{Err: errors.New("timeout")}
	adapter := NewResearchAdapter(tool)

	state := newRunState()
	state, err := adapter.Execute(context.Background(), state)
	require.Error(t, err)

	assert.Equal(t, campaign.StatusFailed, state.Status)
	assert.Equal(t, "timeout", state.ErrorMessage)
	assert.Equal(t, campaign.StopReasonToolFailure, state.StopReason)
	assert.NotNil(t, state.CompletedAt)

	// The original tool error stays reachable through the wrap.
	var cgErr *types.ContentGenError
	require.ErrorAs(t, err, &cgErr)
	assert.Equal(t, ErrCodeToolFailed, cgErr.Code)
	assert.EqualError(t, errors.Unwrap(cgErr), "timeout")
}

func TestAdapter_NilOutputIsFailure(t *testing.T) {
	adapter := NewStrategyAdapter(&MockStrategyTool{})

	state := newRunState()
	state.Research = &campaign.ResearchOutput{BusinessContext: "shop"}

	state, err := adapter.Execute(context.Background(), state)
	require.Error(t, err)
	assert.Equal(t, campaign.StatusFailed, state.Status)
	assert.Nil(t, state.Strategy)
}

func TestAdapter_ObservationOnlyPatchesOwnEntry(t *testing.T) {
	tool := &MockResearchTool{Output: &campaign.ResearchOutput{BusinessContext: "shop"}}
	adapter := NewResearchAdapter(tool)

	// Last scratchpad entry belongs to a different action, so no patch.
	state := newRunState()
	state.AppendThought("evaluating first", campaign.ActionEvaluate, "", 0.5)

	state, err := adapter.Execute(context.Background(), state)
	require.NoError(t, err)

	assert.NotNil(t, state.Research)
	assert.Empty(t, state.Scratchpad[0].Observation)
}

func TestStaticTools_FullPipeline(t *testing.T) {
	ctx := context.Background()
	tools := NewStaticTools(7)
	state := newRunState()

	research, err := tools.Research(ctx, ResearchInput{
		BusinessURL:    state.BusinessURL,
		CompetitorURLs: state.CompetitorURLs,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, research.BusinessContext)
	assert.Len(t, research.Competitors, 1)

	strategy, err := tools.BuildStrategy(ctx, StrategyInput{
		CampaignID: state.CampaignID,
		Goal:       state.Goal,
		Research:   research,
	})
	require.NoError(t, err)
	require.Len(t, strategy.Days, 7)
	for i, day := range strategy.Days {
		assert.Equal(t, i+1, day.Day)
		assert.NotEmpty(t, day.Theme)
		assert.NotEmpty(t, day.ContentType)
	}

	creative, err := tools.GenerateCreative(ctx, CreativeInput{
		CampaignID:     state.CampaignID,
		Strategy:       strategy,
		ResearchImages: research.ResearchImages,
	})
	require.NoError(t, err)
	require.Len(t, creative.Days, 7)
	assert.Equal(t, len(creative.Days), creative.TotalImagesGenerated+creative.TotalVideosGenerated)

	published, err := tools.Publish(ctx, OrchestrateInput{
		CampaignID: state.CampaignID,
		Creative:   creative,
	})
	require.NoError(t, err)
	assert.Len(t, published.PublishedContentIDs, 7)
}
