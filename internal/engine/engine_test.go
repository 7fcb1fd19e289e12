package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/evaluator"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/llm/providers"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/memory"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/planner"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/stages"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

func plan(action, thought string) string {
	return `{"thought": "` + thought + `", "action": "` + action + `", "confidence": 0.9}`
}

func happyTools() Tools {
	return Tools{
		Research: &stages.MockResearchTool{Output: &campaign.ResearchOutput{
			BusinessContext: "specialty coffee roastery",
			MarketInsights:  "reels outperform stills",
			Competitors:     []campaign.CompetitorProfile{{URL: "https://rival.example"}},
			ResearchImages:  []string{"https://img.example/beans.jpg"},
		}},
		Strategy: &stages.MockStrategyTool{Output: &campaign.ContentStrategy{Days: []campaign.StrategyDay{
			{Day: 1, Theme: "origin story", ContentType: "image"},
			{Day: 2, Theme: "brew guide", ContentType: "video"},
			{Day: 3, Theme: "customer love", ContentType: "carousel"},
		}}},
		Creative: &stages.MockCreativeTool{Output: &campaign.CreativeOutput{
			Days: []campaign.CreativeDay{
				{Day: 1, Caption: "Where it all began"},
				{Day: 2, Caption: "Pour with purpose"},
				{Day: 3, Caption: "You said it best"},
			},
			TotalImagesGenerated: 2,
			TotalVideosGenerated: 1,
		}},
		Orchestrate: &stages.MockOrchestrateTool{Output: &campaign.OrchestrationOutput{
			PublishedContentIDs: []string{"c1", "c2", "c3"},
		}},
	}
}

func newEngine(t *testing.T, responses []string, tools Tools, opts ...Option) *Engine {
	t.Helper()
	reasoner := planner.NewMasterReasoner(providers.NewMockProvider(responses))
	eng, err := New(reasoner, tools, opts...)
	require.NoError(t, err)
	return eng
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(nil, happyTools())
	require.Error(t, err)

	reasoner := planner.NewMasterReasoner(providers.NewMockProvider(nil))
	_, err = New(reasoner, Tools{})
	require.Error(t, err)
}

func TestRun_HappyPath(t *testing.T) {
	eng := newEngine(t, []string{
		plan("research", "learn the business first"),
		plan("strategy", "research done, plan the days"),
		plan("creative", "turn the plan into content"),
		plan("orchestrate", "publish the content"),
		plan("evaluate", "check quality before wrapping up"),
		plan("learn", "record what worked"),
	}, happyTools())

	state := campaign.NewState("Launch a 3-day series", "https://roast.example")
	result, err := eng.Run(context.Background(), state)
	require.NoError(t, err)

	final := result.State
	assert.Equal(t, campaign.StatusCompleted, final.Status)
	assert.Equal(t, campaign.StopReasonGoalComplete, result.StopReason)
	assert.NotNil(t, final.CompletedAt)

	require.NotNil(t, final.Research)
	require.NotNil(t, final.Strategy)
	require.NotNil(t, final.Creative)
	require.NotNil(t, final.Orchestration)

	assert.Equal(t, 6, final.Iterations)
	require.Len(t, final.Scratchpad, 6)
	for i, entry := range final.Scratchpad {
		assert.Equal(t, i+1, entry.Step)
	}
	// Every stage action got its observation patched by its own node.
	assert.Contains(t, final.Scratchpad[0].Observation, "competitors profiled")
	assert.Contains(t, final.Scratchpad[1].Observation, "3-day content strategy")
	assert.Contains(t, final.Scratchpad[4].Observation, "quality scores")
	assert.Contains(t, final.Scratchpad[5].Observation, "no learning store configured")

	assert.False(t, final.ShouldRegenerate)
	assert.Positive(t, result.Usage.TotalTokens)
	assert.Positive(t, result.Duration)
}

func TestRun_RegenerationLoop(t *testing.T) {
	// Strategy scores below threshold on its first evaluation and above on
	// the second, so the run regenerates strategy exactly once.
	scorer := &flakyScorer{low: campaign.StageStrategy}
	tools := happyTools()
	// Regeneration routes straight from the gate to the stage node, so no
	// planner response is consumed for the second strategy run.
	eng := newEngine(t, []string{
		plan("research", "start"),
		plan("strategy", "plan"),
		plan("evaluate", "gate the plan"),
		plan("evaluate", "re-gate after regeneration"),
		plan("creative", "content"),
		plan("orchestrate", "publish"),
		plan("learn", "wrap up"),
	}, tools, WithEvaluator(evaluator.NewEvaluator(evaluator.WithScorer(scorer))))

	state := campaign.NewState("goal", "https://a.example")
	result, err := eng.Run(context.Background(), state)
	require.NoError(t, err)

	final := result.State
	assert.Equal(t, campaign.StatusCompleted, final.Status)
	assert.Equal(t, 2, tools.Strategy.(*stages.MockStrategyTool).Calls(),
		"strategy runs once normally and once regenerated")
	score, ok := final.QualityScore(campaign.StageStrategy)
	require.True(t, ok)
	assert.GreaterOrEqual(t, score, final.QualityThreshold)
	assert.False(t, final.ShouldRegenerate, "regeneration flag is consumed by the stage node")
}

// flakyScorer scores the designated stage low on the first pass and high
// afterwards; everything else is always high.
type flakyScorer struct {
	mu     sync.Mutex
	low    campaign.Stage
	passes int
}

func (s *flakyScorer) Score(_ context.Context, stage campaign.Stage, _ *campaign.State) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stage == s.low {
		s.passes++
		if s.passes == 1 {
			return 0.4, nil
		}
	}
	return 0.9, nil
}

func TestRun_ToolFailurePropagates(t *testing.T) {
	tools := happyTools()
	tools.Research = &stages.MockResearchTool{Err: errors.New("timeout")}
	eng := newEngine(t, []string{plan("research", "start")}, tools)

	state := campaign.NewState("goal", "https://a.example")
	result, err := eng.Run(context.Background(), state)
	require.Error(t, err)

	final := result.State
	assert.Equal(t, campaign.StatusFailed, final.Status)
	assert.Equal(t, "timeout", final.ErrorMessage)
	assert.Equal(t, campaign.StopReasonToolFailure, result.StopReason)
	// The thought that caused the failure survives for diagnostics.
	require.Len(t, final.Scratchpad, 1)
	assert.Equal(t, campaign.ActionResearch, final.Scratchpad[0].Action)
}

func TestRun_PartialOutputsSurviveFailure(t *testing.T) {
	tools := happyTools()
	tools.Creative = &stages.MockCreativeTool{Err: errors.New("image model unavailable")}
	eng := newEngine(t, []string{
		plan("research", "start"),
		plan("strategy", "plan"),
		plan("creative", "content"),
	}, tools)

	state := campaign.NewState("goal", "https://a.example")
	result, err := eng.Run(context.Background(), state)
	require.Error(t, err)

	final := result.State
	assert.Equal(t, campaign.StatusFailed, final.Status)
	assert.NotNil(t, final.Research, "completed stages stay intact on partial failure")
	assert.NotNil(t, final.Strategy)
	assert.Nil(t, final.Creative)
}

func TestRun_IterationCapForcesCompletion(t *testing.T) {
	// The planner keeps asking for evaluation forever; the cap ends the run.
	eng := newEngine(t, []string{plan("evaluate", "check again")}, happyTools())

	state := campaign.NewState("goal", "https://a.example",
		campaign.WithMaxIterations(3))
	result, err := eng.Run(context.Background(), state)
	require.NoError(t, err)

	final := result.State
	assert.Equal(t, campaign.StatusCompleted, final.Status)
	assert.Equal(t, campaign.StopReasonMaxIterations, result.StopReason)
	assert.Equal(t, 3, final.Iterations, "iterations never exceed the cap")
	assert.Len(t, final.Scratchpad, 3, "the forced end appends no thought")
}

func TestRun_AtCapBeforeFirstThought(t *testing.T) {
	eng := newEngine(t, []string{plan("research", "never consulted")}, happyTools())

	state := campaign.NewState("goal", "https://a.example",
		campaign.WithMaxIterations(15))
	state.Iterations = 15

	result, err := eng.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, campaign.StatusCompleted, result.State.Status)
	assert.Equal(t, campaign.StopReasonMaxIterations, result.StopReason)
	assert.Equal(t, 15, result.State.Iterations)
	assert.Empty(t, result.State.Scratchpad)
}

func TestRun_EndWithoutLearnSkipsStorage(t *testing.T) {
	store := &mockLearningStore{}
	eng := newEngine(t, []string{
		plan("research", "start"),
		plan("end", "good enough, stop here"),
	}, happyTools(), WithLearningStore(store))

	state := campaign.NewState("goal", "https://a.example",
		campaign.WithIndustry("food"))
	result, err := eng.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, campaign.StatusCompleted, result.State.Status)
	assert.Equal(t, 1, store.retrieves, "learnings are fetched once at run start")
	assert.Empty(t, store.stored, "a planner end without learn stores nothing")
}

func TestRun_LearnStoresOnce(t *testing.T) {
	store := &mockLearningStore{
		hits: []memory.ScoredLearning{{
			Learning:   memory.LearningRecord{Summary: "videos beat stills for food brands", Score: 0.8},
			Similarity: 0.92,
		}},
	}

	eng := newEngine(t, []string{
		plan("research", "start"),
		plan("strategy", "plan"),
		plan("creative", "content"),
		plan("orchestrate", "publish"),
		plan("learn", "remember this"),
	}, happyTools(), WithLearningStore(store))

	state := campaign.NewState("Launch spring menu", "https://a.example",
		campaign.WithIndustry("food"))
	result, err := eng.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Contains(t, result.State.Scratchpad[4].Observation, "stored 1 learning")
	require.Len(t, store.stored, 1)
	assert.Equal(t, state.CampaignID, store.stored[0].CampaignID)
	assert.Equal(t, "food", store.stored[0].Industry)

	require.NotEmpty(t, result.State.PastLearnings,
		"retrieved learnings land on the state before the first reasoner call")
	assert.Equal(t, "videos beat stills for food brands", result.State.PastLearnings[0].Summary)
}

// mockLearningStore records Store calls and serves canned Retrieve hits.
type mockLearningStore struct {
	mu        sync.Mutex
	hits      []memory.ScoredLearning
	stored    []memory.LearningRecord
	retrieves int
}

func (m *mockLearningStore) Store(_ context.Context, record memory.LearningRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = append(m.stored, record)
	return nil
}

func (m *mockLearningStore) Retrieve(_ context.Context, _ memory.RetrieveQuery) ([]memory.ScoredLearning, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retrieves++
	return m.hits, nil
}

func (m *mockLearningStore) Delete(context.Context, string) error { return nil }

func (m *mockLearningStore) Health(context.Context) types.HealthStatus {
	return types.Healthy("mock learning store")
}

func (m *mockLearningStore) Close() error { return nil }

func TestRun_ProgressSink(t *testing.T) {
	var mu sync.Mutex
	var visited []string
	sink := func(node string, snapshot *campaign.State) {
		mu.Lock()
		defer mu.Unlock()
		visited = append(visited, node)
		// Mutating the snapshot must not affect the run.
		snapshot.Scratchpad = nil
	}

	eng := newEngine(t, []string{
		plan("research", "start"),
		plan("end", "done"),
	}, happyTools(), WithProgressSink(sink))

	state := campaign.NewState("goal", "https://a.example")
	result, err := eng.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"retrieve_learnings", "master_reasoner", "research",
		"master_reasoner", "finalize",
	}, visited)
	assert.NotEmpty(t, result.State.Scratchpad)
}

func TestHealth(t *testing.T) {
	eng := newEngine(t, nil, happyTools())
	status := eng.Health(context.Background())
	assert.True(t, status.IsHealthy())
	assert.Equal(t, types.HealthStateHealthy, status.State)
}

func TestRun_ConcurrentCampaigns(t *testing.T) {
	eng := newEngine(t, []string{
		plan("research", "start"),
		plan("strategy", "plan"),
		plan("creative", "content"),
		plan("orchestrate", "publish"),
		plan("learn", "wrap"),
	}, happyTools())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state := campaign.NewState("goal", "https://a.example")
			result, err := eng.Run(context.Background(), state)
			assert.NoError(t, err)
			assert.Equal(t, campaign.StatusCompleted, result.State.Status)
		}()
	}
	wg.Wait()
}
