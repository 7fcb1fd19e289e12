// Package engine wires the campaign graph together: learning retrieval,
// the master reasoner, the four stage adapters, the quality gate and
// learning storage. All collaborators arrive through the constructor, so
// the engine holds no process-wide state and distinct campaigns can run
// concurrently, each on its own state instance.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/evaluator"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/graph"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/llm"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/memory"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/planner"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/stages"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// Graph node names. Exported only through the engine's wiring; routing keys
// resolve to these.
const (
	nodeRetrieveLearnings = "retrieve_learnings"
	nodeMasterReasoner    = "master_reasoner"
	nodeEvaluateQuality   = "evaluate_quality"
	nodeStoreLearnings    = "store_learnings"
	nodeFinalize          = "finalize"
)

// Routing keys for the post-evaluation edge.
const (
	routeContinue      = "continue"
	routeRegeneratePfx = "regenerate_"
)

// Learning retrieval bounds for the run-start fetch.
const (
	learningsRetrieveK = 5
	learningsMinScore  = 0.3
)

// Tools bundles the four stage tool implementations the engine drives.
type Tools struct {
	Research    stages.ResearchTool
	Strategy    stages.StrategyTool
	Creative    stages.CreativeTool
	Orchestrate stages.OrchestrateTool
}

// ProgressSink receives a state snapshot after every completed graph node.
// It is fire-and-forget observability: the engine never blocks on it and
// ignores anything it does.
type ProgressSink func(node string, snapshot *campaign.State)

// RunResult is what a finished run hands back to the caller.
type RunResult struct {
	State      *campaign.State
	StopReason campaign.StopReason
	Usage      campaign.TokenUsage
	Duration   time.Duration
}

// Engine executes marketing campaigns over the compiled graph.
type Engine struct {
	planner   planner.Planner
	evaluator *evaluator.Evaluator
	tools     Tools
	store     memory.LearningStore
	provider  llm.Provider

	logger      *slog.Logger
	tracer      trace.Tracer
	nodeTimeout time.Duration
	sink        ProgressSink

	compiled *graph.Compiled[*campaign.State]
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithLearningStore attaches a long-term learning memory. Without one the
// engine runs with no past context and stores nothing at the end.
func WithLearningStore(store memory.LearningStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithEvaluator replaces the default heuristic-scored evaluator.
func WithEvaluator(ev *evaluator.Evaluator) Option {
	return func(e *Engine) {
		if ev != nil {
			e.evaluator = ev
		}
	}
}

// WithProvider registers the LLM provider for health aggregation. The
// planner already holds its own reference; this one is only probed.
func WithProvider(provider llm.Provider) Option {
	return func(e *Engine) { e.provider = provider }
}

// WithLogger sets the logger for engine runs.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer enables OpenTelemetry tracing across the run.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

// WithNodeTimeout bounds every node execution, so a hung stage tool fails
// the node instead of blocking the run forever.
func WithNodeTimeout(d time.Duration) Option {
	return func(e *Engine) { e.nodeTimeout = d }
}

// WithProgressSink registers the observability callback.
func WithProgressSink(sink ProgressSink) Option {
	return func(e *Engine) { e.sink = sink }
}

// New builds and compiles the campaign engine. The planner and all four
// stage tools are required; everything else is optional.
func New(p planner.Planner, tools Tools, opts ...Option) (*Engine, error) {
	if p == nil {
		return nil, types.NewError(ErrCodeEngineInvalid, "planner is required")
	}
	if tools.Research == nil || tools.Strategy == nil || tools.Creative == nil || tools.Orchestrate == nil {
		return nil, types.NewError(ErrCodeEngineInvalid, "all four stage tools are required")
	}

	e := &Engine{
		planner: p,
		tools:   tools,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.evaluator == nil {
		e.evaluator = evaluator.NewEvaluator(
			evaluator.WithLogger(e.logger),
			evaluator.WithTracer(e.tracer),
		)
	}

	compiled, err := e.buildGraph()
	if err != nil {
		return nil, err
	}
	e.compiled = compiled
	return e, nil
}

// buildGraph wires the campaign control flow:
//
//	retrieve_learnings -> master_reasoner -> {stage|evaluate|learn|end}
//	stage -> master_reasoner
//	evaluate_quality -> {regenerate_<stage> | continue}
//	store_learnings -> finalize -> End
func (e *Engine) buildGraph() (*graph.Compiled[*campaign.State], error) {
	adapterOpts := []stages.Option{
		stages.WithLogger(e.logger),
		stages.WithTracer(e.tracer),
	}
	research := stages.NewResearchAdapter(e.tools.Research, adapterOpts...)
	strategy := stages.NewStrategyAdapter(e.tools.Strategy, adapterOpts...)
	creative := stages.NewCreativeAdapter(e.tools.Creative, adapterOpts...)
	orchestrate := stages.NewOrchestrateAdapter(e.tools.Orchestrate, adapterOpts...)

	g := graph.New[*campaign.State]().
		AddNode(nodeRetrieveLearnings, e.retrieveLearnings).
		AddNode(nodeMasterReasoner, e.planner.Think).
		AddNode(campaign.StageResearch.String(), e.stageNode(research)).
		AddNode(campaign.StageStrategy.String(), e.stageNode(strategy)).
		AddNode(campaign.StageCreative.String(), e.stageNode(creative)).
		AddNode(campaign.StageOrchestrate.String(), e.stageNode(orchestrate)).
		AddNode(nodeEvaluateQuality, e.evaluator.Evaluate).
		AddNode(nodeStoreLearnings, e.storeLearnings).
		AddNode(nodeFinalize, e.finalize).
		SetEntry(nodeRetrieveLearnings).
		AddEdge(nodeRetrieveLearnings, nodeMasterReasoner).
		AddConditionalEdge(nodeMasterReasoner, routeNextAction, map[string]string{
			campaign.ActionResearch.String():    campaign.StageResearch.String(),
			campaign.ActionStrategy.String():    campaign.StageStrategy.String(),
			campaign.ActionCreative.String():    campaign.StageCreative.String(),
			campaign.ActionOrchestrate.String(): campaign.StageOrchestrate.String(),
			campaign.ActionEvaluate.String():    nodeEvaluateQuality,
			campaign.ActionLearn.String():       nodeStoreLearnings,
			campaign.ActionEnd.String():         nodeFinalize,
		}).
		AddEdge(campaign.StageResearch.String(), nodeMasterReasoner).
		AddEdge(campaign.StageStrategy.String(), nodeMasterReasoner).
		AddEdge(campaign.StageCreative.String(), nodeMasterReasoner).
		AddEdge(campaign.StageOrchestrate.String(), nodeMasterReasoner).
		AddConditionalEdge(nodeEvaluateQuality, routeAfterEvaluation, map[string]string{
			routeContinue: nodeMasterReasoner,
			routeRegeneratePfx + campaign.StageResearch.String():    campaign.StageResearch.String(),
			routeRegeneratePfx + campaign.StageStrategy.String():    campaign.StageStrategy.String(),
			routeRegeneratePfx + campaign.StageCreative.String():    campaign.StageCreative.String(),
			routeRegeneratePfx + campaign.StageOrchestrate.String(): campaign.StageOrchestrate.String(),
		}).
		AddEdge(nodeStoreLearnings, nodeFinalize).
		AddEdge(nodeFinalize, graph.End)

	compileOpts := []graph.Option[*campaign.State]{
		graph.WithLogger[*campaign.State](e.logger),
	}
	if e.tracer != nil {
		compileOpts = append(compileOpts, graph.WithTracer[*campaign.State](e.tracer))
	}
	if e.nodeTimeout > 0 {
		compileOpts = append(compileOpts, graph.WithNodeTimeout[*campaign.State](e.nodeTimeout))
	}
	if e.sink != nil {
		sink := e.sink
		compileOpts = append(compileOpts, graph.WithStepObserver[*campaign.State](
			func(node string, state *campaign.State) {
				sink(node, state.Clone())
			}))
	}
	return g.Compile(compileOpts...)
}

// routeNextAction routes the reasoner's decision. The planner only ever
// sets vocabulary members, so every reachable value has a registered target.
func routeNextAction(state *campaign.State) string {
	return state.NextAction.String()
}

// routeAfterEvaluation routes the quality gate's verdict.
func routeAfterEvaluation(state *campaign.State) string {
	if state.ShouldRegenerate {
		return routeRegeneratePfx + state.RegenerateAgent.String()
	}
	return routeContinue
}

// stageNode wraps a stage adapter as a graph node, folding the regeneration
// marker into the status machine on the way in.
func (e *Engine) stageNode(adapter *stages.Adapter) graph.NodeFunc[*campaign.State] {
	stage := adapter.Stage()
	return func(ctx context.Context, state *campaign.State) (*campaign.State, error) {
		if state.ShouldRegenerate && state.RegenerateAgent == stage {
			state.Status = campaign.StatusRegenerating
			state.ShouldRegenerate = false
			state.RegenerateAgent = ""
		}
		return adapter.Execute(ctx, state)
	}
}

// retrieveLearnings loads past-campaign context once at run start. A
// retrieval failure degrades to an empty snapshot rather than failing the
// run; memory is advisory.
func (e *Engine) retrieveLearnings(ctx context.Context, state *campaign.State) (*campaign.State, error) {
	state.Status = campaign.StatusReasoning
	if e.store == nil {
		return state, nil
	}

	results, err := e.store.Retrieve(ctx, memory.RetrieveQuery{
		Text:     fmt.Sprintf("%s %s", state.Goal, state.Industry),
		Industry: state.Industry,
		TopK:     learningsRetrieveK,
		MinScore: learningsMinScore,
	})
	if err != nil {
		e.logger.WarnContext(ctx, "Learning retrieval failed, continuing without past context",
			"campaign_id", state.CampaignID,
			"error", err,
		)
		return state, nil
	}

	state.PastLearnings = memory.ToCampaignLearnings(results)
	e.logger.InfoContext(ctx, "Retrieved past learnings",
		"campaign_id", state.CampaignID,
		"count", len(state.PastLearnings),
	)
	return state, nil
}

// storeLearnings distills the finished campaign into a learning record. A
// storage failure is logged and swallowed: the content work is done and the
// run should still complete.
func (e *Engine) storeLearnings(ctx context.Context, state *campaign.State) (*campaign.State, error) {
	state.Status = campaign.StatusLearning
	if e.store == nil {
		state.PatchObservation(campaign.ActionLearn, "no learning store configured, nothing stored")
		return state, nil
	}

	record := memory.NewRecordFromCampaign(state)
	if err := e.store.Store(ctx, record); err != nil {
		e.logger.WarnContext(ctx, "Learning storage failed",
			"campaign_id", state.CampaignID,
			"error", err,
		)
		state.PatchObservation(campaign.ActionLearn, "learning storage failed")
		return state, nil
	}

	state.PatchObservation(campaign.ActionLearn,
		fmt.Sprintf("stored 1 learning record (quality %.2f)", record.Score))
	e.logger.InfoContext(ctx, "Stored campaign learning",
		"campaign_id", state.CampaignID,
		"learning_id", record.ID,
	)
	return state, nil
}

// finalize closes out the run. The forced iteration-cap end arrives here
// already terminal and is left alone.
func (e *Engine) finalize(ctx context.Context, state *campaign.State) (*campaign.State, error) {
	if !state.Status.IsTerminal() {
		state.MarkCompleted(campaign.StopReasonGoalComplete)
	}
	e.logger.InfoContext(ctx, "Campaign run finished",
		"campaign_id", state.CampaignID,
		"status", state.Status,
		"stop_reason", state.StopReason,
		"iterations", state.Iterations,
	)
	return state, nil
}

// Run executes one campaign to a terminal status. The returned state is
// always usable: on failure it still carries every stage output produced
// before the failure, plus the failure message, and the error propagates
// to the caller.
func (e *Engine) Run(ctx context.Context, state *campaign.State) (*RunResult, error) {
	if state == nil {
		return nil, types.NewError(ErrCodeEngineInvalid, "campaign state is required")
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}

	if e.tracer != nil {
		var span trace.Span
		ctx, span = e.tracer.Start(ctx, "engine.run",
			trace.WithAttributes(
				attribute.String("campaign.id", state.CampaignID.String()),
				attribute.String("campaign.goal", state.Goal),
			))
		defer span.End()
	}

	e.logger.InfoContext(ctx, "Starting campaign run",
		"campaign_id", state.CampaignID,
		"goal", state.Goal,
		"max_iterations", state.MaxIterations,
	)

	started := time.Now()
	final, err := e.compiled.Run(ctx, state)
	result := &RunResult{
		State:      final,
		StopReason: final.StopReason,
		Usage:      final.Usage,
		Duration:   time.Since(started),
	}
	if err != nil {
		if !final.Status.IsTerminal() {
			final.MarkFailed(err.Error())
		}
		result.StopReason = final.StopReason
		return result, err
	}
	return result, nil
}

// Health aggregates the health of the engine's external collaborators.
func (e *Engine) Health(ctx context.Context) types.HealthStatus {
	statuses := []types.HealthStatus{types.Healthy("engine compiled")}
	if e.provider != nil {
		statuses = append(statuses, e.provider.Health(ctx))
	}
	if e.store != nil {
		statuses = append(statuses, e.store.Health(ctx))
	}
	return types.WorstOf(statuses...)
}
