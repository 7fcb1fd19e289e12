// Package evaluator scores completed stage outputs and decides whether a
// stage must be regenerated. Scoring is a pluggable strategy: the default
// is a fast rule-based checklist, with an LLM-backed scorer available for
// deployments that want model judgment. Stages are walked in pipeline
// priority order and at most one regeneration target is picked per pass.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
)

// StageScorer evaluates one stage's output against the campaign goal and
// returns a score in [0,1].
type StageScorer interface {
	Score(ctx context.Context, stage campaign.Stage, state *campaign.State) (float64, error)
}

// Evaluator runs the quality gate over a campaign state.
type Evaluator struct {
	scorer   StageScorer
	fallback StageScorer
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option is a functional option for configuring an Evaluator.
type Option func(*Evaluator)

// WithScorer replaces the default heuristic scorer.
func WithScorer(scorer StageScorer) Option {
	return func(e *Evaluator) {
		if scorer != nil {
			e.scorer = scorer
		}
	}
}

// WithLogger sets the logger for evaluation passes.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer enables OpenTelemetry tracing for evaluation passes.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Evaluator) {
		e.tracer = tracer
	}
}

// NewEvaluator creates an evaluator. Without options it scores with the
// rule-based heuristic.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		scorer:   NewHeuristicScorer(),
		fallback: NewHeuristicScorer(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores every stage that has produced output, in pipeline
// priority order. The first stage scoring below the campaign's quality
// threshold becomes the regeneration target and the walk stops, so a
// single pass never flags more than one stage. Scores land in the state's
// quality score map either way.
//
// A scorer failure is not a run failure: the stage falls back to the
// heuristic score so the quality gate always produces a verdict.
func (e *Evaluator) Evaluate(ctx context.Context, state *campaign.State) (*campaign.State, error) {
	if e.tracer != nil {
		var span trace.Span
		ctx, span = e.tracer.Start(ctx, "evaluator.evaluate",
			trace.WithAttributes(
				attribute.String("campaign.id", state.CampaignID.String()),
				attribute.Float64("campaign.quality_threshold", state.QualityThreshold),
			))
		defer span.End()
	}

	state.Status = campaign.StatusEvaluating
	state.ShouldRegenerate = false
	state.RegenerateAgent = ""

	var scored []string
	for _, stage := range campaign.StagePriority() {
		if !state.HasStage(stage) {
			continue
		}

		score := e.scoreStage(ctx, stage, state)
		state.SetQualityScore(stage, score)
		scored = append(scored, fmt.Sprintf("%s=%.2f", stage, score))

		if score < state.QualityThreshold {
			state.ShouldRegenerate = true
			state.RegenerateAgent = stage
			e.logger.InfoContext(ctx, "Stage below quality threshold, flagging regeneration",
				"campaign_id", state.CampaignID,
				"stage", stage,
				"score", score,
				"threshold", state.QualityThreshold,
			)
			break
		}
	}

	observation := fmt.Sprintf("quality scores: %s", strings.Join(scored, ", "))
	if len(scored) == 0 {
		observation = "no stage outputs to evaluate"
	}
	if state.ShouldRegenerate {
		observation += fmt.Sprintf("; regenerating %s", state.RegenerateAgent)
	}
	state.PatchObservation(campaign.ActionEvaluate, observation)

	e.logger.DebugContext(ctx, "Evaluation pass finished",
		"campaign_id", state.CampaignID,
		"scored", len(scored),
		"should_regenerate", state.ShouldRegenerate,
	)
	return state, nil
}

// scoreStage applies the configured scorer with heuristic fallback.
func (e *Evaluator) scoreStage(ctx context.Context, stage campaign.Stage, state *campaign.State) float64 {
	score, err := e.scorer.Score(ctx, stage, state)
	if err != nil {
		e.logger.WarnContext(ctx, "Stage scorer failed, using heuristic fallback",
			"campaign_id", state.CampaignID,
			"stage", stage,
			"error", err,
		)
		score, err = e.fallback.Score(ctx, stage, state)
		if err != nil {
			// The heuristic never fails; this branch guards a future
			// fallback swap.
			return 0
		}
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
