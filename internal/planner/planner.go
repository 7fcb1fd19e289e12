// Package planner implements the Master Reasoner: the LLM-driven decision
// step that picks the next campaign action. Every planner failure mode
// (provider error, unparseable output, unknown action) is recovered locally
// with a deterministic pipeline-order fallback, so a run never dies because
// the model rambled.
package planner

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/llm"
)

// Defaults applied by NewMasterReasoner when no option overrides them.
const (
	DefaultModel       = "claude-3-5-sonnet"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 1024
)

// Planner decides the next campaign action from the current state.
type Planner interface {
	Think(ctx context.Context, state *campaign.State) (*campaign.State, error)
}

// PlanResponse is the strict JSON shape the LLM must answer with.
type PlanResponse struct {
	Thought    string  `json:"thought"`
	Action     string  `json:"action"`
	Reasoning  string  `json:"reasoning,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// decision is a validated plan: the action is always a vocabulary member.
type decision struct {
	Thought    string
	Action     campaign.Action
	Reasoning  string
	Confidence float64
}

// MasterReasoner implements Planner over an LLM provider.
type MasterReasoner struct {
	provider    llm.Provider
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
	tracer      trace.Tracer
}

// Option is a functional option for configuring the MasterReasoner.
type Option func(*MasterReasoner)

// WithModel sets the model requested from the provider.
func WithModel(model string) Option {
	return func(p *MasterReasoner) {
		if model != "" {
			p.model = model
		}
	}
}

// WithTemperature sets the sampling temperature for planner calls.
func WithTemperature(temp float64) Option {
	return func(p *MasterReasoner) {
		if temp >= 0 && temp <= 1 {
			p.temperature = temp
		}
	}
}

// WithMaxTokens caps the planner completion length.
func WithMaxTokens(n int) Option {
	return func(p *MasterReasoner) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithLogger sets the logger for planner decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(p *MasterReasoner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTracer enables OpenTelemetry tracing for planner calls.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *MasterReasoner) {
		p.tracer = tracer
	}
}

// NewMasterReasoner creates a planner backed by the given provider. A low
// default temperature keeps decisions consistent across iterations.
func NewMasterReasoner(provider llm.Provider, opts ...Option) *MasterReasoner {
	p := &MasterReasoner{
		provider:    provider,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Think picks the next action and records it on the state.
//
// At the iteration cap the planner forces an end without consulting the LLM:
// no thought is appended, iterations does not increment, and the state goes
// terminal with the max_iterations stop reason. Below the cap it asks the
// model, falls back deterministically on any failure, then appends the
// thought, increments iterations, and sets next_action for the router.
func (p *MasterReasoner) Think(ctx context.Context, state *campaign.State) (*campaign.State, error) {
	if p.tracer != nil {
		var span trace.Span
		ctx, span = p.tracer.Start(ctx, "planner.think",
			trace.WithAttributes(
				attribute.String("campaign.id", state.CampaignID.String()),
				attribute.Int("campaign.iteration", state.Iterations),
			))
		defer span.End()
	}

	// Transient routing fields are only valid between their producer and
	// the router that consumes them.
	state.Status = campaign.StatusReasoning
	state.NextAction = ""
	state.ShouldRegenerate = false
	state.RegenerateAgent = ""

	if state.Iterations >= state.MaxIterations {
		p.logger.WarnContext(ctx, "Iteration cap reached, forcing end",
			"campaign_id", state.CampaignID,
			"iterations", state.Iterations,
			"max_iterations", state.MaxIterations,
		)
		state.NextAction = campaign.ActionEnd
		state.MarkCompleted(campaign.StopReasonMaxIterations)
		return state, nil
	}

	d := p.decide(ctx, state)

	state.AppendThought(d.Thought, d.Action, d.Reasoning, d.Confidence)
	state.Iterations++
	state.NextAction = d.Action

	p.logger.InfoContext(ctx, "Planner picked next action",
		"campaign_id", state.CampaignID,
		"action", d.Action,
		"iteration", state.Iterations,
		"confidence", d.Confidence,
	)
	return state, nil
}

// decide asks the LLM for the next action. Provider failures, unparseable
// output, and out-of-vocabulary actions all degrade to the deterministic
// fallback; decide never fails.
func (p *MasterReasoner) decide(ctx context.Context, state *campaign.State) decision {
	if p.provider == nil {
		return p.fallback(ctx, state, "no provider configured")
	}

	req := llm.NewCompletionRequest(p.model,
		[]llm.Message{
			llm.NewSystemMessage(systemPrompt),
			llm.NewUserMessage(buildStatePrompt(state)),
		},
		llm.WithTemperature(p.temperature),
		llm.WithMaxTokens(p.maxTokens),
	)

	resp, err := p.provider.Complete(ctx, req)
	if err != nil {
		p.logger.WarnContext(ctx, "Planner completion failed, falling back",
			"campaign_id", state.CampaignID,
			"error", err,
		)
		return p.fallback(ctx, state, "provider unavailable")
	}
	state.AddTokens(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)

	parsed, err := llm.ExtractJSONAs[PlanResponse](resp.Message.Content)
	if err != nil {
		p.logger.WarnContext(ctx, "Planner response not parseable, falling back",
			"campaign_id", state.CampaignID,
			"error", err,
		)
		return p.fallback(ctx, state, "unparseable response")
	}

	action, err := campaign.ParseAction(parsed.Action)
	if err != nil {
		p.logger.WarnContext(ctx, "Planner proposed unknown action, falling back",
			"campaign_id", state.CampaignID,
			"proposed", parsed.Action,
		)
		return p.fallback(ctx, state, fmt.Sprintf("unknown action %q", parsed.Action))
	}

	return decision{
		Thought:    parsed.Thought,
		Action:     action,
		Reasoning:  parsed.Reasoning,
		Confidence: parsed.Confidence,
	}
}

// fallback picks the first stage in pipeline priority order whose output is
// still missing; when every stage has run it ends the campaign.
func (p *MasterReasoner) fallback(ctx context.Context, state *campaign.State, why string) decision {
	action := campaign.ActionEnd
	if stage, ok := state.FirstMissingStage(); ok {
		action = stage.Action()
	}

	p.logger.DebugContext(ctx, "Planner deterministic fallback",
		"campaign_id", state.CampaignID,
		"reason", why,
		"action", action,
	)
	return decision{
		Thought:   fmt.Sprintf("Falling back to pipeline order (%s): next action is %s", why, action),
		Action:    action,
		Reasoning: "deterministic fallback in stage priority order",
	}
}
