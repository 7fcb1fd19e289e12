// Package stages adapts external stage tools (research, strategy, creative,
// orchestration) into uniform graph nodes. Each adapter enforces the same
// contract: unmet precondition is a soft no-op back to the reasoner, success
// writes the stage output and patches the scratchpad observation, and a tool
// failure marks the run failed before the error propagates.
package stages

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// Adapter runs one pipeline stage as a graph node.
type Adapter struct {
	stage campaign.Stage

	// precondition reports whether the stage can run; when it cannot, the
	// returned string names the missing upstream output.
	precondition func(state *campaign.State) (string, bool)

	// run invokes the tool, writes the stage output onto the state, and
	// returns a short observation summary (counts and sizes, never payloads).
	run func(ctx context.Context, state *campaign.State) (string, error)

	logger *slog.Logger
	tracer trace.Tracer
}

// Option is a functional option for configuring an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger for stage execution.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTracer enables OpenTelemetry tracing for stage execution.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Adapter) {
		a.tracer = tracer
	}
}

func newAdapter(stage campaign.Stage, opts []Option) *Adapter {
	a := &Adapter{
		stage:  stage,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Stage returns the pipeline stage this adapter drives.
func (a *Adapter) Stage() campaign.Stage {
	return a.stage
}

// Execute runs the stage against the campaign state.
//
// An unmet precondition returns the state unchanged except status, which
// goes back to reasoning; control returns to the planner without an error.
// A tool failure marks the run failed with the tool's raw message before
// the wrapped error propagates, so the caller sees both.
func (a *Adapter) Execute(ctx context.Context, state *campaign.State) (*campaign.State, error) {
	if a.tracer != nil {
		var span trace.Span
		ctx, span = a.tracer.Start(ctx, "stage."+a.stage.String(),
			trace.WithAttributes(
				attribute.String("campaign.id", state.CampaignID.String()),
				attribute.String("stage.name", a.stage.String()),
			))
		defer span.End()
	}

	if missing, ok := a.precondition(state); !ok {
		a.logger.WarnContext(ctx, "Stage precondition unmet, returning control to reasoner",
			"campaign_id", state.CampaignID,
			"stage", a.stage,
			"missing", missing,
		)
		state.Status = campaign.StatusReasoning
		return state, nil
	}

	observation, err := a.run(ctx, state)
	if err != nil {
		a.logger.ErrorContext(ctx, "Stage execution failed",
			"campaign_id", state.CampaignID,
			"stage", a.stage,
			"error", err,
		)
		state.MarkFailed(err.Error())
		return state, types.WrapError(ErrCodeToolFailed,
			fmt.Sprintf("%s stage failed", a.stage), err)
	}

	state.PatchObservation(a.stage.Action(), observation)
	state.Status = a.stage.RunningStatus()

	a.logger.InfoContext(ctx, "Stage completed",
		"campaign_id", state.CampaignID,
		"stage", a.stage,
		"observation", observation,
	)
	return state, nil
}

// NewResearchAdapter wraps a ResearchTool. Research has no precondition; it
// is always the first stage able to run.
func NewResearchAdapter(tool ResearchTool, opts ...Option) *Adapter {
	a := newAdapter(campaign.StageResearch, opts)
	a.precondition = func(*campaign.State) (string, bool) {
		return "", true
	}
	a.run = func(ctx context.Context, state *campaign.State) (string, error) {
		out, err := tool.Research(ctx, ResearchInput{
			BusinessURL:    state.BusinessURL,
			CompetitorURLs: state.CompetitorURLs,
		})
		if err != nil {
			return "", err
		}
		if out == nil {
			return "", types.NewError(ErrCodeToolNoOutput, "research tool returned no output")
		}
		state.Research = out
		return fmt.Sprintf("business context captured (%d chars), %d competitors profiled, %d research images",
			len(out.BusinessContext), len(out.Competitors), len(out.ResearchImages)), nil
	}
	return a
}

// NewStrategyAdapter wraps a StrategyTool. Requires research output.
func NewStrategyAdapter(tool StrategyTool, opts ...Option) *Adapter {
	a := newAdapter(campaign.StageStrategy, opts)
	a.precondition = func(state *campaign.State) (string, bool) {
		if state.Research == nil {
			return "research output", false
		}
		return "", true
	}
	a.run = func(ctx context.Context, state *campaign.State) (string, error) {
		out, err := tool.BuildStrategy(ctx, StrategyInput{
			CampaignID: state.CampaignID,
			Goal:       state.Goal,
			Industry:   state.Industry,
			Research:   state.Research,
		})
		if err != nil {
			return "", err
		}
		if out == nil {
			return "", types.NewError(ErrCodeToolNoOutput, "strategy tool returned no output")
		}
		state.Strategy = out
		return fmt.Sprintf("%d-day content strategy drafted", len(out.Days)), nil
	}
	return a
}

// NewCreativeAdapter wraps a CreativeTool. Requires strategy output;
// research images are passed through when research ran, empty otherwise.
func NewCreativeAdapter(tool CreativeTool, opts ...Option) *Adapter {
	a := newAdapter(campaign.StageCreative, opts)
	a.precondition = func(state *campaign.State) (string, bool) {
		if state.Strategy == nil {
			return "strategy output", false
		}
		return "", true
	}
	a.run = func(ctx context.Context, state *campaign.State) (string, error) {
		var images []string
		if state.Research != nil {
			images = state.Research.ResearchImages
		}
		out, err := tool.GenerateCreative(ctx, CreativeInput{
			CampaignID:     state.CampaignID,
			Strategy:       state.Strategy,
			ResearchImages: images,
		})
		if err != nil {
			return "", err
		}
		if out == nil {
			return "", types.NewError(ErrCodeToolNoOutput, "creative tool returned no output")
		}
		state.Creative = out
		return fmt.Sprintf("%d days of creative generated (%d images, %d videos)",
			len(out.Days), out.TotalImagesGenerated, out.TotalVideosGenerated), nil
	}
	return a
}

// NewOrchestrateAdapter wraps an OrchestrateTool. Requires creative output.
func NewOrchestrateAdapter(tool OrchestrateTool, opts ...Option) *Adapter {
	a := newAdapter(campaign.StageOrchestrate, opts)
	a.precondition = func(state *campaign.State) (string, bool) {
		if state.Creative == nil {
			return "creative output", false
		}
		return "", true
	}
	a.run = func(ctx context.Context, state *campaign.State) (string, error) {
		out, err := tool.Publish(ctx, OrchestrateInput{
			CampaignID: state.CampaignID,
			Creative:   state.Creative,
		})
		if err != nil {
			return "", err
		}
		if out == nil {
			return "", types.NewError(ErrCodeToolNoOutput, "orchestrate tool returned no output")
		}
		state.Orchestration = out
		return fmt.Sprintf("%d content items scheduled for publication", len(out.PublishedContentIDs)), nil
	}
	return a
}
