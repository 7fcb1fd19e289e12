package stages

import (
	"context"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// ResearchInput is the state slice the research stage needs.
type ResearchInput struct {
	BusinessURL    string
	CompetitorURLs []string
}

// ResearchTool analyzes the business website and its competitors.
type ResearchTool interface {
	Research(ctx context.Context, input ResearchInput) (*campaign.ResearchOutput, error)
}

// StrategyInput is the state slice the strategy stage needs.
type StrategyInput struct {
	CampaignID types.ID
	Goal       string
	Industry   string
	Research   *campaign.ResearchOutput
}

// StrategyTool builds the multi-day content strategy from research.
type StrategyTool interface {
	BuildStrategy(ctx context.Context, input StrategyInput) (*campaign.ContentStrategy, error)
}

// CreativeInput is the state slice the creative stage needs. ResearchImages
// is empty when research has not run; only the strategy is required.
type CreativeInput struct {
	CampaignID     types.ID
	Strategy       *campaign.ContentStrategy
	ResearchImages []string
}

// CreativeTool generates per-day captions and assets from the strategy.
type CreativeTool interface {
	GenerateCreative(ctx context.Context, input CreativeInput) (*campaign.CreativeOutput, error)
}

// OrchestrateInput is the state slice the orchestration stage needs.
type OrchestrateInput struct {
	CampaignID types.ID
	Creative   *campaign.CreativeOutput
}

// OrchestrateTool schedules and publishes the generated content downstream.
type OrchestrateTool interface {
	Publish(ctx context.Context, input OrchestrateInput) (*campaign.OrchestrationOutput, error)
}
