package campaign

// CompetitorProfile summarizes one competitor found during research.
type CompetitorProfile struct {
	URL     string `json:"url"`
	Name    string `json:"name,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// ResearchOutput is what the research stage learned about the business
// and its market.
type ResearchOutput struct {
	BusinessContext string              `json:"business_context"`
	Competitors     []CompetitorProfile `json:"competitors,omitempty"`
	MarketInsights  string              `json:"market_insights,omitempty"`
	ResearchImages  []string            `json:"research_images,omitempty"`
}

// StrategyDay is the plan for a single day of the campaign.
type StrategyDay struct {
	Day         int    `json:"day"`
	Theme       string `json:"theme"`
	ContentType string `json:"content_type"`
	KeyMessage  string `json:"key_message,omitempty"`
}

// ContentStrategy is the multi-day plan produced by the strategy stage.
type ContentStrategy struct {
	Days []StrategyDay `json:"days"`
}

// CreativeDay holds the generated assets for one campaign day.
type CreativeDay struct {
	Day         int    `json:"day"`
	ContentType string `json:"content_type,omitempty"`
	Caption     string `json:"caption,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
}

// CreativeOutput is the per-day content produced by the creative stage.
type CreativeOutput struct {
	Days                 []CreativeDay `json:"days"`
	TotalImagesGenerated int           `json:"total_images_generated"`
	TotalVideosGenerated int           `json:"total_videos_generated"`
}

// OrchestrationOutput records what the orchestration stage scheduled or
// published downstream.
type OrchestrationOutput struct {
	PublishedContentIDs []string `json:"published_content_ids"`
}
