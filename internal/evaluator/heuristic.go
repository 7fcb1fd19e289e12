package evaluator

import (
	"context"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
)

// HeuristicScorer scores stage outputs with a fixed weighted checklist:
// a base score for producing anything at all, plus bonuses for completeness
// of the expected sub-items and diversity of content types. It makes no
// network calls and is deterministic for a given state.
type HeuristicScorer struct{}

// NewHeuristicScorer creates the rule-based scorer.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// Score returns a checklist score in [0,1] for the given stage. Stages
// without output score zero.
func (s *HeuristicScorer) Score(_ context.Context, stage campaign.Stage, state *campaign.State) (float64, error) {
	switch stage {
	case campaign.StageResearch:
		return s.scoreResearch(state.Research), nil
	case campaign.StageStrategy:
		return s.scoreStrategy(state.Strategy), nil
	case campaign.StageCreative:
		return s.scoreCreative(state.Creative), nil
	case campaign.StageOrchestrate:
		return s.scoreOrchestration(state.Orchestration, state.Creative), nil
	default:
		return 0, nil
	}
}

// scoreResearch: base for business context, bonuses for market insights,
// competitor coverage and captured imagery.
func (s *HeuristicScorer) scoreResearch(out *campaign.ResearchOutput) float64 {
	if out == nil {
		return 0
	}
	score := 0.0
	if out.BusinessContext != "" {
		score += 0.5
	}
	if out.MarketInsights != "" {
		score += 0.2
	}
	if len(out.Competitors) > 0 {
		score += 0.2
	}
	if len(out.ResearchImages) > 0 {
		score += 0.1
	}
	return score
}

// scoreStrategy: base for having a plan, completeness bonus for days that
// carry both a theme and a content type, diversity bonus for mixing
// content types across the campaign.
func (s *HeuristicScorer) scoreStrategy(out *campaign.ContentStrategy) float64 {
	if out == nil || len(out.Days) == 0 {
		return 0
	}
	score := 0.3

	complete := 0
	contentTypes := make(map[string]struct{})
	for _, day := range out.Days {
		if day.Theme != "" && day.ContentType != "" {
			complete++
		}
		if day.ContentType != "" {
			contentTypes[day.ContentType] = struct{}{}
		}
	}
	score += 0.4 * float64(complete) / float64(len(out.Days))

	switch {
	case len(contentTypes) >= 3:
		score += 0.3
	case len(contentTypes) == 2:
		score += 0.2
	case len(contentTypes) == 1:
		score += 0.1
	}
	return score
}

// scoreCreative: base for produced days, completeness bonus for captions,
// asset bonuses for generated images and videos.
func (s *HeuristicScorer) scoreCreative(out *campaign.CreativeOutput) float64 {
	if out == nil || len(out.Days) == 0 {
		return 0
	}
	score := 0.3

	captioned := 0
	for _, day := range out.Days {
		if day.Caption != "" {
			captioned++
		}
	}
	score += 0.4 * float64(captioned) / float64(len(out.Days))

	if out.TotalImagesGenerated > 0 {
		score += 0.2
	}
	if out.TotalVideosGenerated > 0 {
		score += 0.1
	}
	return score
}

// scoreOrchestration: coverage of creative days by published content. With
// no creative output to compare against, any published IDs count as full
// marks on the base.
func (s *HeuristicScorer) scoreOrchestration(out *campaign.OrchestrationOutput, creative *campaign.CreativeOutput) float64 {
	if out == nil {
		return 0
	}
	published := len(out.PublishedContentIDs)
	if published == 0 {
		return 0.2
	}
	score := 0.6
	if creative == nil || len(creative.Days) == 0 {
		return score + 0.2
	}
	coverage := float64(published) / float64(len(creative.Days))
	if coverage > 1 {
		coverage = 1
	}
	return score + 0.4*coverage
}
