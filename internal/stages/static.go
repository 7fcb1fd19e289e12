package stages

import (
	"context"
	"fmt"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
)

// StaticTools carries deterministic canned implementations of every stage
// tool. They back dry runs and demos where the engine's decision loop is
// the thing under exercise, not the content itself.
type StaticTools struct {
	Days int
}

// NewStaticTools creates the canned stage tools with an n-day plan.
func NewStaticTools(days int) *StaticTools {
	if days <= 0 {
		days = 7
	}
	return &StaticTools{Days: days}
}

var staticContentTypes = []string{"image", "video", "carousel"}

// Research returns a fixed business profile derived from the input URLs.
func (t *StaticTools) Research(_ context.Context, input ResearchInput) (*campaign.ResearchOutput, error) {
	out := &campaign.ResearchOutput{
		BusinessContext: fmt.Sprintf("Business at %s: local brand with an active product catalog and a modest social presence.", input.BusinessURL),
		MarketInsights:  "Short-form video and behind-the-scenes posts drive the highest engagement in this segment.",
		ResearchImages: []string{
			input.BusinessURL + "/assets/hero.jpg",
			input.BusinessURL + "/assets/product-1.jpg",
		},
	}
	for _, url := range input.CompetitorURLs {
		out.Competitors = append(out.Competitors, campaign.CompetitorProfile{
			URL:     url,
			Summary: "posts daily, leans on product photography",
		})
	}
	return out, nil
}

// BuildStrategy returns a rotating-theme plan across the configured days.
func (t *StaticTools) BuildStrategy(_ context.Context, input StrategyInput) (*campaign.ContentStrategy, error) {
	themes := []string{
		"product spotlight",
		"behind the scenes",
		"customer story",
		"tips and how-to",
		"team introduction",
		"community highlight",
		"weekly roundup",
	}
	out := &campaign.ContentStrategy{}
	for day := 1; day <= t.Days; day++ {
		out.Days = append(out.Days, campaign.StrategyDay{
			Day:         day,
			Theme:       themes[(day-1)%len(themes)],
			ContentType: staticContentTypes[(day-1)%len(staticContentTypes)],
			KeyMessage:  fmt.Sprintf("Day %d push toward: %s", day, input.Goal),
		})
	}
	return out, nil
}

// GenerateCreative returns captioned placeholder assets for each strategy
// day, reusing research imagery when available.
func (t *StaticTools) GenerateCreative(_ context.Context, input CreativeInput) (*campaign.CreativeOutput, error) {
	out := &campaign.CreativeOutput{}
	for i, day := range input.Strategy.Days {
		cd := campaign.CreativeDay{
			Day:         day.Day,
			ContentType: day.ContentType,
			Caption:     fmt.Sprintf("Day %d: %s. %s", day.Day, day.Theme, day.KeyMessage),
		}
		switch day.ContentType {
		case "video":
			cd.VideoURL = fmt.Sprintf("https://assets.invalid/%s/day-%d.mp4", input.CampaignID, day.Day)
			out.TotalVideosGenerated++
		default:
			if len(input.ResearchImages) > 0 {
				cd.ImageURL = input.ResearchImages[i%len(input.ResearchImages)]
			} else {
				cd.ImageURL = fmt.Sprintf("https://assets.invalid/%s/day-%d.png", input.CampaignID, day.Day)
			}
			out.TotalImagesGenerated++
		}
		out.Days = append(out.Days, cd)
	}
	return out, nil
}

// Publish returns one synthetic content ID per creative day.
func (t *StaticTools) Publish(_ context.Context, input OrchestrateInput) (*campaign.OrchestrationOutput, error) {
	out := &campaign.OrchestrationOutput{}
	for _, day := range input.Creative.Days {
		out.PublishedContentIDs = append(out.PublishedContentIDs,
			fmt.Sprintf("%s-day-%d", input.CampaignID, day.Day))
	}
	return out, nil
}
