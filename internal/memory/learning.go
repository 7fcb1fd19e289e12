package memory

import (
	"fmt"
	"strings"
	"time"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// DefaultTopK bounds retrieval when the query does not say how many
// learnings it wants.
const DefaultTopK = 5

// LearningRecord is one distilled lesson from a finished campaign. The
// summary is what gets embedded; industry, goal and the final quality score
// ride along as metadata so retrieval can filter and rank.
type LearningRecord struct {
	ID         types.ID  `json:"id"`
	CampaignID types.ID  `json:"campaign_id"`
	Summary    string    `json:"summary"`
	Industry   string    `json:"industry,omitempty"`
	Goal       string    `json:"goal,omitempty"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewLearningRecord creates a record with a fresh ID and UTC timestamp.
func NewLearningRecord(campaignID types.ID, summary string) *LearningRecord {
	return &LearningRecord{
		ID:         types.NewID(),
		CampaignID: campaignID,
		Summary:    summary,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks that the record can be stored.
func (r *LearningRecord) Validate() error {
	if r.ID.IsZero() {
		return types.NewError(ErrCodeMemoryInvalidRecord, "learning record ID is required")
	}
	if r.Summary == "" {
		return types.NewError(ErrCodeMemoryInvalidRecord, "learning record summary cannot be empty")
	}
	if r.Score < 0 || r.Score > 1 {
		return types.NewError(ErrCodeMemoryInvalidRecord,
			fmt.Sprintf("learning record score must be between 0 and 1, got %f", r.Score))
	}
	return nil
}

// RetrieveQuery asks for past learnings semantically similar to Text,
// optionally scoped to one industry.
type RetrieveQuery struct {
	Text     string  `json:"text"`
	Industry string  `json:"industry,omitempty"`
	TopK     int     `json:"top_k,omitempty"`
	MinScore float64 `json:"min_score,omitempty"`
}

// Validate checks that the query can be executed.
func (q *RetrieveQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return types.NewError(ErrCodeMemoryInvalidQuery, "retrieve query text cannot be empty")
	}
	if q.TopK < 0 {
		return types.NewError(ErrCodeMemoryInvalidQuery,
			fmt.Sprintf("retrieve query top_k must be non-negative, got %d", q.TopK))
	}
	if q.MinScore < 0 || q.MinScore > 1 {
		return types.NewError(ErrCodeMemoryInvalidQuery,
			fmt.Sprintf("retrieve query min_score must be between 0 and 1, got %f", q.MinScore))
	}
	return nil
}

// ScoredLearning is a retrieval hit: the stored learning plus its semantic
// similarity to the query.
type ScoredLearning struct {
	Learning   LearningRecord `json:"learning"`
	Similarity float64        `json:"similarity"`
}

// NewRecordFromCampaign distills a finished campaign state into a learning
// record. The summary is deterministic: goal, completed stages, strategy
// themes and the quality outcome, compact enough to embed and to feed back
// into future planner prompts.
func NewRecordFromCampaign(state *campaign.State) LearningRecord {
	record := LearningRecord{
		ID:         types.NewID(),
		CampaignID: state.CampaignID,
		Summary:    summarizeCampaign(state),
		Industry:   state.Industry,
		Goal:       state.Goal,
		Score:      averageQuality(state),
		CreatedAt:  time.Now().UTC(),
	}
	return record
}

// summarizeCampaign renders a one-paragraph account of what the campaign
// did and how well it scored.
func summarizeCampaign(state *campaign.State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Goal: %s.", state.Goal)
	if state.Industry != "" {
		fmt.Fprintf(&b, " Industry: %s.", state.Industry)
	}

	if stages := state.CompletedStages(); len(stages) > 0 {
		names := make([]string, len(stages))
		for i, stage := range stages {
			names[i] = stage.String()
		}
		fmt.Fprintf(&b, " Completed stages: %s.", strings.Join(names, ", "))
	}

	if state.Strategy != nil && len(state.Strategy.Days) > 0 {
		themes := make([]string, 0, len(state.Strategy.Days))
		for _, day := range state.Strategy.Days {
			if day.Theme != "" {
				themes = append(themes, day.Theme)
			}
		}
		if len(themes) > 0 {
			fmt.Fprintf(&b, " Strategy themes: %s.", strings.Join(themes, "; "))
		}
	}

	if state.Creative != nil {
		fmt.Fprintf(&b, " Produced %d days of creative (%d images, %d videos).",
			len(state.Creative.Days),
			state.Creative.TotalImagesGenerated,
			state.Creative.TotalVideosGenerated)
	}

	if len(state.QualityScores) > 0 {
		fmt.Fprintf(&b, " Average quality score: %.2f.", averageQuality(state))
	}
	fmt.Fprintf(&b, " Finished in %d iterations.", state.Iterations)

	return b.String()
}

// averageQuality returns the mean of the recorded stage scores, 0 when none
// were recorded.
func averageQuality(state *campaign.State) float64 {
	if len(state.QualityScores) == 0 {
		return 0
	}
	var sum float64
	for _, score := range state.QualityScores {
		sum += score
	}
	return sum / float64(len(state.QualityScores))
}

// ToCampaignLearnings converts retrieval hits into the compact form carried
// on campaign state. The score carried over is the source campaign's final
// quality, not the query similarity.
func ToCampaignLearnings(results []ScoredLearning) []campaign.Learning {
	if len(results) == 0 {
		return nil
	}
	learnings := make([]campaign.Learning, len(results))
	for i, result := range results {
		learnings[i] = campaign.Learning{
			ID:        result.Learning.ID.String(),
			Summary:   result.Learning.Summary,
			Industry:  result.Learning.Industry,
			Score:     result.Learning.Score,
			CreatedAt: result.Learning.CreatedAt,
		}
	}
	return learnings
}
