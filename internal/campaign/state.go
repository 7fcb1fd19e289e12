package campaign

import (
	"fmt"
	"time"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// Defaults applied by NewState when no option overrides them.
const (
	DefaultMaxIterations    = 15
	DefaultQualityThreshold = 0.7
)

// ThoughtAction is one entry in the reasoning scratchpad. Entries are
// append-only: once written, only the latest entry's Observation may change,
// and only the node its Action names may change it.
type ThoughtAction struct {
	Step         int       `json:"step"`
	Timestamp    time.Time `json:"timestamp"`
	Thought      string    `json:"thought"`
	Action       Action    `json:"action"`
	ActionInput  string    `json:"action_input,omitempty"`
	Observation  string    `json:"observation,omitempty"`
	QualityScore float64   `json:"quality_score,omitempty"`
}

// Learning is a read-only snapshot of a retrieved past learning. The full
// record stays in the learning store; state carries only what the planner
// needs for context.
type Learning struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	Industry  string    `json:"industry,omitempty"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenUsage accumulates LLM token counts across a run.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// State is the single shared campaign state threaded through every node of
// a run. A run owns its state exclusively, so no locking is needed; anything
// handed to outside observers must be a Clone.
type State struct {
	CampaignID     types.ID `json:"campaign_id"`
	BusinessURL    string   `json:"business_url"`
	CompetitorURLs []string `json:"competitor_urls,omitempty"`
	Goal           string   `json:"goal"`
	Industry       string   `json:"industry,omitempty"`

	Scratchpad []ThoughtAction `json:"scratchpad"`

	CurrentStep   int `json:"current_step"`
	Iterations    int `json:"iterations"`
	MaxIterations int `json:"max_iterations"`

	Research      *ResearchOutput      `json:"research,omitempty"`
	Strategy      *ContentStrategy     `json:"strategy,omitempty"`
	Creative      *CreativeOutput      `json:"creative,omitempty"`
	Orchestration *OrchestrationOutput `json:"orchestration,omitempty"`

	QualityScores    map[Stage]float64 `json:"quality_scores,omitempty"`
	QualityThreshold float64           `json:"quality_threshold"`

	PastLearnings []Learning `json:"past_learnings,omitempty"`

	NextAction       Action `json:"next_action,omitempty"`
	ShouldRegenerate bool   `json:"should_regenerate,omitempty"`
	RegenerateAgent  Stage  `json:"regenerate_agent,omitempty"`

	Status       Status     `json:"status"`
	StopReason   StopReason `json:"stop_reason,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`

	Usage TokenUsage `json:"usage"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// StateOption customizes a new campaign state.
type StateOption func(*State)

// WithCampaignID sets an explicit campaign ID instead of a generated one.
func WithCampaignID(id types.ID) StateOption {
	return func(s *State) { s.CampaignID = id }
}

// WithCompetitorURLs sets the competitor URLs to research against.
func WithCompetitorURLs(urls []string) StateOption {
	return func(s *State) { s.CompetitorURLs = urls }
}

// WithIndustry tags the campaign with an industry, which scopes learning
// retrieval and is stored with new learnings.
func WithIndustry(industry string) StateOption {
	return func(s *State) { s.Industry = industry }
}

// WithMaxIterations overrides the planning iteration cap.
func WithMaxIterations(n int) StateOption {
	return func(s *State) { s.MaxIterations = n }
}

// WithQualityThreshold overrides the minimum acceptable stage score.
func WithQualityThreshold(threshold float64) StateOption {
	return func(s *State) { s.QualityThreshold = threshold }
}

// NewState creates a campaign state ready to run.
func NewState(goal, businessURL string, opts ...StateOption) *State {
	s := &State{
		CampaignID:       types.NewID(),
		BusinessURL:      businessURL,
		Goal:             goal,
		Scratchpad:       make([]ThoughtAction, 0),
		MaxIterations:    DefaultMaxIterations,
		QualityThreshold: DefaultQualityThreshold,
		Status:           StatusReasoning,
		CreatedAt:        time.Now().UTC(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Validate checks that the state can start a run.
func (s *State) Validate() error {
	if s.CampaignID.IsZero() {
		return types.NewError(types.CAMPAIGN_INVALID, "campaign_id is required")
	}
	if s.Goal == "" {
		return types.NewError(types.CAMPAIGN_INVALID, "goal is required")
	}
	if s.BusinessURL == "" {
		return types.NewError(types.CAMPAIGN_INVALID, "business_url is required")
	}
	if s.MaxIterations <= 0 {
		return types.NewError(types.CAMPAIGN_INVALID,
			fmt.Sprintf("max_iterations must be positive, got %d", s.MaxIterations))
	}
	if s.QualityThreshold < 0 || s.QualityThreshold > 1 {
		return types.NewError(types.CAMPAIGN_INVALID,
			fmt.Sprintf("quality_threshold must be between 0 and 1, got %f", s.QualityThreshold))
	}
	return nil
}

// AppendThought appends a new scratchpad entry. Step numbering and the
// current step counter are maintained here so entries can never go out of
// order.
func (s *State) AppendThought(thought string, action Action, actionInput string, confidence float64) {
	entry := ThoughtAction{
		Step:         len(s.Scratchpad) + 1,
		Timestamp:    time.Now().UTC(),
		Thought:      thought,
		Action:       action,
		ActionInput:  actionInput,
		QualityScore: confidence,
	}
	s.Scratchpad = append(s.Scratchpad, entry)
	s.CurrentStep = entry.Step
}

// LastThought returns the most recent scratchpad entry, or nil when the
// scratchpad is empty.
func (s *State) LastThought() *ThoughtAction {
	if len(s.Scratchpad) == 0 {
		return nil
	}
	return &s.Scratchpad[len(s.Scratchpad)-1]
}

// PatchObservation records an observation on the latest scratchpad entry.
// The patch only lands when the entry's action matches owner; this keeps
// every node from touching entries it did not cause. Returns whether the
// observation was written.
func (s *State) PatchObservation(owner Action, observation string) bool {
	last := s.LastThought()
	if last == nil || last.Action != owner {
		return false
	}
	last.Observation = observation
	return true
}

// RecentThoughts returns up to n of the latest scratchpad entries, oldest
// first, as a copy.
func (s *State) RecentThoughts(n int) []ThoughtAction {
	if n <= 0 || len(s.Scratchpad) == 0 {
		return nil
	}
	start := len(s.Scratchpad) - n
	if start < 0 {
		start = 0
	}
	out := make([]ThoughtAction, len(s.Scratchpad)-start)
	copy(out, s.Scratchpad[start:])
	return out
}

// HasStage reports whether the given stage has produced output.
func (s *State) HasStage(stage Stage) bool {
	switch stage {
	case StageResearch:
		return s.Research != nil
	case StageStrategy:
		return s.Strategy != nil
	case StageCreative:
		return s.Creative != nil
	case StageOrchestrate:
		return s.Orchestration != nil
	default:
		return false
	}
}

// CompletedStages returns the stages with output, in pipeline order.
func (s *State) CompletedStages() []Stage {
	var done []Stage
	for _, stage := range StagePriority() {
		if s.HasStage(stage) {
			done = append(done, stage)
		}
	}
	return done
}

// FirstMissingStage returns the first stage in pipeline order without
// output. ok is false when every stage has run.
func (s *State) FirstMissingStage() (Stage, bool) {
	for _, stage := range StagePriority() {
		if !s.HasStage(stage) {
			return stage, true
		}
	}
	return "", false
}

// SetQualityScore records an evaluation score for a stage.
func (s *State) SetQualityScore(stage Stage, score float64) {
	if s.QualityScores == nil {
		s.QualityScores = make(map[Stage]float64)
	}
	s.QualityScores[stage] = score
}

// QualityScore returns the recorded score for a stage, if any.
func (s *State) QualityScore(stage Stage) (float64, bool) {
	score, ok := s.QualityScores[stage]
	return score, ok
}

// AddTokens accumulates LLM token usage into the run totals.
func (s *State) AddTokens(prompt, completion, total int) {
	s.Usage.PromptTokens += prompt
	s.Usage.CompletionTokens += completion
	s.Usage.TotalTokens += total
}

// MarkCompleted transitions the run to its successful terminal status.
func (s *State) MarkCompleted(reason StopReason) {
	now := time.Now().UTC()
	s.Status = StatusCompleted
	s.StopReason = reason
	s.CompletedAt = &now
}

// MarkFailed transitions the run to its failed terminal status, preserving
// the failure message for the caller.
func (s *State) MarkFailed(message string) {
	now := time.Now().UTC()
	s.Status = StatusFailed
	s.StopReason = StopReasonToolFailure
	s.ErrorMessage = message
	s.CompletedAt = &now
}

// Clone returns a deep copy of the state, safe to hand to observers while
// the run keeps mutating the original.
func (s *State) Clone() *State {
	c := *s

	c.CompetitorURLs = append([]string(nil), s.CompetitorURLs...)

	c.Scratchpad = make([]ThoughtAction, len(s.Scratchpad))
	copy(c.Scratchpad, s.Scratchpad)

	if s.Research != nil {
		r := *s.Research
		r.Competitors = append([]CompetitorProfile(nil), s.Research.Competitors...)
		r.ResearchImages = append([]string(nil), s.Research.ResearchImages...)
		c.Research = &r
	}
	if s.Strategy != nil {
		st := *s.Strategy
		st.Days = append([]StrategyDay(nil), s.Strategy.Days...)
		c.Strategy = &st
	}
	if s.Creative != nil {
		cr := *s.Creative
		cr.Days = append([]CreativeDay(nil), s.Creative.Days...)
		c.Creative = &cr
	}
	if s.Orchestration != nil {
		o := *s.Orchestration
		o.PublishedContentIDs = append([]string(nil), s.Orchestration.PublishedContentIDs...)
		c.Orchestration = &o
	}

	if s.QualityScores != nil {
		c.QualityScores = make(map[Stage]float64, len(s.QualityScores))
		for k, v := range s.QualityScores {
			c.QualityScores[k] = v
		}
	}

	c.PastLearnings = append([]Learning(nil), s.PastLearnings...)

	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}

	return &c
}
