package campaign

import (
	"encoding/json"
	"fmt"
)

// Stage identifies one of the four content pipeline stages.
type Stage string

const (
	StageResearch    Stage = "research"
	StageStrategy    Stage = "strategy"
	StageCreative    Stage = "creative"
	StageOrchestrate Stage = "orchestrate"
)

// StagePriority returns the stages in pipeline order. Fallback planning and
// regeneration targeting both walk this order.
func StagePriority() []Stage {
	return []Stage{StageResearch, StageStrategy, StageCreative, StageOrchestrate}
}

// String returns the string representation of the Stage
func (s Stage) String() string {
	return string(s)
}

// IsValid checks if the stage is a valid value
func (s Stage) IsValid() bool {
	switch s {
	case StageResearch, StageStrategy, StageCreative, StageOrchestrate:
		return true
	default:
		return false
	}
}

// Action returns the planner action that drives this stage.
func (s Stage) Action() Action {
	return Action(s)
}

// RunningStatus returns the in-progress status a successful stage execution
// leaves on the campaign.
func (s Stage) RunningStatus() Status {
	switch s {
	case StageResearch:
		return StatusResearching
	case StageStrategy:
		return StatusStrategizing
	case StageCreative:
		return StatusCreating
	case StageOrchestrate:
		return StatusOrchestrating
	default:
		return StatusReasoning
	}
}

// MarshalJSON implements json.Marshaler
func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Stage) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	if str == "" {
		*s = ""
		return nil
	}

	stage := Stage(str)
	if !stage.IsValid() {
		return fmt.Errorf("invalid stage: %s", str)
	}

	*s = stage
	return nil
}
