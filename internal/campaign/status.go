package campaign

import (
	"encoding/json"
	"fmt"
)

// Status represents where a campaign run currently is in its lifecycle.
type Status string

const (
	StatusReasoning     Status = "reasoning"
	StatusResearching   Status = "researching"
	StatusStrategizing  Status = "strategizing"
	StatusCreating      Status = "creating"
	StatusEvaluating    Status = "evaluating"
	StatusRegenerating  Status = "regenerating"
	StatusOrchestrating Status = "orchestrating"
	StatusLearning      Status = "learning"
	StatusCompleted     Status = "completed"
	StatusFailed        Status = "failed"
)

// String returns the string representation of the Status
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is a valid value
func (s Status) IsValid() bool {
	switch s {
	case StatusReasoning, StatusResearching, StatusStrategizing, StatusCreating,
		StatusEvaluating, StatusRegenerating, StatusOrchestrating, StatusLearning,
		StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the run has finished, successfully or not.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// MarshalJSON implements json.Marshaler
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status := Status(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %s", str)
	}

	*s = status
	return nil
}

// StopReason explains why a completed run stopped.
type StopReason string

const (
	StopReasonGoalComplete  StopReason = "goal_complete"
	StopReasonMaxIterations StopReason = "max_iterations"
	StopReasonToolFailure   StopReason = "tool_failure"
)

// String returns the string representation of the StopReason
func (r StopReason) String() string {
	return string(r)
}

// IsValid checks if the stop reason is a valid value
func (r StopReason) IsValid() bool {
	switch r {
	case StopReasonGoalComplete, StopReasonMaxIterations, StopReasonToolFailure:
		return true
	default:
		return false
	}
}
