package campaign

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is the closed vocabulary of moves the planner can choose.
// Anything outside this set is a parse failure, never a new action.
type Action string

const (
	ActionResearch    Action = "research"
	ActionStrategy    Action = "strategy"
	ActionCreative    Action = "creative"
	ActionOrchestrate Action = "orchestrate"
	ActionEvaluate    Action = "evaluate"
	ActionLearn       Action = "learn"
	ActionEnd         Action = "end"
)

// Actions returns every member of the vocabulary in declaration order.
func Actions() []Action {
	return []Action{
		ActionResearch,
		ActionStrategy,
		ActionCreative,
		ActionOrchestrate,
		ActionEvaluate,
		ActionLearn,
		ActionEnd,
	}
}

// String returns the string representation of the Action
func (a Action) String() string {
	return string(a)
}

// IsValid checks if the action is a member of the vocabulary
func (a Action) IsValid() bool {
	switch a {
	case ActionResearch, ActionStrategy, ActionCreative, ActionOrchestrate,
		ActionEvaluate, ActionLearn, ActionEnd:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the action ends the campaign run
func (a Action) IsTerminal() bool {
	return a == ActionEnd
}

// Stage returns the pipeline stage this action drives, if any. Evaluate,
// learn, and end are not stage actions.
func (a Action) Stage() (Stage, bool) {
	switch a {
	case ActionResearch:
		return StageResearch, true
	case ActionStrategy:
		return StageStrategy, true
	case ActionCreative:
		return StageCreative, true
	case ActionOrchestrate:
		return StageOrchestrate, true
	default:
		return "", false
	}
}

// ParseAction parses and validates a raw string as an Action.
// Input is trimmed and lowercased before matching.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", fmt.Errorf("unknown action: %q", s)
	}
	return a, nil
}

// MarshalJSON implements json.Marshaler
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Action) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	action := Action(str)
	if !action.IsValid() {
		return fmt.Errorf("invalid action: %s", str)
	}

	*a = action
	return nil
}
