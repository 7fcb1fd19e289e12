package planner

import (
	"fmt"
	"strings"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
)

// systemPrompt establishes the reasoner's role, its action vocabulary, and
// the strict JSON response contract.
const systemPrompt = `You are the Master Reasoner of a marketing content pipeline. You decide,
one step at a time, which action moves the campaign closer to a complete,
high-quality multi-day content plan.

## Your Role
- Read the campaign state summary you are given
- Pick exactly one next action from the vocabulary below
- Explain your choice briefly

## Action Vocabulary

1. **research** - Analyze the business website and competitors. Run this first.
2. **strategy** - Build the multi-day content strategy. Needs research output.
3. **creative** - Generate per-day captions and assets. Needs strategy output.
4. **orchestrate** - Schedule and publish the generated content. Needs creative output.
5. **evaluate** - Score the quality of completed stages against the threshold.
6. **learn** - Store what this campaign learned, then finish. Use after a
   successful evaluation of all stages.
7. **end** - Stop immediately without storing learnings. Use only when the
   campaign cannot or should not continue.

## Decision Guidelines
- Never pick a stage whose upstream output is still missing
- After all four stages are done, evaluate before you learn or end
- If a stage scored below the quality threshold, re-run that stage
- Prefer learn over end when the campaign finished well

## Output Format
Respond with ONLY a JSON object, no prose around it:

{
  "thought": "what you observe about the current state",
  "action": "one of: research, strategy, creative, orchestrate, evaluate, learn, end",
  "reasoning": "why this action is the right next step",
  "confidence": 0.9
}`

// buildStatePrompt renders a compact textual summary of the campaign state:
// stage completion, quality scores against the threshold, the tail of the
// scratchpad, and the retrieved learnings.
func buildStatePrompt(state *campaign.State) string {
	var b strings.Builder

	b.WriteString("## Campaign\n")
	fmt.Fprintf(&b, "Goal: %s\n", state.Goal)
	fmt.Fprintf(&b, "Business URL: %s\n", state.BusinessURL)
	if state.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", state.Industry)
	}
	if len(state.CompetitorURLs) > 0 {
		fmt.Fprintf(&b, "Competitors: %s\n", strings.Join(state.CompetitorURLs, ", "))
	}
	fmt.Fprintf(&b, "Iteration: %d of %d\n", state.Iterations+1, state.MaxIterations)

	b.WriteString("\n## Stage Completion\n")
	for _, stage := range campaign.StagePriority() {
		mark := "pending"
		if state.HasStage(stage) {
			mark = "done"
		}
		fmt.Fprintf(&b, "- %s: %s\n", stage, mark)
	}

	if len(state.QualityScores) > 0 {
		fmt.Fprintf(&b, "\n## Quality Scores (threshold %.2f)\n", state.QualityThreshold)
		for _, stage := range campaign.StagePriority() {
			if score, ok := state.QualityScore(stage); ok {
				verdict := "passed"
				if score < state.QualityThreshold {
					verdict = "below threshold"
				}
				fmt.Fprintf(&b, "- %s: %.2f (%s)\n", stage, score, verdict)
			}
		}
	}

	if recent := state.RecentThoughts(3); len(recent) > 0 {
		b.WriteString("\n## Recent Steps\n")
		for _, entry := range recent {
			observation := entry.Observation
			if observation == "" {
				observation = "no observation recorded"
			}
			fmt.Fprintf(&b, "- step %d: %s -> %s\n", entry.Step, entry.Action, observation)
		}
	}

	fmt.Fprintf(&b, "\n## Past Learnings (%d retrieved)\n", len(state.PastLearnings))
	for i, learning := range state.PastLearnings {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "- %s (quality %.2f)\n", truncate(learning.Summary, 200), learning.Score)
	}

	b.WriteString("\nDecide the next action. Respond with the JSON object only.\n")
	return b.String()
}

// truncate shortens s to at most n bytes, marking the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
