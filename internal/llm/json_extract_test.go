package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_FencedJsonBlock(t *testing.T) {
	response := `Here is my decision:

` + "```json" + `
{
  "thought": "Research is missing",
  "action": "research",
  "reasoning": "No business context yet",
  "confidence": 0.9
}
` + "```" + `

Let me know if you need anything else.`

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Contains(t, result, `"thought"`)
	assert.Contains(t, result, `"action"`)
	assert.Contains(t, result, "research")
}

func TestExtractJSON_FencedUppercaseTag(t *testing.T) {
	response := "```JSON\n{\"action\": \"strategy\"}\n```"

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, `{"action": "strategy"}`, result)
}

func TestExtractJSON_BareFence(t *testing.T) {
	response := "```\n{\"action\": \"creative\", \"confidence\": 0.8}\n```"

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, `{"action": "creative", "confidence": 0.8}`, result)
}

func TestExtractJSON_RawObject(t *testing.T) {
	response := `{"action": "evaluate", "confidence": 0.75}`

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, response, result)
}

func TestExtractJSON_RawArray(t *testing.T) {
	response := `[{"day": 1}, {"day": 2}]`

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, response, result)
}

func TestExtractJSON_SkipsOtherLanguageFences(t *testing.T) {
	response := "Run this first:\n```bash\necho hi\n```\n\nThen the plan:\n```json\n{\"action\": \"orchestrate\"}\n```"

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, `{"action": "orchestrate"}`, result)
}

func TestExtractJSON_FirstValidFenceWins(t *testing.T) {
	response := "```\nnot json at all\n```\n\n```json\n{\"first\": 1}\n```\n\n```json\n{\"second\": 2}\n```"

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, `{"first": 1}`, result)
}

func TestExtractJSON_NestedStructures(t *testing.T) {
	response := `{
  "strategy": {
    "days": [
      {"day": 1, "theme": "launch", "nested": {"deep": true}}
    ]
  }
}`

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Contains(t, result, `"strategy"`)
	assert.Contains(t, result, `"deep"`)
}

func TestExtractJSON_EscapedQuotesInStrings(t *testing.T) {
	response := `{"thought": "user said \"go\" so we go", "action": "research"}`

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, response, result)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	response := `{"thought": "the shape is {nested} and [bracketed]", "action": "end"}`

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, response, result)
}

func TestExtractJSON_ProseAroundRawObject(t *testing.T) {
	response := `Sure, here is the decision:

{
  "action": "learn",
  "confidence": 0.95
}

Hope that helps.`

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Contains(t, result, `"learn"`)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("This is just plain text with no JSON at all.")
	require.Error(t, err)
}

func TestExtractJSON_TruncatedObject(t *testing.T) {
	_, err := ExtractJSON(`{"action": "research", "confidence":`)
	require.Error(t, err)
}

func TestExtractJSON_EmptyInput(t *testing.T) {
	_, err := ExtractJSON("")
	require.Error(t, err)
}

func TestExtractJSONAs_Struct(t *testing.T) {
	type decision struct {
		Thought    string  `json:"thought"`
		Action     string  `json:"action"`
		Confidence float64 `json:"confidence"`
	}

	response := "```json\n{\"thought\": \"done\", \"action\": \"end\", \"confidence\": 1.0}\n```"

	got, err := ExtractJSONAs[decision](response)
	require.NoError(t, err)
	assert.Equal(t, "done", got.Thought)
	assert.Equal(t, "end", got.Action)
	assert.InDelta(t, 1.0, got.Confidence, 0.001)
}

func TestExtractJSONAs_TypeMismatch(t *testing.T) {
	type decision struct {
		Confidence float64 `json:"confidence"`
	}

	_, err := ExtractJSONAs[decision](`{"confidence": "very high"}`)
	require.Error(t, err)
}
