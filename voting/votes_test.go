package voting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBallotPrompt_NumbersCandidatesInRosterOrder(t *testing.T) {
	roster := DefaultRoster()
	answers := map[string]string{
		KeyLogical:    "answer A",
		KeyEmpathetic: "answer B",
		KeyConcise:    "answer C",
	}

	prompt := ballotPrompt("the question", roster, roster[1], answers)

	assert.Contains(t, prompt, "As Empathetic Advisor")
	assert.Contains(t, prompt, "Question: the question")
	assert.Contains(t, prompt, "1. Logical Thinker: answer A")
	assert.Contains(t, prompt, "2. Empathetic Advisor: answer B")
	assert.Contains(t, prompt, "3. Concise Summarizer: answer C")
	for _, spec := range roster {
		assert.Contains(t, prompt, `"`+spec.Key+`"`)
	}
}

func TestBallotPrompt_MissingAnswerPlaceholder(t *testing.T) {
	roster := DefaultRoster()
	prompt := ballotPrompt("q", roster, roster[0], map[string]string{KeyLogical: "only one"})
	assert.Contains(t, prompt, "2. Empathetic Advisor: "+noAnswerPlaceholder)
}

func TestParseBallot_ValidJSON(t *testing.T) {
	roster := DefaultRoster()
	raw := `{
		"logical_agent": {"score": 0, "reason": "mine"},
		"empathetic_agent": {"score": 7, "reason": "warm"},
		"concise_agent": {"score": 4, "reason": "short"}
	}`

	ballot := parseBallot(raw, roster, KeyLogical)
	require.Len(t, ballot, 3)
	assert.Equal(t, 7, ballot[KeyEmpathetic].Score)
	assert.Equal(t, 4, ballot[KeyConcise].Score)
	assert.Equal(t, 0, ballot[KeyLogical].Score)
}

func TestParseBallot_FencedJSON(t *testing.T) {
	roster := DefaultRoster()
	raw := "```json\n{\"logical_agent\": {\"score\": 8, \"reason\": \"solid\"}, \"empathetic_agent\": {\"score\": 0, \"reason\": \"mine\"}, \"concise_agent\": {\"score\": 6, \"reason\": \"tight\"}}\n```"

	ballot := parseBallot(raw, roster, KeyEmpathetic)
	assert.Equal(t, 8, ballot[KeyLogical].Score)
	assert.Equal(t, 6, ballot[KeyConcise].Score)
}

func TestParseBallot_SelfVoteForcedToZero(t *testing.T) {
	roster := DefaultRoster()
	// A hostile ballot scoring the voter's own answer a perfect 10.
	raw := `{
		"logical_agent": {"score": 10, "reason": "I am the best"},
		"empathetic_agent": {"score": 1, "reason": "meh"},
		"concise_agent": {"score": 1, "reason": "meh"}
	}`

	ballot := parseBallot(raw, roster, KeyLogical)
	assert.Equal(t, 0, ballot[KeyLogical].Score)
	assert.Equal(t, "self vote", ballot[KeyLogical].Reason)
}

func TestParseBallot_ClampsScores(t *testing.T) {
	roster := DefaultRoster()
	raw := `{
		"logical_agent": {"score": 99, "reason": "over"},
		"empathetic_agent": {"score": -3, "reason": "under"},
		"concise_agent": {"score": 5, "reason": "fine"}
	}`

	ballot := parseBallot(raw, roster, KeyConcise)
	assert.Equal(t, 10, ballot[KeyLogical].Score)
	assert.Equal(t, 0, ballot[KeyEmpathetic].Score)
}

func TestParseBallot_MissingCandidateScoresZero(t *testing.T) {
	roster := DefaultRoster()
	raw := `{"logical_agent": {"score": 6, "reason": "ok"}}`

	ballot := parseBallot(raw, roster, KeyLogical)
	require.Len(t, ballot, 3)
	assert.Equal(t, 0, ballot[KeyEmpathetic].Score)
	assert.Equal(t, 0, ballot[KeyConcise].Score)
}

func TestParseBallot_GarbageFallsBackToUniformFives(t *testing.T) {
	roster := DefaultRoster()

	for _, raw := range []string{"", "not json at all", "{broken", "[1,2,3]"} {
		ballot := parseBallot(raw, roster, KeyEmpathetic)
		require.Len(t, ballot, 3, "raw %q", raw)
		assert.Equal(t, 5, ballot[KeyLogical].Score)
		assert.Equal(t, 5, ballot[KeyConcise].Score)
		assert.Equal(t, 0, ballot[KeyEmpathetic].Score)
		assert.True(t, strings.Contains(ballot[KeyEmpathetic].Reason, "self vote"))
	}
}
