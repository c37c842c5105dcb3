package voting

import (
	"fmt"
	"strings"

	"github.com/suzudai/my-chat-app/structured"
)

// Vote is one ballot entry: a 0-10 score for a candidate answer.
type Vote struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Ballot maps candidate agent keys to the voter's scores.
type Ballot map[string]Vote

const noAnswerPlaceholder = "no answer"

// voterAddendum is appended to the persona instruction for the voting call.
const voterAddendum = `

Evaluate fairly and objectively.
Important: when voting, answer strictly in JSON format.
Do not include any text or explanation outside the JSON.
Give your own answer a score of 0.`

// ballotPrompt renders the evaluation request one voter receives. Candidates
// are numbered in roster order so every voter sees the same ordering.
func ballotPrompt(query string, roster []AgentSpec, voter AgentSpec, answers map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As %s, evaluate the following %d answers to the question.\n\n", voter.Name, len(roster))
	fmt.Fprintf(&b, "Question: %s\n\nCandidate answers:\n", query)

	for i, spec := range roster {
		answer := answers[spec.Key]
		if strings.TrimSpace(answer) == "" {
			answer = noAnswerPlaceholder
		}
		fmt.Fprintf(&b, "%d. %s: %s\n\n", i+1, spec.Name, answer)
	}

	b.WriteString(`Important instructions:
- Score each answer from 1 to 10 and explain your reason
- You cannot vote for your own answer (score it 0)
- Answer strictly in the JSON format below
- Do not include any text outside the JSON

{
`)
	for i, spec := range roster {
		sep := ","
		if i == len(roster)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %q: {\"score\": number, \"reason\": \"why\"}%s\n", spec.Key, sep)
	}
	b.WriteString("}")
	return b.String()
}

// parseBallot decodes a voter's raw model output into a normalized ballot.
// On any parse failure the uniform fallback ballot is returned instead, so a
// malformed vote can never sink the run.
func parseBallot(raw string, roster []AgentSpec, voterKey string) Ballot {
	var decoded map[string]Vote
	if err := structured.Decode(raw, &decoded); err != nil {
		return fallbackBallot(roster, voterKey, fmt.Sprintf("ballot parse error: %v", err))
	}
	return normalizeBallot(decoded, roster, voterKey)
}

// normalizeBallot clamps scores into 0-10, fills in missing candidates and
// forces the self vote to zero regardless of what the model returned.
func normalizeBallot(decoded map[string]Vote, roster []AgentSpec, voterKey string) Ballot {
	ballot := make(Ballot, len(roster))
	for _, spec := range roster {
		vote, ok := decoded[spec.Key]
		if !ok {
			vote = Vote{Score: 0, Reason: "no vote recorded"}
		}
		if vote.Score < 0 {
			vote.Score = 0
		}
		if vote.Score > 10 {
			vote.Score = 10
		}
		ballot[spec.Key] = vote
	}
	if _, ok := ballot[voterKey]; ok {
		ballot[voterKey] = Vote{Score: 0, Reason: "self vote"}
	}
	return ballot
}

// fallbackBallot scores every other candidate a neutral 5 and the voter 0.
func fallbackBallot(roster []AgentSpec, voterKey, reason string) Ballot {
	ballot := make(Ballot, len(roster))
	for _, spec := range roster {
		if spec.Key == voterKey {
			ballot[spec.Key] = Vote{Score: 0, Reason: "self vote (fallback)"}
			continue
		}
		ballot[spec.Key] = Vote{Score: 5, Reason: reason}
	}
	return ballot
}
