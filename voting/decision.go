package voting

import (
	"fmt"
	"strings"
)

// tally sums every ballot into per-candidate totals. Candidates absent from
// the roster are ignored even if a ballot names them.
func tally(roster []AgentSpec, ballots map[string]Ballot) map[string]int {
	totals := make(map[string]int, len(roster))
	for _, spec := range roster {
		totals[spec.Key] = 0
	}
	for _, ballot := range ballots {
		for candidate, vote := range ballot {
			if _, ok := totals[candidate]; ok {
				totals[candidate] += vote.Score
			}
		}
	}
	return totals
}

// selectWinner picks the candidate with the strictly highest total. Ties are
// broken by roster order, so the result is deterministic for a given input.
func selectWinner(roster []AgentSpec, totals map[string]int) AgentSpec {
	winner := roster[0]
	best := totals[winner.Key]
	for _, spec := range roster[1:] {
		if totals[spec.Key] > best {
			winner = spec
			best = totals[spec.Key]
		}
	}
	return winner
}

// resultSummary renders the user-facing decision report: the winning answer
// followed by the vote breakdown including zero scores.
func resultSummary(roster []AgentSpec, winner AgentSpec, totals map[string]int, answers map[string]string, ballots map[string]Ballot) string {
	var b strings.Builder

	winningAnswer := answers[winner.Key]
	if strings.TrimSpace(winningAnswer) == "" {
		winningAnswer = "no answer found"
	}

	b.WriteString("## Best Answer by Vote\n\n")
	fmt.Fprintf(&b, "**Selected answer**: %s\n", winner.Name)
	fmt.Fprintf(&b, "**Score**: %d points\n\n", totals[winner.Key])
	fmt.Fprintf(&b, "### Answer:\n%s\n\n### Vote totals:\n", winningAnswer)

	for _, spec := range roster {
		fmt.Fprintf(&b, "- %s: %d points\n", spec.Name, totals[spec.Key])
	}

	b.WriteString("\n### Reasons given by each agent:\n")
	for _, voter := range roster {
		ballot, ok := ballots[voter.Key]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n**Votes by %s:**\n", voter.Name)
		for _, candidate := range roster {
			vote, ok := ballot[candidate.Key]
			if !ok {
				continue
			}
			reason := vote.Reason
			if reason == "" {
				reason = "no reason given"
			}
			fmt.Fprintf(&b, "- %s: %d points - %s\n", candidate.Name, vote.Score, reason)
		}
	}

	return b.String()
}
