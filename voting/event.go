package voting

// EventType labels the progress events emitted by a streaming run.
type EventType string

const (
	// EventStart opens a streaming run.
	EventStart EventType = "start"
	// EventPhaseStart announces entry into the agents, voting or decision phase.
	EventPhaseStart EventType = "phase_start"
	// EventAgentResponse carries one persona's completed answer.
	EventAgentResponse EventType = "agent_response"
	// EventVotingResults carries all normalized ballots.
	EventVotingResults EventType = "voting_results"
	// EventFinalResponse carries the decision summary shown to the user.
	EventFinalResponse EventType = "final_response"
	// EventTitleUpdated reports a freshly generated session title.
	EventTitleUpdated EventType = "title_updated"
	// EventComplete closes a streaming run.
	EventComplete EventType = "complete"
	// EventError reports a failed run.
	EventError EventType = "error"
)

// Event is one progress notification of a streaming voting run. Events are
// informational only; the outcome of the run is identical with or without a
// listener.
type Event struct {
	Type          EventType         `json:"type"`
	Phase         string            `json:"phase,omitempty"`
	Agent         string            `json:"agent,omitempty"`
	AgentName     string            `json:"agent_name,omitempty"`
	Response      string            `json:"response,omitempty"`
	VotingResults map[string]Ballot `json:"voting_results,omitempty"`
	Title         string            `json:"title,omitempty"`
	ThreadID      string            `json:"thread_id,omitempty"`
	Message       string            `json:"message,omitempty"`
}
