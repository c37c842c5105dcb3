// Package voting implements the voting orchestrator: a fixed roster of
// persona agents answers the same question, every agent scores the other
// answers by JSON ballot, and the highest scoring answer becomes the reply.
package voting

// AgentSpec describes one persona on the voting roster.
type AgentSpec struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Instruction string  `json:"-"`
	Temperature float64 `json:"-"`
}

const (
	// KeyLogical identifies the fact-driven analytical persona.
	KeyLogical = "logical_agent"
	// KeyEmpathetic identifies the warm, feelings-first persona.
	KeyEmpathetic = "empathetic_agent"
	// KeyConcise identifies the summary-oriented persona.
	KeyConcise = "concise_agent"
)

// DefaultRoster returns the standard three-persona roster. Roster order is
// significant: it fixes the candidate numbering in ballots and breaks ties
// in the decision.
func DefaultRoster() []AgentSpec {
	return []AgentSpec{
		{
			Key:  KeyLogical,
			Name: "Logical Thinker",
			Instruction: `You are an AI agent that prioritizes logical reasoning.
- Base your analysis on facts
- State your logical grounds explicitly
- Prefer objective, rational judgement
- Draw conclusions from data and evidence
Provide a logical, well-structured answer to the question.`,
			Temperature: 0.1,
		},
		{
			Key:  KeyEmpathetic,
			Name: "Empathetic Advisor",
			Instruction: `You are an AI agent that prioritizes empathy and emotion.
- Understand how people feel
- Respond with warmth and compassion
- Put yourself in the other person's position
- Offer psychological support
Provide an empathetic, warm and human answer to the question.`,
			Temperature: 0.7,
		},
		{
			Key:  KeyConcise,
			Name: "Concise Summarizer",
			Instruction: `You are an AI agent that prioritizes brevity and summary.
- Organize the essential points clearly
- Cut information that is not needed
- Use plain, compact wording
- Value efficient communication
Provide a concise answer that captures the essentials of the question.`,
			Temperature: 0.3,
		},
	}
}
