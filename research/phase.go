package research

// Phase identifies a stage of the research state machine.
type Phase string

const (
	// PhasePlanning drafts the research plan and subtopics.
	PhasePlanning Phase = "planning"
	// PhaseMultiAngleResearch gathers information from multiple angles,
	// requesting search tools. Each entry counts as one research iteration.
	PhaseMultiAngleResearch Phase = "multi_angle_research"
	// PhaseToolExecution runs the tool calls requested by the previous phase.
	PhaseToolExecution Phase = "tool_execution"
	// PhaseExpertPerspective collects domain expert viewpoints.
	PhaseExpertPerspective Phase = "expert_perspective"
	// PhaseGapAnalysis identifies missing or weak areas and updates confidence.
	PhaseGapAnalysis Phase = "gap_analysis"
	// PhaseDeepVerification cross-checks the collected findings.
	PhaseDeepVerification Phase = "deep_verification"
	// PhaseSynthesis consolidates all findings and raises confidence.
	PhaseSynthesis Phase = "comprehensive_synthesis"
	// PhaseFinalAnswer composes the user-facing report.
	PhaseFinalAnswer Phase = "final_answer"
	// PhaseDone terminates the run.
	PhaseDone Phase = "done"
)

// RouteState is the snapshot of run state consulted by the transition table.
type RouteState struct {
	Iterations       int
	MaxIterations    int
	Confidence       float64
	PendingToolCalls bool
}

// Confidence gates used by the transition table.
const (
	gapConfidenceGate          = 0.7
	verificationConfidenceGate = 0.8
)

// NextPhase is the pure transition table of the research state machine.
// Loop-backs are additionally gated on Iterations < MaxIterations so the
// iteration ceiling holds regardless of confidence.
func NextPhase(current Phase, s RouteState) Phase {
	switch current {
	case PhasePlanning:
		return PhaseMultiAngleResearch
	case PhaseMultiAngleResearch:
		if s.PendingToolCalls {
			return PhaseToolExecution
		}
		return PhaseExpertPerspective
	case PhaseToolExecution:
		if s.Iterations < 2 {
			return PhaseExpertPerspective
		}
		return PhaseGapAnalysis
	case PhaseExpertPerspective:
		return PhaseGapAnalysis
	case PhaseGapAnalysis:
		if s.Iterations < s.MaxIterations && s.Confidence < gapConfidenceGate {
			return PhaseMultiAngleResearch
		}
		return PhaseDeepVerification
	case PhaseDeepVerification:
		if s.Confidence < verificationConfidenceGate && s.Iterations < s.MaxIterations {
			return PhaseMultiAngleResearch
		}
		return PhaseSynthesis
	case PhaseSynthesis:
		return PhaseFinalAnswer
	case PhaseFinalAnswer:
		return PhaseDone
	default:
		return PhaseDone
	}
}

// maxTransitions bounds the phases one run may execute. The longest path the
// table permits is planning, then per research pass up to four phases (the
// pass itself, tool execution, the expert visit, gap analysis), plus one
// verification visit per pass and the synthesis and final answer tail. The
// guard sits above that, so it only trips on a routing bug, never on a run
// the table allows.
func maxTransitions(maxIterations int) int {
	return 4*maxIterations + 5
}
