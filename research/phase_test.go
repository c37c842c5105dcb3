package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPhase_Table(t *testing.T) {
	tests := []struct {
		name    string
		current Phase
		state   RouteState
		want    Phase
	}{
		{"planning always advances", PhasePlanning, RouteState{}, PhaseMultiAngleResearch},
		{"multi angle with pending calls", PhaseMultiAngleResearch, RouteState{PendingToolCalls: true}, PhaseToolExecution},
		{"multi angle without calls", PhaseMultiAngleResearch, RouteState{}, PhaseExpertPerspective},
		{"tools early iteration", PhaseToolExecution, RouteState{Iterations: 1, MaxIterations: 3}, PhaseExpertPerspective},
		{"tools late iteration", PhaseToolExecution, RouteState{Iterations: 2, MaxIterations: 3}, PhaseGapAnalysis},
		{"expert always to gap", PhaseExpertPerspective, RouteState{}, PhaseGapAnalysis},
		{"gap loops on low confidence", PhaseGapAnalysis, RouteState{Iterations: 1, MaxIterations: 3, Confidence: 0.5}, PhaseMultiAngleResearch},
		{"gap advances on high confidence", PhaseGapAnalysis, RouteState{Iterations: 1, MaxIterations: 3, Confidence: 0.7}, PhaseDeepVerification},
		{"gap advances at iteration ceiling", PhaseGapAnalysis, RouteState{Iterations: 3, MaxIterations: 3, Confidence: 0.1}, PhaseDeepVerification},
		{"verification loops on low confidence", PhaseDeepVerification, RouteState{Iterations: 1, MaxIterations: 3, Confidence: 0.5}, PhaseMultiAngleResearch},
		{"verification advances on high confidence", PhaseDeepVerification, RouteState{Iterations: 1, MaxIterations: 3, Confidence: 0.8}, PhaseSynthesis},
		{"verification advances at iteration ceiling", PhaseDeepVerification, RouteState{Iterations: 3, MaxIterations: 3, Confidence: 0.1}, PhaseSynthesis},
		{"synthesis always to final", PhaseSynthesis, RouteState{}, PhaseFinalAnswer},
		{"final answer terminates", PhaseFinalAnswer, RouteState{}, PhaseDone},
		{"done stays done", PhaseDone, RouteState{}, PhaseDone},
		{"unknown phase terminates", Phase("bogus"), RouteState{}, PhaseDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextPhase(tt.current, tt.state))
		})
	}
}

func TestNextPhase_IterationCeilingBeatsConfidence(t *testing.T) {
	// No confidence value may re-enter the loop once iterations hit the cap.
	for _, conf := range []float64{0.0, 0.3, 0.69, 0.79} {
		state := RouteState{Iterations: 2, MaxIterations: 2, Confidence: conf}
		assert.Equal(t, PhaseDeepVerification, NextPhase(PhaseGapAnalysis, state), "confidence %v", conf)
		assert.Equal(t, PhaseSynthesis, NextPhase(PhaseDeepVerification, state), "confidence %v", conf)
	}
}

func TestMaxTransitions_CoversLongestTablePath(t *testing.T) {
	// Walk the table with the orchestrator's own iteration and confidence
	// updates, always requesting tools, and check the run ends within the
	// guard for every configuration.
	for _, maxIterations := range []int{1, 2, 3, 4, 8} {
		state := RouteState{MaxIterations: maxIterations}
		phase := PhasePlanning
		executed := 0

		for phase != PhaseDone {
			executed++
			require.LessOrEqual(t, executed, maxTransitions(maxIterations), "max iterations %d", maxIterations)

			switch phase {
			case PhaseMultiAngleResearch:
				state.Iterations++
				state.PendingToolCalls = true
			case PhaseToolExecution:
				state.PendingToolCalls = false
			case PhaseGapAnalysis:
				state.Confidence = gapConfidence(state.Iterations)
			case PhaseSynthesis:
				state.Confidence = synthesisConfidence(state.Confidence)
			}
			phase = NextPhase(phase, state)
		}
		assert.LessOrEqual(t, state.Iterations, maxIterations, "max iterations %d", maxIterations)
	}
}
