package research

// planningConfidence is the score assigned once a research plan exists.
const planningConfidence = 0.1

// gapConfidence scores collected evidence after a gap analysis pass. It grows
// with completed research iterations and saturates at 0.9; the 0.95 ceiling is
// reserved for synthesis.
func gapConfidence(iterations int) float64 {
	c := 0.3 + 0.2*float64(iterations)
	if c > 0.9 {
		return 0.9
	}
	return c
}

// synthesisConfidence bumps the running score for the consolidation pass,
// capped at 0.95. Confidence never reaches 1.0.
func synthesisConfidence(prior float64) float64 {
	c := prior + 0.3
	if c > 0.95 {
		return 0.95
	}
	return c
}
