package core

// TransitionBudget caps how many state transitions a single run may take.
// Runs are single-threaded per session, so the budget carries no locking.
// A limit of zero or less means unlimited.
type TransitionBudget struct {
	limit int
	used  int
}

// NewTransitionBudget creates a budget allowing up to limit transitions.
func NewTransitionBudget(limit int) *TransitionBudget {
	return &TransitionBudget{limit: limit}
}

// Spend consumes one transition. It returns false once the budget is
// exhausted; the transition itself is still counted so Used stays accurate.
func (b *TransitionBudget) Spend() bool {
	b.used++
	return b.limit <= 0 || b.used <= b.limit
}

// Used returns the number of transitions consumed so far.
func (b *TransitionBudget) Used() int {
	return b.used
}

// Exhausted reports whether the budget has run out.
func (b *TransitionBudget) Exhausted() bool {
	return b.limit > 0 && b.used >= b.limit
}
