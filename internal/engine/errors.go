package engine

import "fmt"

// CausalityError is reported when an event in the trace is not deliverable
// at any existing frontier and is not the first event of its participating
// processes (spec.md §7). Processing stops at the offending event; partial
// verdicts up to that point remain valid and are reported.
type CausalityError struct {
	EventID string
	Reason  string
}

func (e *CausalityError) Error() string {
	return fmt.Sprintf("poet: causality error at event %q: %s", e.EventID, e.Reason)
}

// EvaluatorInvariantError marks an internal inconsistency — a dangling
// parent edge, a missing cache entry that should have been computed, an
// out-of-range frontier id reached through engine bookkeeping rather than
// through frontier.Graph directly. It is a bug class, not a user error, and
// a well-formed implementation should never surface one; the run aborts
// when it does.
type EvaluatorInvariantError struct {
	Detail string
}

func (e *EvaluatorInvariantError) Error() string {
	return fmt.Sprintf("poet: evaluator invariant violated: %s", e.Detail)
}
