package tevent

import "fmt"

// ValidateSequence checks the per-event VC invariants of spec.md §3 against a
// trace-order sequence of events over `width` processes:
//
//   - for each participating process Pi, vc[i] == 1 + the previous vc[i] of
//     an event in which Pi participated (0 if Pi has not participated yet).
//   - for each non-participating process Pj, vc[j] == max over participants'
//     pre-event vc[j].
//
// It returns a descriptive error naming the first offending event, or nil if
// the sequence is internally consistent.
func ValidateSequence(events []Event, width int) error {
	// procVC[i] is the last full clock vector known to process i, as of its
	// most recent participation (all zero before its first event).
	procVC := make([][]uint64, width)
	for i := range procVC {
		procVC[i] = make([]uint64, width)
	}

	for _, e := range events {
		if e.VC.Width() != width {
			return fmt.Errorf("tevent: event %q has vc width %d, want %d", e.ID, e.VC.Width(), width)
		}

		for i := 0; i < width; i++ {
			got := e.VC.At(i)
			if e.Participates(i) {
				want := procVC[i][i] + 1
				if got != want {
					return fmt.Errorf(
						"tevent: event %q process %d: vc[%d]=%d, want %d (local advance by one)",
						e.ID, i, i, got, want)
				}
				continue
			}

			// Non-participant: must equal the max, over all participants,
			// of their last known knowledge of component i.
			var want uint64
			for p := 0; p < width; p++ {
				if e.Participates(p) && procVC[p][i] > want {
					want = procVC[p][i]
				}
			}
			if got != want {
				return fmt.Errorf(
					"tevent: event %q process %d: vc[%d]=%d, want %d (carry-over from participants)",
					e.ID, i, i, got, want)
			}
		}

		// Every participant now knows the full resulting vector.
		newVC := e.VC.Slice()
		for i := 0; i < width; i++ {
			if e.Participates(i) {
				procVC[i] = newVC
			}
		}
	}
	return nil
}
