// Package deliver implements the vector-clock deliverability predicate of
// spec.md §4.2: whether an event may be appended to a given frontier's cut.
package deliver

import "github.com/moraneus/PoET/internal/tevent"

// Deliverable reports whether e is deliverable at a frontier with the given
// cut (length must equal e.VC.Width()):
//
//  1. for every participating process i, cut[i] == vc(e)[i] - 1 — the
//     process's next local event at this cut is exactly e;
//  2. for every non-participating process j, cut[j] >= vc(e)[j] — the cut
//     already reflects everything e depends on via Pj.
func Deliverable(cut []uint64, e tevent.Event) bool {
	width := e.VC.Width()
	if len(cut) != width {
		return false
	}
	for i := 0; i < width; i++ {
		vci := e.VC.At(i)
		if e.Participates(i) {
			if vci == 0 || cut[i] != vci-1 {
				return false
			}
			continue
		}
		if cut[i] < vci {
			return false
		}
	}
	return true
}

// NextCut returns the cut reached by delivering e at cut: every
// participating process's index is incremented by one, all others unchanged.
// The caller must have already confirmed Deliverable(cut, e).
func NextCut(cut []uint64, e tevent.Event) []uint64 {
	next := append([]uint64(nil), cut...)
	for i := range next {
		if e.Participates(i) {
			next[i]++
		}
	}
	return next
}
