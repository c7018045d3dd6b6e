package engine

import "github.com/moraneus/PoET/internal/frontier"

// Reduce implements the Reduction Policy of spec.md §4.5: a frontier is
// disabled only once it can no longer be a deliverability target for *any*
// future event — not merely because it has already produced one child.
// Concurrent events mean a cut can go on acquiring new children (from
// different processes, arriving in any order) long after its first child
// exists; pruning on "has a child" alone can discard a frontier a later,
// concurrent event still needed as a parent, silently dropping it from the
// lattice and diverging from the unreduced verdict.
//
// delivered[i] is the local index of the last event delivered so far for
// process i. Per the Fidge–Mattern discipline, process i's own vector-clock
// component is strictly increasing across its own events: once
// delivered[i] > f.Cut[i], no future event from process i can ever satisfy
// the Deliverability Engine's participation condition at f again (that
// requires f.Cut[i] == vc(e)[i]-1, and every later event from i has
// vc(e)[i] > delivered[i] > f.Cut[i]). A future event must participate in
// at least one process, so f is unreachable by any future event exactly
// when every process has already advanced strictly past f's record of it —
// not merely when some one process has.
//
// rootID is the formula's root AST node id: a frontier is "fully evaluated"
// once its root verdict is cached, which — because Evaluator.Evaluate
// memoizes every dependency it touches along the way — guarantees every
// subformula verdict future past operators might need is already snapshotted
// (spec.md §9, "reduction correctness").
//
// Prune order is post-order by id: since a child's id is always assigned
// after its parent's, iterating from the highest id down never prunes a
// parent while a not-yet-visited child still needs it.
func Reduce(g *frontier.Graph, rootID int, delivered []uint64) (pruned int) {
	all := g.All()
	for i := len(all) - 1; i >= 0; i-- {
		f := all[i]
		if f.ID == g.Root() {
			// The all-zeros cut remains a valid delivery target for the
			// first event of any process, however long it takes that
			// process to produce one, so it is never disabled.
			continue
		}
		if f.Pruned() {
			continue
		}
		if _, ok := f.Verdict(rootID); !ok {
			continue
		}
		if !unreachable(f.Cut, delivered) {
			continue
		}
		g.Prune(f.ID)
		pruned++
	}
	return pruned
}

// unreachable reports whether every process has already produced an event
// strictly past what cut records for it, making cut permanently ineligible
// as a deliverability target for any future event.
func unreachable(cut, delivered []uint64) bool {
	for i := range cut {
		if delivered[i] <= cut[i] {
			return false
		}
	}
	return true
}
