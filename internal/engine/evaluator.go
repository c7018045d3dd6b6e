package engine

import (
	"github.com/moraneus/PoET/internal/frontier"
	"github.com/moraneus/PoET/internal/pctl"
)

// Evaluator computes the past-time PCTL semantics of spec.md §4.4 over a
// frontier.Graph, memoizing per (frontier id, AST node id) as it goes. A
// single Evaluator is built around one formula AST and reused across every
// frontier the State Manager creates.
type Evaluator struct {
	root     *pctl.Node
	byID     map[int]*pctl.Node
	temporal map[int]bool
	graph    *frontier.Graph
}

// NewEvaluator indexes formula by AST node id so the evaluator and the
// invalidation logic in state_manager.go can resolve a bare node id back to
// its Node.
func NewEvaluator(graph *frontier.Graph, formula *pctl.Node) *Evaluator {
	byID := map[int]*pctl.Node{}
	temporal := map[int]bool{}
	pctl.Walk(formula, func(n *pctl.Node) {
		byID[n.ID] = n
		switch n.Kind {
		case pctl.KindEY, pctl.KindAY, pctl.KindEP, pctl.KindAP,
			pctl.KindEH, pctl.KindAH, pctl.KindES, pctl.KindAS:
			temporal[n.ID] = true
		}
	})
	return &Evaluator{root: formula, byID: byID, temporal: temporal, graph: graph}
}

// IsTemporal reports whether the AST node with the given id is a past
// temporal operator, the predicate frontier.Graph.InvalidateTemporalDescendants
// needs (spec.md §4.4: only temporal-operator caches require invalidation).
func (ev *Evaluator) IsTemporal(nodeID int) bool { return ev.temporal[nodeID] }

// Formula returns the root AST node this evaluator was built for.
func (ev *Evaluator) Formula() *pctl.Node { return ev.root }

// key identifies one (node, frontier) evaluation unit on the work stack.
type key struct {
	node *pctl.Node
	f    frontier.ID
}

// Evaluate returns ⟦node⟧(f), computing and memoizing every dependency
// along the way. It is iterative (an explicit work stack rather than Go
// recursion) per spec.md §9, so evaluation depth is bounded by heap size
// rather than goroutine stack size on traces with long frontier chains.
func (ev *Evaluator) Evaluate(node *pctl.Node, f frontier.ID) (bool, error) {
	if v, ok := ev.graph.Get(f).Verdict(node.ID); ok {
		return v, nil
	}

	stack := []key{{node, f}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		fr := ev.graph.Get(top.f)

		if _, ok := fr.Verdict(top.node.ID); ok {
			stack = stack[:len(stack)-1]
			continue
		}

		deps := ev.dependencies(top)
		missing := false
		for _, d := range deps {
			if _, ok := ev.graph.Get(d.f).Verdict(d.node.ID); !ok {
				stack = append(stack, d)
				missing = true
			}
		}
		if missing {
			continue
		}

		v, err := ev.compute(top)
		if err != nil {
			return false, err
		}
		fr.SetVerdict(top.node.ID, v)
		stack = stack[:len(stack)-1]
	}

	v, ok := ev.graph.Get(f).Verdict(node.ID)
	if !ok {
		return false, &EvaluatorInvariantError{Detail: "evaluation stack drained without producing a verdict"}
	}
	return v, nil
}

// dependencies lists every (node, frontier) pair whose verdict must be
// known before k's can be computed. Boolean connectives depend on their
// operands at the same frontier; temporal operators depend on themselves
// (EP/AP/EH/AH/ES/AS) or their operand (EY/AY) at k.f's parents.
func (ev *Evaluator) dependencies(k key) []key {
	n := k.node
	switch n.Kind {
	case pctl.KindTrue, pctl.KindFalse, pctl.KindAtom:
		return nil
	case pctl.KindNot:
		return []key{{n.Left, k.f}}
	case pctl.KindAnd, pctl.KindOr, pctl.KindImplies, pctl.KindIff:
		return []key{{n.Left, k.f}, {n.Right, k.f}}
	case pctl.KindEY, pctl.KindAY:
		parents := ev.graph.Get(k.f).Parents
		out := make([]key, 0, len(parents))
		for _, p := range parents {
			out = append(out, key{n.Left, p})
		}
		return out
	case pctl.KindEP, pctl.KindAP, pctl.KindEH, pctl.KindAH:
		parents := ev.graph.Get(k.f).Parents
		out := make([]key, 0, len(parents)+1)
		out = append(out, key{n.Left, k.f})
		for _, p := range parents {
			out = append(out, key{n, p})
		}
		return out
	case pctl.KindES, pctl.KindAS:
		parents := ev.graph.Get(k.f).Parents
		out := make([]key, 0, len(parents)+2)
		out = append(out, key{n.Left, k.f}, key{n.Right, k.f})
		for _, p := range parents {
			out = append(out, key{n, p})
		}
		return out
	default:
		return nil
	}
}

// compute evaluates k assuming every dependency returned by dependencies(k)
// is already memoized in the graph.
func (ev *Evaluator) compute(k key) (bool, error) {
	n := k.node
	fr := ev.graph.Get(k.f)
	val := func(node *pctl.Node, f frontier.ID) bool {
		v, _ := ev.graph.Get(f).Verdict(node.ID)
		return v
	}

	switch n.Kind {
	case pctl.KindTrue:
		return true, nil
	case pctl.KindFalse:
		return false, nil
	case pctl.KindAtom:
		return fr.HasProp(n.Atom), nil
	case pctl.KindNot:
		return !val(n.Left, k.f), nil
	case pctl.KindAnd:
		return val(n.Left, k.f) && val(n.Right, k.f), nil
	case pctl.KindOr:
		return val(n.Left, k.f) || val(n.Right, k.f), nil
	case pctl.KindImplies:
		return !val(n.Left, k.f) || val(n.Right, k.f), nil
	case pctl.KindIff:
		return val(n.Left, k.f) == val(n.Right, k.f), nil

	case pctl.KindEY:
		parents := fr.Parents
		if len(parents) == 0 {
			return false, nil
		}
		for _, p := range parents {
			if val(n.Left, p) {
				return true, nil
			}
		}
		return false, nil

	case pctl.KindAY:
		parents := fr.Parents
		if len(parents) == 0 {
			return true, nil // vacuous truth at the root, spec.md §4.4
		}
		for _, p := range parents {
			if !val(n.Left, p) {
				return false, nil
			}
		}
		return true, nil

	case pctl.KindEP:
		if val(n.Left, k.f) {
			return true, nil
		}
		parents := fr.Parents
		for _, p := range parents {
			if val(n, p) {
				return true, nil
			}
		}
		return false, nil

	case pctl.KindAP:
		if val(n.Left, k.f) {
			return true, nil
		}
		parents := fr.Parents
		if len(parents) == 0 {
			return true, nil
		}
		for _, p := range parents {
			if !val(n, p) {
				return false, nil
			}
		}
		return true, nil

	case pctl.KindEH:
		if !val(n.Left, k.f) {
			return false, nil
		}
		parents := fr.Parents
		if len(parents) == 0 {
			return true, nil // root(f)
		}
		for _, p := range parents {
			if val(n, p) {
				return true, nil
			}
		}
		return false, nil

	case pctl.KindAH:
		if !val(n.Left, k.f) {
			return false, nil
		}
		parents := fr.Parents
		if len(parents) == 0 {
			return true, nil // root(f)
		}
		for _, p := range parents {
			if !val(n, p) {
				return false, nil
			}
		}
		return true, nil

	case pctl.KindES:
		if val(n.Right, k.f) {
			return true, nil
		}
		if !val(n.Left, k.f) {
			return false, nil
		}
		parents := fr.Parents
		for _, p := range parents {
			if val(n, p) {
				return true, nil
			}
		}
		return false, nil

	case pctl.KindAS:
		if val(n.Right, k.f) {
			return true, nil
		}
		parents := fr.Parents
		if !val(n.Left, k.f) || len(parents) == 0 {
			// explicit "(f is not root)" guard: AS never inherits AY's
			// vacuous truth at the root (spec.md §4.4).
			return false, nil
		}
		for _, p := range parents {
			if !val(n, p) {
				return false, nil
			}
		}
		return true, nil

	default:
		return false, &EvaluatorInvariantError{Detail: "unknown AST node kind"}
	}
}
