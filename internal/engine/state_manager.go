package engine

import (
	"sync"
	"time"

	"github.com/luxfi/log"

	"github.com/moraneus/PoET/internal/deliver"
	"github.com/moraneus/PoET/internal/frontier"
	"github.com/moraneus/PoET/internal/pctl"
	"github.com/moraneus/PoET/internal/poetlog"
	"github.com/moraneus/PoET/internal/poetmetrics"
	"github.com/moraneus/PoET/internal/tevent"
)

// StepResult is the per-event observation record of spec.md §6: the cut,
// propositions, and verdict of every currently-maximal frontier after the
// event that produced it.
type StepResult struct {
	EventID   string
	Maximal   []MaximalFrontier
	Verdict   bool
	Duration  time.Duration
}

// MaximalFrontier names one currently-maximal frontier's observable state.
type MaximalFrontier struct {
	ID    frontier.ID
	Cut   []uint64
	Props []string
	Value bool
}

// StateManager owns the frontier DAG (spec.md §4.3): it receives events one
// at a time, expands the DAG via the Deliverability Engine, evaluates the
// formula at every newly materialized frontier, and optionally reduces.
//
// It follows the teacher's engine shape (engine/fastdag/engine.go): a
// mutex for API safety, a log.Logger, and a *poetmetrics.Metrics,
// even though spec.md §5 guarantees single-threaded ingestion — the lock
// only protects against a caller driving on_event concurrently by mistake.
type StateManager struct {
	mu      sync.Mutex
	graph   *frontier.Graph
	eval    *Evaluator
	width   int
	reduce  bool
	log     log.Logger
	metrics *poetmetrics.Metrics

	// delivered tracks, per process, the local index of the last delivered
	// event. observeMaximal reports the frontiers whose cut equals it, and
	// Reduce uses it to recognize frontiers no future event can reach.
	delivered []uint64
}

// New builds a StateManager for a trace of the given process width and the
// given formula. reduce enables the Reduction Policy after every event.
func New(width int, formula *pctl.Node, reduce bool, logger log.Logger, metrics *poetmetrics.Metrics) *StateManager {
	if logger == nil {
		logger = poetlog.NoOp()
	}
	if metrics == nil {
		metrics = poetmetrics.NoOp()
	}
	graph := frontier.New(width)
	return &StateManager{
		graph:     graph,
		eval:      NewEvaluator(graph, formula),
		width:     width,
		reduce:    reduce,
		log:       logger,
		metrics:   metrics,
		delivered: make([]uint64, width),
	}
}

// Graph exposes the underlying frontier DAG, primarily for rendering.
func (sm *StateManager) Graph() *frontier.Graph { return sm.graph }

// OnEvent processes one trace event per the protocol of spec.md §4.3.
func (sm *StateManager) OnEvent(e tevent.Event) (StepResult, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	start := time.Now()

	parents := sm.deliverableParents(e)
	if len(parents) == 0 {
		return StepResult{}, &CausalityError{
			EventID: e.ID,
			Reason:  "not deliverable at any existing frontier (the root is never pruned, so this means a genuine causality violation)",
		}
	}

	toEvaluate := map[frontier.ID]struct{}{}
	for _, p := range parents {
		parentCut := sm.graph.Get(p).Cut
		nextCut := deliver.NextCut(parentCut, e)
		perProcess := sm.perProcessPropsForChild(p, e)
		child, created := sm.graph.EnsureChild(p, nextCut, perProcess)
		if created {
			sm.metrics.FrontiersCreated.Inc()
		} else {
			// A new incoming edge into an already-evaluated frontier
			// invalidates its temporal caches transitively (spec.md §4.4),
			// so it must be re-evaluated below.
			sm.graph.InvalidateTemporalDescendants(child, sm.eval.IsTemporal)
		}
		toEvaluate[child] = struct{}{}
	}

	for i := range sm.delivered {
		if e.Participates(i) {
			sm.delivered[i] = e.VC.At(i)
		}
	}

	formula := sm.eval.Formula()
	for child := range toEvaluate {
		if _, err := sm.eval.Evaluate(formula, child); err != nil {
			return StepResult{}, err
		}
	}

	if sm.reduce {
		pruned := Reduce(sm.graph, formula.ID, sm.delivered)
		for i := 0; i < pruned; i++ {
			sm.metrics.FrontiersPruned.Inc()
		}
	}

	result, err := sm.observeMaximal(e)
	if err != nil {
		return StepResult{}, err
	}
	result.Duration = time.Since(start)

	sm.metrics.EventsProcessed.Inc()
	sm.metrics.EventProcessTime.Observe(result.Duration.Seconds())
	sm.log.Debug("processed event", "event", e.ID, "maximal", len(result.Maximal), "verdict", result.Verdict)

	return result, nil
}

// deliverableParents returns every existing (non-pruned) frontier at which
// e is deliverable, per spec.md §4.2.
func (sm *StateManager) deliverableParents(e tevent.Event) []frontier.ID {
	var out []frontier.ID
	for _, f := range sm.graph.All() {
		if f.Pruned() {
			continue
		}
		if deliver.Deliverable(f.Cut, e) {
			out = append(out, f.ID)
		}
	}
	return out
}

// perProcessPropsForChild computes the new frontier's per-process
// propositions per spec.md §4.3 step 2c: for each process participating in
// e, its contribution becomes e's propositions (replacing whatever its
// previous local event asserted); every other process carries over whatever
// it contributed at parent unchanged.
func (sm *StateManager) perProcessPropsForChild(parent frontier.ID, e tevent.Event) []map[string]struct{} {
	parentProcs := sm.graph.Get(parent).PerProcess
	eventProps := map[string]struct{}{}
	for _, p := range e.Propositions.List() {
		eventProps[p] = struct{}{}
	}

	out := make([]map[string]struct{}, sm.width)
	for i := 0; i < sm.width; i++ {
		if e.Participates(i) {
			out[i] = eventProps
			continue
		}
		if i < len(parentProcs) {
			out[i] = parentProcs[i]
		} else {
			out[i] = map[string]struct{}{}
		}
	}
	return out
}

// observeMaximal reports the per-event record of spec.md §6: every frontier
// whose cut equals the global delivered vector (the frontiers that have
// "caught up" to every event observed so far) along with the root formula's
// verdict there. The overall verdict is the conjunction across them.
func (sm *StateManager) observeMaximal(e tevent.Event) (StepResult, error) {
	formula := sm.eval.Formula()
	result := StepResult{EventID: e.ID, Verdict: true}

	for _, f := range sm.graph.All() {
		if f.Pruned() || !cutEquals(f.Cut, sm.delivered) {
			continue
		}
		v, err := sm.eval.Evaluate(formula, f.ID)
		if err != nil {
			return StepResult{}, err
		}
		result.Maximal = append(result.Maximal, MaximalFrontier{
			ID:    f.ID,
			Cut:   append([]uint64(nil), f.Cut...),
			Props: sortedProps(f.Props),
			Value: v,
		})
		result.Verdict = result.Verdict && v
	}
	return result, nil
}

func cutEquals(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedProps(props map[string]struct{}) []string {
	out := make([]string, 0, len(props))
	for p := range props {
		out = append(out, p)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
