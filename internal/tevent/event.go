// Package tevent defines the immutable Event record observed from a trace,
// and the well-formedness checks spec.md §3 imposes on it.
package tevent

import (
	"fmt"

	"github.com/moraneus/PoET/internal/poetset"
	"github.com/moraneus/PoET/internal/vclock"
)

// Event is an immutable record of one step of the distributed execution
// being verified.
type Event struct {
	ID            string
	Processes     poetset.Set[int] // participating process indices, 0-based
	Propositions  poetset.Set[string]
	VC            vclock.Clock
}

// New constructs an Event. processes must be non-empty; vc's width must
// match the trace's process count (checked by the caller, since Event has
// no notion of trace width).
func New(id string, processes []int, propositions []string, vc vclock.Clock) (Event, error) {
	if len(processes) == 0 {
		return Event{}, fmt.Errorf("tevent: event %q has no participating processes", id)
	}
	return Event{
		ID:           id,
		Processes:    poetset.Of(processes...),
		Propositions: poetset.Of(propositions...),
		VC:           vc,
	}, nil
}

// Participates reports whether process i participates in e.
func (e Event) Participates(i int) bool {
	return e.Processes.Contains(i)
}
