// Package trace reads the JSON trace files of spec.md §6: a process count,
// optional process names, and an ordered list of events in a linearization
// consistent with vector-clock causality.
package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/moraneus/PoET/internal/tevent"
	"github.com/moraneus/PoET/internal/vclock"
)

// TraceFormatError reports a malformed trace file: bad JSON shape, a vector
// clock of the wrong width, or a participant id outside 1..N.
type TraceFormatError struct {
	Path    string
	Message string
}

func (e *TraceFormatError) Error() string {
	return fmt.Sprintf("trace: %s: %s", e.Path, e.Message)
}

// Trace is a fully parsed, causally validated trace file.
type Trace struct {
	Width        int
	ProcessNames []string
	Events       []tevent.Event
}

// wireEvent mirrors one entry of the "events" array: a 4-tuple of
// (id, participants, propositions, vc).
type wireEvent struct {
	ID           string
	Participants []string
	Propositions []string
	VC           []int
}

func (w *wireEvent) UnmarshalJSON(data []byte) error {
	var raw [4]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &w.ID); err != nil {
		return fmt.Errorf("event id: %w", err)
	}
	if err := json.Unmarshal(raw[1], &w.Participants); err != nil {
		return fmt.Errorf("participants: %w", err)
	}
	if err := json.Unmarshal(raw[2], &w.Propositions); err != nil {
		return fmt.Errorf("propositions: %w", err)
	}
	if err := json.Unmarshal(raw[3], &w.VC); err != nil {
		return fmt.Errorf("vc: %w", err)
	}
	return nil
}

type wireTrace struct {
	Processes    int         `json:"processes"`
	ProcessNames []string    `json:"process_names"`
	Events       []wireEvent `json:"events"`
}

// Load reads and validates the trace file at path.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TraceFormatError{Path: path, Message: err.Error()}
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Trace, error) {
	var wt wireTrace
	if err := json.Unmarshal(data, &wt); err != nil {
		return nil, &TraceFormatError{Path: path, Message: "invalid JSON: " + err.Error()}
	}
	if wt.Processes <= 0 {
		return nil, &TraceFormatError{Path: path, Message: "processes must be a positive integer"}
	}
	if wt.ProcessNames != nil && len(wt.ProcessNames) != wt.Processes {
		return nil, &TraceFormatError{Path: path, Message: fmt.Sprintf(
			"process_names has %d entries, want %d", len(wt.ProcessNames), wt.Processes)}
	}

	events := make([]tevent.Event, 0, len(wt.Events))
	for _, we := range wt.Events {
		procs, err := participantIndices(we.Participants, wt.Processes)
		if err != nil {
			return nil, &TraceFormatError{Path: path, Message: fmt.Sprintf("event %q: %s", we.ID, err)}
		}
		if len(we.VC) != wt.Processes {
			return nil, &TraceFormatError{Path: path, Message: fmt.Sprintf(
				"event %q: vc has width %d, want %d", we.ID, len(we.VC), wt.Processes)}
		}
		vc, err := vclock.FromInts(we.VC)
		if err != nil {
			return nil, &TraceFormatError{Path: path, Message: fmt.Sprintf("event %q: %s", we.ID, err)}
		}
		e, err := tevent.New(we.ID, procs, we.Propositions, vc)
		if err != nil {
			return nil, &TraceFormatError{Path: path, Message: err.Error()}
		}
		events = append(events, e)
	}

	if err := tevent.ValidateSequence(events, wt.Processes); err != nil {
		return nil, &TraceFormatError{Path: path, Message: err.Error()}
	}

	return &Trace{Width: wt.Processes, ProcessNames: wt.ProcessNames, Events: events}, nil
}

// participantIndices converts "Pk" labels (1-based) to 0-based indices.
func participantIndices(participants []string, width int) ([]int, error) {
	out := make([]int, 0, len(participants))
	for _, p := range participants {
		n := strings.TrimPrefix(p, "P")
		if n == p {
			return nil, fmt.Errorf("participant %q: missing P prefix", p)
		}
		k, err := strconv.Atoi(n)
		if err != nil {
			return nil, fmt.Errorf("participant %q: %w", p, err)
		}
		if k < 1 || k > width {
			return nil, fmt.Errorf("participant %q: out of range 1..%d", p, width)
		}
		out = append(out, k-1)
	}
	return out, nil
}
