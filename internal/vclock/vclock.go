// Package vclock implements fixed-width Fidge-Mattern vector clocks.
package vclock

import (
	"errors"
	"fmt"
	"strings"
)

// Clock is a fixed-width tuple of non-negative integer counters, one per
// process declared by a trace. The zero value is not valid; use New.
type Clock struct {
	counters []uint64
}

// New returns a zeroed Clock of the given width.
func New(width int) Clock {
	return Clock{counters: make([]uint64, width)}
}

// FromSlice returns a Clock with the given component values. The slice is
// copied; the caller retains ownership of vals.
func FromSlice(vals []uint64) Clock {
	c := Clock{counters: make([]uint64, len(vals))}
	copy(c.counters, vals)
	return c
}

// FromInts is a convenience constructor for literal clocks in tests and
// trace decoding, where components arrive as plain ints.
func FromInts(vals []int) (Clock, error) {
	out := make([]uint64, len(vals))
	for i, v := range vals {
		if v < 0 {
			return Clock{}, fmt.Errorf("vclock: component %d is negative: %d", i, v)
		}
		out[i] = uint64(v)
	}
	return Clock{counters: out}, nil
}

// Width returns the number of components in the clock.
func (c Clock) Width() int {
	return len(c.counters)
}

// At returns the i'th component.
func (c Clock) At(i int) uint64 {
	return c.counters[i]
}

// Slice returns a copy of the clock's components.
func (c Clock) Slice() []uint64 {
	out := make([]uint64, len(c.counters))
	copy(out, c.counters)
	return out
}

// errWidthMismatch is returned by comparison/merge operations when operands
// have different widths.
var errWidthMismatch = errors.New("vclock: width mismatch")

// ErrWidthMismatch reports whether err was produced by a width mismatch
// between two clocks.
func ErrWidthMismatch(err error) bool {
	return errors.Is(err, errWidthMismatch)
}

// LessEqual reports whether c <= other: every component of c is <= the
// corresponding component of other. Returns an error if widths differ.
func (c Clock) LessEqual(other Clock) (bool, error) {
	if c.Width() != other.Width() {
		return false, fmt.Errorf("%w: %d != %d", errWidthMismatch, c.Width(), other.Width())
	}
	for i, v := range c.counters {
		if v > other.counters[i] {
			return false, nil
		}
	}
	return true, nil
}

// Less reports whether c < other: c <= other and c != other.
func (c Clock) Less(other Clock) (bool, error) {
	le, err := c.LessEqual(other)
	if err != nil || !le {
		return false, err
	}
	return !c.Equal(other), nil
}

// Equal reports whether c and other have identical components. Clocks of
// different widths are never equal.
func (c Clock) Equal(other Clock) bool {
	if c.Width() != other.Width() {
		return false
	}
	for i, v := range c.counters {
		if v != other.counters[i] {
			return false
		}
	}
	return true
}

// Concurrent reports whether neither c <= other nor other <= c holds.
func (c Clock) Concurrent(other Clock) (bool, error) {
	le1, err := c.LessEqual(other)
	if err != nil {
		return false, err
	}
	le2, err := other.LessEqual(c)
	if err != nil {
		return false, err
	}
	return !le1 && !le2, nil
}

// Max returns the componentwise maximum of c and other.
func (c Clock) Max(other Clock) (Clock, error) {
	if c.Width() != other.Width() {
		return Clock{}, fmt.Errorf("%w: %d != %d", errWidthMismatch, c.Width(), other.Width())
	}
	out := make([]uint64, c.Width())
	for i := range out {
		if c.counters[i] > other.counters[i] {
			out[i] = c.counters[i]
		} else {
			out[i] = other.counters[i]
		}
	}
	return Clock{counters: out}, nil
}

// WithIncrement returns a copy of c with component i incremented by delta.
func (c Clock) WithIncrement(i int, delta uint64) Clock {
	out := c.Slice()
	out[i] += delta
	return Clock{counters: out}
}

// String renders the clock as "[v0, v1, ..., vn-1]".
func (c Clock) String() string {
	parts := make([]string, len(c.counters))
	for i, v := range c.counters {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
