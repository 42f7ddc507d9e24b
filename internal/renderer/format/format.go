// Package format provides format identifiers, format transitions, overlay
// ranges and the decoration merge used when a line is drawn or exported.
//
// A line carries two independent decoration sources:
//
//   - Transitions: the persistent per-line format assignment produced by
//     lexical analysis. Each transition starts a format that runs until the
//     next transition. Text before the first transition uses None.
//   - Ranges (overlays): transient decorations such as selections and search
//     hits. They are kept in insertion order and later ranges win when they
//     overlap.
//
// Split merges both sources (plus an optional selection) into
// non-overlapping segments.
package format

import (
	"fmt"
	"sort"
)

// None is the format id meaning "no format"; it resolves to the base style.
const None = 0

// Any may be passed where a preferred format is accepted to match every format.
const Any = -1

// Transition starts Format at character Offset.
type Transition struct {
	Offset int
	Format int
}

// Range is a decoration over [Start, Start+Length).
type Range struct {
	Start  int
	Length int
	Format int
}

// End returns the exclusive end offset of the range.
func (r Range) End() int {
	return r.Start + r.Length
}

// Contains returns true if offset lies within the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End()
}

// Intersects returns true if the range overlaps [start, end).
// An empty range intersects if its start lies within [start, end].
func (r Range) Intersects(start, end int) bool {
	if r.Length == 0 {
		return r.Start >= start && r.Start <= end
	}
	return r.Start < end && start < r.End()
}

// Clamp restricts the range to [0, length]. The start is moved first and
// the length is only shortened when the range would otherwise overflow.
func (r Range) Clamp(length int) Range {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.Start > length {
		r.Start = length
	}
	if r.Length < 0 {
		r.Length = 0
	}
	if r.End() > length {
		r.Length = length - r.Start
	}
	return r
}

func (r Range) String() string {
	return fmt.Sprintf("{start:%d, length:%d, format:%d}", r.Start, r.Length, r.Format)
}

// Normalize returns a canonical copy of transitions for a text of the given
// length: sorted by offset, clamped to [0, length], with only the last
// transition kept per offset and redundant repeats of the same format
// dropped. Normalized sequences that decorate the same way compare equal.
func Normalize(ts []Transition, length int) []Transition {
	if len(ts) == 0 {
		return nil
	}
	sorted := make([]Transition, len(ts))
	copy(sorted, ts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	out := make([]Transition, 0, len(sorted))
	for _, t := range sorted {
		if t.Offset < 0 {
			t.Offset = 0
		}
		if t.Offset >= length {
			// nothing left to decorate
			continue
		}
		if n := len(out); n > 0 && out[n-1].Offset == t.Offset {
			out[n-1] = t
			continue
		}
		out = append(out, t)
	}

	// Drop transitions that do not change the active format.
	result := out[:0]
	current := None
	for _, t := range out {
		if t.Format == current {
			continue
		}
		result = append(result, t)
		current = t.Format
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// At returns the format active at offset.
func At(ts []Transition, offset int) int {
	i := sort.Search(len(ts), func(i int) bool {
		return ts[i].Offset > offset
	})
	if i == 0 {
		return None
	}
	return ts[i-1].Format
}

// FromPerChar converts a per-character format vector into transitions.
func FromPerChar(formats []int) []Transition {
	var out []Transition
	current := None
	for i, f := range formats {
		if f != current {
			out = append(out, Transition{Offset: i, Format: f})
			current = f
		}
	}
	return out
}

// ToPerChar expands transitions into one format id per character.
func ToPerChar(ts []Transition, length int) []int {
	out := make([]int, length)
	ti := 0
	current := None
	for i := 0; i < length; i++ {
		for ti < len(ts) && ts[ti].Offset <= i {
			current = ts[ti].Format
			ti++
		}
		out[i] = current
	}
	return out
}
