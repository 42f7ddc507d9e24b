package format

import (
	"slices"
	"sort"

	"github.com/dshills/docline/internal/renderer/core"
)

// Segment is a maximal run of characters sharing one decoration.
type Segment struct {
	Start    int
	End      int
	Format   int   // base format from the transitions
	Overlays []int // overlay formats covering the run, in insertion order
	Selected bool
}

// Len returns the number of characters in the segment.
func (s Segment) Len() int {
	return s.End - s.Start
}

// Decorated returns true if the segment carries anything beyond the base style.
func (s Segment) Decorated() bool {
	return s.Format != None || len(s.Overlays) > 0 || s.Selected
}

func (s Segment) sameDecoration(o Segment) bool {
	return s.Format == o.Format && s.Selected == o.Selected && slices.Equal(s.Overlays, o.Overlays)
}

// Split divides [from, until) of a text of the given length into
// non-overlapping segments. Each segment carries its base format, the
// formats of all overlays covering it (insertion order, so later entries
// win when styles are merged) and whether it falls inside one of the
// selection ranges. sel holds (start, end) pairs; a trailing odd value is
// ignored. until < 0 means the end of the text. Adjacent segments with the
// same decoration are merged.
func Split(length int, ts []Transition, overlays []Range, sel []int, from, until int) []Segment {
	if until < 0 || until > length {
		until = length
	}
	if from < 0 {
		from = 0
	}
	if from >= until {
		return nil
	}

	bounds := []int{from, until}
	addBound := func(b int) {
		if b > from && b < until {
			bounds = append(bounds, b)
		}
	}
	for _, t := range ts {
		addBound(t.Offset)
	}
	for _, o := range overlays {
		addBound(o.Start)
		addBound(o.End())
	}
	for i := 0; i+1 < len(sel); i += 2 {
		addBound(sel[i])
		addBound(sel[i+1])
	}
	sort.Ints(bounds)
	bounds = slices.Compact(bounds)

	segments := make([]Segment, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		seg := Segment{
			Start:    start,
			End:      end,
			Format:   At(ts, start),
			Selected: selected(sel, start),
		}
		for _, o := range overlays {
			if o.Length > 0 && o.Contains(start) {
				seg.Overlays = append(seg.Overlays, o.Format)
			}
		}
		if n := len(segments); n > 0 && segments[n-1].sameDecoration(seg) {
			segments[n-1].End = end
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}

func selected(sel []int, offset int) bool {
	for i := 0; i+1 < len(sel); i += 2 {
		start, end := sel[i], sel[i+1]
		if start > end {
			start, end = end, start
		}
		if offset >= start && offset < end {
			return true
		}
	}
	return false
}

// Palette holds the renderer colors that are not part of a scheme.
type Palette struct {
	Base      core.Style
	Selection core.Style
}

// DefaultPalette returns the palette used when none is supplied.
func DefaultPalette() Palette {
	return Palette{
		Base:      core.DefaultStyle(),
		Selection: core.DefaultStyle().WithBackground(core.ColorFromRGB(60, 90, 130)),
	}
}

// Resolve computes the final style of a segment: palette base, then the base
// format, then each overlay in order, then the selection.
func (s Segment) Resolve(scheme *Scheme, pal Palette) core.Style {
	style := pal.Base
	if s.Format != None {
		style = style.Merge(scheme.Style(s.Format))
	}
	for _, id := range s.Overlays {
		style = style.Merge(scheme.Style(id))
	}
	if s.Selected {
		style = style.Merge(pal.Selection)
	}
	return style
}
