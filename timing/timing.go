package timing

// StandardBeatLength is the default number of ticks per beat.
const StandardBeatLength int32 = 480

// HighPrecisionBeatLength doubles StandardBeatLength for renderers needing
// finer subdivision.
const HighPrecisionBeatLength int32 = 960

// Timing is a concrete half-open [Start, End) range, the common case used
// throughout segments and the tree store.
type Timing struct {
	Start int32
	End   int32
}

// New constructs a Timing. end < start is allowed and simply produces an
// empty Timing (see IsEmpty) rather than an error: the original's own
// Timing::from(1..0) is empty, not a panic, and callers occasionally
// derive a timing whose bounds happen to cross before checking length.
func New(start, end int32) Timing {
	return Timing{Start: start, End: end}
}

// Len returns the number of ticks spanned.
func (t Timing) Len() int32 { return t.End - t.Start }

// IsEmpty reports whether the timing spans zero ticks.
func (t Timing) IsEmpty() bool { return t.Len() <= 0 }

// ShiftedBy returns t translated by delta ticks.
func (t Timing) ShiftedBy(delta int32) Timing {
	return Timing{Start: t.Start + delta, End: t.End + delta}
}

// Interval converts t to the generalized Interval form: [Included(Start),
// Excluded(End)).
func (t Timing) Interval() Interval {
	return Interval{Start: IncludedBound(t.Start), End: ExcludedBound(t.End)}
}

// Contains reports whether tick falls within [Start, End).
func (t Timing) Contains(tick int32) bool {
	return tick >= t.Start && tick < t.End
}

// Intersects reports whether t and other share at least one tick.
func (t Timing) Intersects(other Timing) bool {
	return t.Interval().Intersects(other.Interval())
}

// ContainsRange reports whether every tick of other lies in t.
func (t Timing) ContainsRange(other Timing) bool {
	return t.Interval().ContainsRange(other.Interval())
}

// Join merges a set of timings that may overlap or be adjacent into a
// minimal set of disjoint, sorted timings. Grounded in
// TimingSequenceUtil::join from the original implementation.
func Join(timings []Timing) []Timing {
	if len(timings) == 0 {
		return nil
	}
	sorted := make([]Timing, len(timings))
	copy(sorted, timings)
	sortTimings(sorted)

	out := make([]Timing, 0, len(sorted))
	cur := sorted[0]
	for _, t := range sorted[1:] {
		if t.Start <= cur.End {
			if t.End > cur.End {
				cur.End = t.End
			}
			continue
		}
		out = append(out, cur)
		cur = t
	}
	out = append(out, cur)
	return out
}

func sortTimings(ts []Timing) {
	// Simple insertion sort: segment counts per node are small, and this
	// avoids pulling in sort for a handful of elements in the hot path.
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && (ts[j].Start < ts[j-1].Start || (ts[j].Start == ts[j-1].Start && ts[j].End < ts[j-1].End)); j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}
}
