package composer

import "github.com/dousto/redact-composer-go/timing"

// Segment pairs an Element with its placement in time and an optional
// name. Named segments are addressable by their parent renderer for
// deterministic hierarchical seeding (see Composer.ComposeWithSeed);
// unnamed segments draw their seed, in sibling order, from an RNG seeded
// by a hash of their parent's seed instead.
type Segment struct {
	Element Element
	Timing  timing.Timing
	Name    *string
}

// Over constructs a Segment placing e at t.
func Over(e Element, t timing.Timing) Segment {
	return Segment{Element: e, Timing: t}
}

// Named returns a copy of s with the given name.
func (s Segment) Named(name string) Segment {
	s.Name = &name
	return s
}

// SegmentView is a typed, read-only view onto a Segment whose Element has
// already been downcast to T, returned by query results so callers never
// need to re-run ElementAs themselves.
type SegmentView[T Element] struct {
	Element T
	Timing  timing.Timing
	Name    *string
}
