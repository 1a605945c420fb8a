package timing

// IsEmpty reports whether iv can contain no value at all, e.g. [5, 5) or
// (5, 5]. An interval with any Unbounded endpoint is never empty.
func (iv Interval) IsEmpty() bool {
	s, e := iv.Start, iv.End
	switch {
	case s.Kind == Unbounded || e.Kind == Unbounded:
		return false
	case s.Kind == Included && e.Kind == Included:
		return e.Value < s.Value
	default:
		// (Included, Excluded), (Excluded, Included), (Excluded, Excluded)
		return e.Value <= s.Value
	}
}

// IsBefore reports whether iv ends strictly before other begins, with no
// overlap possible.
func (iv Interval) IsBefore(other Interval) bool {
	return (Interval{Start: other.Start, End: iv.End}).IsEmpty()
}

// IsAfter reports whether iv begins strictly after other ends.
func (iv Interval) IsAfter(other Interval) bool {
	return (Interval{Start: iv.Start, End: other.End}).IsEmpty()
}

// IsDisjointFrom reports whether iv and other share no tick.
func (iv Interval) IsDisjointFrom(other Interval) bool {
	return iv.IsBefore(other) || iv.IsAfter(other)
}

// Intersects reports whether iv and other share at least one tick.
func (iv Interval) Intersects(other Interval) bool {
	return !iv.IsDisjointFrom(other)
}

// ContainsRange reports whether every tick in other is also in iv.
func (iv Interval) ContainsRange(other Interval) bool {
	endOK := true
	switch iv.End.Kind {
	case Included:
		endOK = other.IsBefore(Interval{Start: ExcludedBound(iv.End.Value), End: UnboundedBound()})
	case Excluded:
		endOK = other.IsBefore(Interval{Start: IncludedBound(iv.End.Value), End: UnboundedBound()})
	case Unbounded:
		endOK = true
	}

	startOK := true
	switch iv.Start.Kind {
	case Included:
		startOK = other.IsAfter(Interval{Start: UnboundedBound(), End: ExcludedBound(iv.Start.Value)})
	case Excluded:
		startOK = other.IsAfter(Interval{Start: UnboundedBound(), End: IncludedBound(iv.Start.Value)})
	case Unbounded:
		startOK = true
	}

	return endOK && startOK
}

// IsContainedBy reports whether every tick in iv is also in other.
func (iv Interval) IsContainedBy(other Interval) bool {
	return other.ContainsRange(iv)
}

// BeginsWithin reports whether iv's start tick falls inside other, i.e. iv
// is not entirely after other and the slice of iv from its start to
// other's end fits inside other.
func (iv Interval) BeginsWithin(other Interval) bool {
	if iv.IsAfter(other) {
		return false
	}
	return other.ContainsRange(Interval{Start: iv.Start, End: other.End})
}

// EndsWithin reports whether iv's end tick falls inside other.
func (iv Interval) EndsWithin(other Interval) bool {
	if iv.IsBefore(other) {
		return false
	}
	return other.ContainsRange(Interval{Start: other.Start, End: iv.End})
}
