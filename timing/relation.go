package timing

// Relation names how a candidate's timing must relate to a reference
// timing for a context query to accept it.
type Relation int

const (
	// During requires the candidate to fully contain the reference range.
	During Relation = iota
	// Overlapping requires any shared tick at all.
	Overlapping
	// Within requires the candidate to be fully contained by the
	// reference range.
	Within
	// BeginningWithin requires the candidate's start tick to fall inside
	// the reference range.
	BeginningWithin
	// EndingWithin requires the candidate's end tick to fall inside the
	// reference range.
	EndingWithin
	// Before requires the candidate to end at or before the reference
	// range begins.
	Before
	// After requires the candidate to begin at or after the reference
	// range ends.
	After
)

func (r Relation) String() string {
	switch r {
	case During:
		return "During"
	case Overlapping:
		return "Overlapping"
	case Within:
		return "Within"
	case BeginningWithin:
		return "BeginningWithin"
	case EndingWithin:
		return "EndingWithin"
	case Before:
		return "Before"
	case After:
		return "After"
	default:
		return "Unknown"
	}
}

// Matches reports whether candidate satisfies r with respect to ref.
func Matches(r Relation, candidate, ref Interval) bool {
	switch r {
	case During:
		return candidate.ContainsRange(ref)
	case Overlapping:
		return candidate.Intersects(ref)
	case Within:
		return candidate.IsContainedBy(ref)
	case BeginningWithin:
		return candidate.BeginsWithin(ref)
	case EndingWithin:
		return candidate.EndsWithin(ref)
	case Before:
		return candidate.IsBefore(ref)
	case After:
		return candidate.IsAfter(ref)
	default:
		return false
	}
}

// CouldMatchWithin is a cheap, conservative precheck used by the context
// query traversal to prune subtrees that cannot possibly contain a
// matching descendant, without needing to fully evaluate Matches against
// every node in the subtree. It must never reject a candidate range that
// Matches would accept for some descendant timing, but may accept ranges
// that Matches ultimately rejects.
func CouldMatchWithin(r Relation, candidate, ref Interval) bool {
	switch r {
	case During, Overlapping:
		return Matches(r, candidate, ref)
	case Within, BeginningWithin, EndingWithin:
		return ref.Intersects(candidate)
	case Before:
		switch ref.Start.Kind {
		case Included:
			return candidate.Intersects(Interval{Start: UnboundedBound(), End: ExcludedBound(ref.Start.Value)})
		case Excluded:
			return candidate.Intersects(Interval{Start: UnboundedBound(), End: IncludedBound(ref.Start.Value)})
		default:
			return false
		}
	case After:
		switch ref.End.Kind {
		case Included:
			return candidate.Intersects(Interval{Start: ExcludedBound(ref.End.Value), End: UnboundedBound()})
		case Excluded:
			return candidate.Intersects(Interval{Start: IncludedBound(ref.End.Value), End: UnboundedBound()})
		default:
			return false
		}
	default:
		return false
	}
}
