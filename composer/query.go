package composer

import (
	"fmt"
	"reflect"

	"github.com/dousto/redact-composer-go/timing"
)

type scopeKind int

const (
	scopeNone scopeKind = iota
	scopeWithin
	scopeWithinAncestor
)

type scope struct {
	kind scopeKind
	typ  reflect.Type
}

type timingConstraint struct {
	set      bool
	relation timing.Relation
	ref      timing.Interval
}

// Query builds up a search for already-rendered segments whose element
// is, or wraps, a T. Zero or more of WithTiming/Within/WithinAncestor/
// Matching narrow the search; Get/GetAll/GetAtLeast/Require/RequireAll/
// RequireAtLeast run it.
type Query[T Element] struct {
	ctx      *Context
	timing   timingConstraint
	scope    scope
	matching func(T) bool
}

// WithTiming constrains results to segments whose timing satisfies
// relation with respect to ref.
func (q *Query[T]) WithTiming(relation timing.Relation, ref timing.Interval) *Query[T] {
	q.timing = timingConstraint{set: true, relation: relation, ref: ref}
	return q
}

// Matching adds an arbitrary predicate over the matched element value.
func (q *Query[T]) Matching(pred func(T) bool) *Query[T] {
	q.matching = pred
	return q
}

// Within restricts results to segments whose own element, or some
// ancestor's, wraps a type A, without restricting where the search
// itself starts (the whole composition built so far is still scanned;
// candidates outside any A's subtree — including the candidate itself —
// are just filtered out).
func Within[T Element, A Element](q *Query[T]) *Query[T] {
	q.scope = scope{kind: scopeWithin, typ: typeOf[A]()}
	return q
}

// WithinAncestor restricts both the search root (the nearest ancestor of
// the segment currently being rendered that is, or wraps, an A) and the
// result set (only descendants of that ancestor match). If no such
// ancestor exists, the query matches nothing.
func WithinAncestor[T Element, A Element](q *Query[T]) *Query[T] {
	q.scope = scope{kind: scopeWithinAncestor, typ: typeOf[A]()}
	return q
}

func (q *Query[T]) searchRoot() (int, bool) {
	if q.scope.kind != scopeWithinAncestor {
		return 0, true
	}
	for _, anc := range q.ctx.tree.Ancestors(q.ctx.nodeIdx) {
		el := q.ctx.tree.Get(anc).Value.Segment.Element
		if hasType(el, q.scope.typ) {
			return anc, true
		}
	}
	return 0, false
}

func hasType(el Element, t reflect.Type) bool {
	for _, et := range wrappingChainTypes(el) {
		if et == t {
			return true
		}
	}
	return false
}

func (q *Query[T]) inScope(idx int) bool {
	if q.scope.kind == scopeNone || q.scope.kind == scopeWithinAncestor {
		return true
	}
	if hasType(q.ctx.tree.Get(idx).Value.Segment.Element, q.scope.typ) {
		return true
	}
	for _, anc := range q.ctx.tree.Ancestors(idx) {
		el := q.ctx.tree.Get(anc).Value.Segment.Element
		if hasType(el, q.scope.typ) {
			return true
		}
	}
	return false
}

// collect runs the query, stopping early once limit matches are found
// (limit <= 0 means unlimited), using the default relation when no
// explicit WithTiming call set one.
func (q *Query[T]) collect(limit int, defaultRelation timing.Relation) []SegmentView[T] {
	rel := defaultRelation
	ref := q.ctx.currentNode().Segment.Timing.Interval()
	if q.timing.set {
		rel = q.timing.relation
		ref = q.timing.ref
	}

	candidates := q.structuralCandidates(rel, ref)

	var out []SegmentView[T]
	for _, idx := range candidates {
		seg := q.ctx.tree.Get(idx).Value.Segment
		v, _ := ElementAs[T](seg.Element)
		if q.matching != nil && !q.matching(v) {
			continue
		}
		out = append(out, SegmentView[T]{Element: v, Timing: seg.Timing, Name: seg.Name})
		if limit > 0 && len(out) >= limit {
			return out
		}
	}
	return out
}

// structuralCandidates returns the indices of every node whose element
// is a T, whose timing satisfies rel against ref, and which is in the
// query's scope — everything collect checks except the caller's
// Matching predicate, which can't be memoized since it's an arbitrary
// closure. Memoized per-Context since a render sometimes issues the same
// structural shape of query more than once (e.g. once to check presence,
// again with a different Matching predicate).
func (q *Query[T]) structuralCandidates(rel timing.Relation, ref timing.Interval) []int {
	root, ok := q.searchRoot()
	if !ok {
		return nil
	}

	key := fmt.Sprintf("%s|%d|%s|%d|%v|%d", typeOf[T](), rel, ref, q.scope.kind, q.scope.typ, root)
	if q.ctx.queryCache != nil {
		if cached, ok := q.ctx.queryCache.Get(key); ok {
			return cached
		}
	}

	t := typeOf[T]()
	var out []int
	queue := []int{root}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		n := q.ctx.tree.Get(idx)
		if n == nil {
			continue
		}
		seg := n.Value.Segment

		if _, match := ElementAs[T](seg.Element); match {
			if timing.Matches(rel, seg.Timing.Interval(), ref) && q.inScope(idx) {
				out = append(out, idx)
			}
		}

		if !n.Value.Rendered {
			continue
		}
		if !cacheMayContain(q.ctx.typeCache, idx, t) {
			continue
		}
		if !timing.CouldMatchWithin(rel, seg.Timing.Interval(), ref) {
			continue
		}
		queue = append(queue, n.Children...)
	}

	if q.ctx.queryCache != nil {
		q.ctx.queryCache.Add(key, out)
	}
	return out
}

func cacheMayContain(cache []map[reflect.Type]struct{}, idx int, t reflect.Type) bool {
	if idx < 0 || idx >= len(cache) || cache[idx] == nil {
		return false
	}
	_, ok := cache[idx][t]
	return ok
}

// Get returns the first matching segment, defaulting to the During
// relation when no explicit WithTiming was set.
func (q *Query[T]) Get() (SegmentView[T], bool) {
	results := q.collect(1, timing.During)
	if len(results) == 0 {
		var zero SegmentView[T]
		return zero, false
	}
	return results[0], true
}

// GetAll returns every matching segment, defaulting to the Overlapping
// relation when no explicit WithTiming was set.
func (q *Query[T]) GetAll() []SegmentView[T] {
	return q.collect(0, timing.Overlapping)
}

// GetAtLeast returns every matching segment if at least n were found,
// or (nil, false) otherwise.
func (q *Query[T]) GetAtLeast(n int) ([]SegmentView[T], bool) {
	results := q.collect(0, timing.Overlapping)
	if len(results) < n {
		return nil, false
	}
	return results, true
}

func missingContextError[T Element]() error {
	return NewMissingContext(typeOf[T]().String())
}

// Require is Get, turned into a RendererError on failure.
func (q *Query[T]) Require() (SegmentView[T], error) {
	v, ok := q.Get()
	if !ok {
		return v, missingContextError[T]()
	}
	return v, nil
}

// RequireAll is GetAll, turned into a RendererError when nothing matched.
func (q *Query[T]) RequireAll() ([]SegmentView[T], error) {
	results := q.GetAll()
	if len(results) == 0 {
		return nil, missingContextError[T]()
	}
	return results, nil
}

// RequireAtLeast is GetAtLeast, turned into a RendererError on failure.
func (q *Query[T]) RequireAtLeast(n int) ([]SegmentView[T], error) {
	results, ok := q.GetAtLeast(n)
	if !ok {
		return nil, missingContextError[T]()
	}
	return results, nil
}
