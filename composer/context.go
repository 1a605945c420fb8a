package composer

import (
	"reflect"

	"github.com/dousto/redact-composer-go/tree"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Context is handed to a Renderer alongside the segment it is expanding.
// It exposes the tree built so far (read-only from the renderer's
// perspective — mutation only ever happens through the Composer driver)
// and the query builder used to find already-rendered ancestor/sibling
// context a renderer needs in order to produce consistent output.
type Context struct {
	options   CompositionOptions
	tree      *tree.Tree[RenderSegment]
	nodeIdx   int
	typeCache []map[reflect.Type]struct{}

	// queryCache memoizes the structural (type/timing/scope) part of a
	// query's traversal, keyed on everything but its caller-supplied
	// Matching predicate, so repeated queries with the same shape during
	// one renderer invocation don't re-walk the tree. Bounded rather than
	// a plain map, since a pathological renderer issuing many distinct
	// queries shouldn't be able to grow this unboundedly within one pass.
	queryCache *lru.Cache[string, []int]
}

// newContext builds a Context for rendering the segment at nodeIdx.
func newContext(opts CompositionOptions, t *tree.Tree[RenderSegment], nodeIdx int, typeCache []map[reflect.Type]struct{}) *Context {
	cache, _ := lru.New[string, []int](256)
	return &Context{options: opts, tree: t, nodeIdx: nodeIdx, typeCache: typeCache, queryCache: cache}
}

// BeatLength returns the number of ticks per beat this composition run
// was configured with.
func (c *Context) BeatLength() int32 {
	return c.options.TicksPerBeat
}

// Rng returns a deterministic RNG seeded from the current segment's seed.
// Calling Rng twice within the same render returns independently-seeded
// generators producing the same sequence each time, so renderers that
// need more than one independent stream should prefer RngWithSeed with a
// distinguishing tag instead of calling Rng repeatedly and expecting
// fresh output.
func (c *Context) Rng() *Rand {
	return newRand(c.currentNode().Seed)
}

// RngWithSeed returns a deterministic RNG seeded from the current
// segment's seed combined with an additional caller-supplied tag, for
// renderers that need more than one independent, reproducible stream.
func (c *Context) RngWithSeed(tag string) *Rand {
	return newRand(hashSeedName(c.currentNode().Seed, tag))
}

func (c *Context) currentNode() *RenderSegment {
	return &c.tree.Get(c.nodeIdx).Value
}

// Find begins a query for segments whose element is (or wraps) a T,
// scanning the composition built so far. Absent an explicit WithTiming
// call, Get defaults to During the currently rendering segment's timing
// and GetAll/GetAtLeast default to Overlapping it.
func Find[T Element](c *Context) *Query[T] {
	return &Query[T]{ctx: c}
}
