package composer

import (
	"log/slog"
	"reflect"

	"github.com/dousto/redact-composer-go/tree"
	"github.com/google/uuid"
)

// logger is the package-level structured logger, matching this
// repository's convention of a shared log/slog logger rather than one
// instantiated per call.
var logger = slog.Default().With("component", "composer")

// Composer drives the fixed-point render loop: starting from one root
// Segment, it repeatedly asks Engine to expand any not-yet-rendered
// segment into children, until a full pass produces no new children.
type Composer struct {
	Engine  *RenderEngine
	Options ComposerOptions
}

// NewComposer builds a Composer from the given engine and options.
func NewComposer(engine *RenderEngine, opts ComposerOptions) *Composer {
	return &Composer{Engine: engine, Options: opts}
}

// Composition is the result of a Composer run: the options it used and
// the fully (or partially, if some segments never found their required
// context) rendered tree.
type Composition struct {
	RunID   string
	Options CompositionOptions
	Tree    *tree.Tree[RenderSegment]
}

// ComposeWithSeed runs the fixed-point driver starting from seg, deriving
// every descendant's seed deterministically from seed so that the same
// (seg, seed, Engine) always produces the same tree: identical segments,
// seeds, flags and child order. The returned Composition's RunID is a
// fresh random UUID on every call and is part of its JSON form, so two
// serialized runs differ in their run_id field.
//
// The driver processes the render stack in a specific order: each outer
// pass scans the stack from its current top back down to its bottom,
// popping an entry only when it sits at the top at the moment it is
// handled, and restarts the scan from the top as soon as any node
// produces children. This, not a plain queue or a full-tree rescan, is
// what keeps siblings rendered in the order they were produced and lets
// a node's children render before its next sibling does. Simplifying
// this to a breadth-first queue changes render order and is observable
// in any renderer that queries sibling context.
//
// If cp.Options.MaxPasses is set, the loop gives up and returns the tree
// as-is (with whatever nodes are still unrendered) once that many passes
// have run, guarding against a renderer that never reaches a fixed point.
func (cp *Composer) ComposeWithSeed(seg Segment, seed uint64) *Composition {
	logger.Debug("composing", "seed", seed)

	rs := tree.New(RenderSegment{Segment: seg, Seed: seed, Rendered: false})
	typeCache := []map[reflect.Type]struct{}{{}}
	renderStack := []int{0}

	pass := 0
	for {
		pass++
		if cp.Options.MaxPasses > 0 && pass > cp.Options.MaxPasses {
			logger.Warn("giving up: exceeded max passes", "maxPasses", cp.Options.MaxPasses)
			break
		}
		addedNodeCount := 0

		for i := len(renderStack) - 1; i >= 0; i-- {
			nodeIdx := renderStack[i]
			isTop := i+1 == len(renderStack)

			if rs.Get(nodeIdx).Value.Rendered {
				if isTop {
					renderStack = renderStack[:len(renderStack)-1]
				}
				continue
			}

			node := rs.Get(nodeIdx)
			ctx := newContext(CompositionOptions{ComposerOptions: cp.Options, Seed: seed}, rs, nodeIdx, typeCache)

			children, renderErr, ok := cp.Engine.Render(&node.Value.Segment, ctx)
			if !ok {
				// No renderer registered for this element or anything it
				// wraps: it's terminal, born rendered with no children, the
				// same rule applied to every other terminal node at the
				// point it's inserted as a child.
				rs.Get(nodeIdx).Value.Rendered = true
				if isTop {
					renderStack = renderStack[:len(renderStack)-1]
				}
				continue
			}
			if renderErr != nil {
				rs.Get(nodeIdx).Value.Error = renderErr
				continue
			}

			parentSeed := rs.Get(nodeIdx).Value.Seed
			childRng := newRand(hashU64s(parentSeed))

			addedIDs := make([]int, 0, len(children))
			for _, childSeg := range children {
				var childSeed uint64
				if childSeg.Name != nil {
					childSeed = hashSeedName(parentSeed, *childSeg.Name)
				} else {
					childSeed = hashU64s(childRng.Uint64())
				}
				rendered := !cp.Engine.CanRender(childSeg.Element)
				childIdx := rs.Insert(RenderSegment{Segment: childSeg, Seed: childSeed, Rendered: rendered}, nodeIdx)

				typeCache = append(typeCache, map[reflect.Type]struct{}{})
				childTypes := wrappingChainTypes(childSeg.Element)
				ancestors := append([]int{nodeIdx}, rs.Ancestors(nodeIdx)...)
				for _, anc := range ancestors {
					for _, t := range childTypes {
						typeCache[anc][t] = struct{}{}
					}
				}
				addedIDs = append(addedIDs, childIdx)
			}

			addedNodeCount += len(children)

			cur := rs.Get(nodeIdx)
			cur.Value.Rendered = true
			cur.Value.Error = nil

			if isTop {
				renderStack = renderStack[:len(renderStack)-1]
			}
			for j := len(addedIDs) - 1; j >= 0; j-- {
				renderStack = append(renderStack, addedIDs[j])
			}

			if addedNodeCount > 0 {
				break
			}
		}

		logger.Debug("pass complete", "pass", pass, "added", addedNodeCount)
		if addedNodeCount == 0 {
			break
		}
	}

	for idx := 0; idx < rs.Len(); idx++ {
		if n := rs.Get(idx); !n.Value.Rendered {
			logger.Warn("segment never rendered", "idx", idx)
		}
	}

	return &Composition{
		RunID:   uuid.NewString(),
		Options: CompositionOptions{ComposerOptions: cp.Options, Seed: seed},
		Tree:    rs,
	}
}
