package composer

import (
	"testing"

	"github.com/dousto/redact-composer-go/timing"
	"github.com/stretchr/testify/require"
)

type songElement struct {
	Unwrapped
	PartCount int
}

type partElement struct {
	Unwrapped
	Index int
}

type terminalNote struct {
	Unwrapped
	Pitch int
}

func buildTestEngine() *RenderEngine {
	engine := NewRenderEngine()
	AddRenderer[songElement](engine, RendererFunc[songElement](func(seg SegmentView[songElement], ctx *Context) ([]Segment, error) {
		out := make([]Segment, 0, seg.Element.PartCount)
		span := seg.Timing.Len() / int32(seg.Element.PartCount)
		for i := 0; i < seg.Element.PartCount; i++ {
			t := timing.New(seg.Timing.Start+int32(i)*span, seg.Timing.Start+int32(i+1)*span)
			out = append(out, Over(partElement{Index: i}, t).Named(partName(i)))
		}
		return out, nil
	}))
	AddRenderer[partElement](engine, RendererFunc[partElement](func(seg SegmentView[partElement], ctx *Context) ([]Segment, error) {
		song, err := Find[songElement](ctx).Require()
		if err != nil {
			return nil, err
		}
		rng := ctx.Rng()
		out := make([]Segment, 0, 2)
		for i := int32(0); i < 2; i++ {
			pitch := 60 + seg.Element.Index*12 + song.Element.PartCount + int(rng.Uint64()%12)
			out = append(out, Over(terminalNote{Pitch: pitch}, timing.New(seg.Timing.Start+i, seg.Timing.Start+i+1)))
		}
		return out, nil
	}))
	return engine
}

func partName(i int) string {
	switch i {
	case 0:
		return "part-0"
	default:
		return "part-n"
	}
}

func TestComposeProducesFullyRenderedTree(t *testing.T) {
	engine := buildTestEngine()
	cp := NewComposer(engine, NewComposerOptions())
	root := Over(songElement{PartCount: 2}, timing.New(0, 16))

	comp := cp.ComposeWithSeed(root, 0)

	require.Equal(t, 1+2+2*2, comp.Tree.Len())
	for idx := 0; idx < comp.Tree.Len(); idx++ {
		require.True(t, comp.Tree.Get(idx).Value.Rendered, "node %d never rendered", idx)
	}
}

func TestComposeIsDeterministicAcrossRuns(t *testing.T) {
	engine := buildTestEngine()
	cp := NewComposer(engine, NewComposerOptions())
	root := Over(songElement{PartCount: 3}, timing.New(0, 24))

	var pitchSequences [][]int
	for i := 0; i < 5; i++ {
		comp := cp.ComposeWithSeed(root, 42)
		var pitches []int
		for idx := 0; idx < comp.Tree.Len(); idx++ {
			if n, ok := ElementAs[terminalNote](comp.Tree.Get(idx).Value.Segment.Element); ok {
				pitches = append(pitches, n.Pitch)
			}
		}
		pitchSequences = append(pitchSequences, pitches)
	}
	for i := 1; i < len(pitchSequences); i++ {
		require.Equal(t, pitchSequences[0], pitchSequences[i], "run %d diverged from run 0", i)
	}
}

func TestComposeDifferentSeedsDiverge(t *testing.T) {
	engine := buildTestEngine()
	cp := NewComposer(engine, NewComposerOptions())
	root := Over(songElement{PartCount: 3}, timing.New(0, 24))

	a := cp.ComposeWithSeed(root, 1)
	b := cp.ComposeWithSeed(root, 2)

	var aPitches, bPitches []int
	for idx := 0; idx < a.Tree.Len(); idx++ {
		if n, ok := ElementAs[terminalNote](a.Tree.Get(idx).Value.Segment.Element); ok {
			aPitches = append(aPitches, n.Pitch)
		}
	}
	for idx := 0; idx < b.Tree.Len(); idx++ {
		if n, ok := ElementAs[terminalNote](b.Tree.Get(idx).Value.Segment.Element); ok {
			bPitches = append(bPitches, n.Pitch)
		}
	}
	require.NotEqual(t, aPitches, bPitches)
}

func TestComposeOfBareTerminalRootRendersWithNoChildren(t *testing.T) {
	engine := NewRenderEngine()
	cp := NewComposer(engine, NewComposerOptions())
	root := Over(terminalNote{Pitch: 60}, timing.New(0, 100))

	comp := cp.ComposeWithSeed(root, 0)

	require.Equal(t, 1, comp.Tree.Len())
	require.True(t, comp.Tree.Root().Value.Rendered)
	require.Empty(t, comp.Tree.Root().Children)
}

type neverEndingElement struct {
	Unwrapped
	Depth int
}

func TestComposeRespectsMaxPasses(t *testing.T) {
	engine := NewRenderEngine()
	AddRenderer[neverEndingElement](engine, RendererFunc[neverEndingElement](func(seg SegmentView[neverEndingElement], ctx *Context) ([]Segment, error) {
		// Always produces one more of itself: a renderer that never reaches
		// a fixed point on its own.
		return []Segment{Over(neverEndingElement{Depth: seg.Element.Depth + 1}, seg.Timing)}, nil
	}))
	cp := NewComposer(engine, NewComposerOptions(WithMaxPasses(3)))
	root := Over(neverEndingElement{Depth: 0}, timing.New(0, 1))

	comp := cp.ComposeWithSeed(root, 0)

	// With an unbounded loop this tree would grow forever; MaxPasses caps
	// it at exactly 3 passes' worth of growth, leaving the deepest node
	// unrendered rather than hanging.
	require.Equal(t, 4, comp.Tree.Len())
	require.False(t, comp.Tree.Get(comp.Tree.Len()-1).Value.Rendered)
}

type sceneElement struct {
	Unwrapped
}

type providerElement struct {
	Unwrapped
}

type consumerElement struct {
	Unwrapped
}

type dataElement struct {
	Unwrapped
	Value int
}

// TestComposeForwardDependencySucceeds covers a Provider/Consumer pair
// rendered as siblings under a common root, Provider first: the
// depth-first stack order finishes Provider's whole subtree (including
// the Data it emits) before Consumer is ever dequeued, so Consumer's
// find<Data>().require() succeeds and every node ends up rendered.
func TestComposeForwardDependencySucceeds(t *testing.T) {
	engine := NewRenderEngine()
	AddRenderer[sceneElement](engine, RendererFunc[sceneElement](func(seg SegmentView[sceneElement], ctx *Context) ([]Segment, error) {
		return []Segment{
			Over(providerElement{}, seg.Timing).Named("provider"),
			Over(consumerElement{}, seg.Timing).Named("consumer"),
		}, nil
	}))
	AddRenderer[providerElement](engine, RendererFunc[providerElement](func(seg SegmentView[providerElement], ctx *Context) ([]Segment, error) {
		return []Segment{Over(dataElement{Value: 7}, seg.Timing)}, nil
	}))
	AddRenderer[consumerElement](engine, RendererFunc[consumerElement](func(seg SegmentView[consumerElement], ctx *Context) ([]Segment, error) {
		if _, err := Find[dataElement](ctx).Require(); err != nil {
			return nil, err
		}
		return nil, nil
	}))
	cp := NewComposer(engine, NewComposerOptions())
	root := Over(sceneElement{}, timing.New(0, 16))

	comp := cp.ComposeWithSeed(root, 0)

	require.Equal(t, 4, comp.Tree.Len())
	for idx := 0; idx < comp.Tree.Len(); idx++ {
		n := comp.Tree.Get(idx).Value
		require.True(t, n.Rendered, "node %d never rendered", idx)
		require.NoError(t, n.Error)
	}
}

type mutualConsumerElement struct {
	Unwrapped
}

type consumerDataElement struct {
	Unwrapped
}

// TestComposeMutualDependencyDeadlocksWithoutHanging covers the literal
// mutual-dependency case: Provider needs the Consumer's output before it
// will emit its own, and Consumer needs the Provider's output before it
// will emit its own. Neither ever runs first successfully, so the fixed
// point is reached with both siblings unrendered rather than looping
// forever.
func TestComposeMutualDependencyDeadlocksWithoutHanging(t *testing.T) {
	engine := NewRenderEngine()
	AddRenderer[sceneElement](engine, RendererFunc[sceneElement](func(seg SegmentView[sceneElement], ctx *Context) ([]Segment, error) {
		return []Segment{
			Over(providerElement{}, seg.Timing).Named("provider"),
			Over(mutualConsumerElement{}, seg.Timing).Named("consumer"),
		}, nil
	}))
	AddRenderer[providerElement](engine, RendererFunc[providerElement](func(seg SegmentView[providerElement], ctx *Context) ([]Segment, error) {
		if _, err := Find[consumerDataElement](ctx).Require(); err != nil {
			return nil, err
		}
		return []Segment{Over(dataElement{Value: 7}, seg.Timing)}, nil
	}))
	AddRenderer[mutualConsumerElement](engine, RendererFunc[mutualConsumerElement](func(seg SegmentView[mutualConsumerElement], ctx *Context) ([]Segment, error) {
		if _, err := Find[dataElement](ctx).Require(); err != nil {
			return nil, err
		}
		return []Segment{Over(consumerDataElement{}, seg.Timing)}, nil
	}))
	cp := NewComposer(engine, NewComposerOptions())
	root := Over(sceneElement{}, timing.New(0, 16))

	comp := cp.ComposeWithSeed(root, 0)

	require.Equal(t, 3, comp.Tree.Len())
	require.True(t, comp.Tree.Root().Value.Rendered)

	unrendered := 0
	for idx := 1; idx < comp.Tree.Len(); idx++ {
		n := comp.Tree.Get(idx).Value
		if !n.Rendered {
			unrendered++
			require.Error(t, n.Error)
		}
	}
	require.Greater(t, unrendered, 0, "mutual dependency must leave at least one sibling unrendered")
}

func TestComposeWithMissingContextNeverRenders(t *testing.T) {
	engine := NewRenderEngine()
	AddRenderer[partElement](engine, RendererFunc[partElement](func(seg SegmentView[partElement], ctx *Context) ([]Segment, error) {
		// songElement is never present in this tree, so this never succeeds.
		if _, err := Find[songElement](ctx).Require(); err != nil {
			return nil, err
		}
		return nil, nil
	}))
	cp := NewComposer(engine, NewComposerOptions())
	comp := cp.ComposeWithSeed(Over(partElement{Index: 0}, timing.New(0, 4)), 0)

	require.False(t, comp.Tree.Root().Value.Rendered)
	require.Error(t, comp.Tree.Root().Value.Error)
}
