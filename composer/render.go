package composer

import "reflect"

// Renderer produces the child Segments a Segment of element type T
// expands into, given a read-only view of that segment and the
// composition context built so far. Returning (nil, nil) is a valid
// "rendered, nothing more to add" result; returning a non-nil error
// records that error on the segment and leaves it unrendered, and the
// composer retries it on every later pass until it succeeds or the
// driver stops.
type Renderer[T Element] interface {
	Render(seg SegmentView[T], ctx *Context) ([]Segment, error)
}

// RendererFunc adapts a plain function to the Renderer interface,
// mirroring the original implementation's AdhocRenderer.
type RendererFunc[T Element] func(seg SegmentView[T], ctx *Context) ([]Segment, error)

// Render calls f.
func (f RendererFunc[T]) Render(seg SegmentView[T], ctx *Context) ([]Segment, error) {
	return f(seg, ctx)
}

// RendererGroup sequences a list of Renderers for the same element type,
// concatenating their output and stopping at the first error.
type RendererGroup[T Element] []Renderer[T]

// Render runs every renderer in the group in order.
func (g RendererGroup[T]) Render(seg SegmentView[T], ctx *Context) ([]Segment, error) {
	var out []Segment
	for _, r := range g {
		children, err := r.Render(seg, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, children...)
	}
	return out, nil
}

// erasedRenderer is the type-erased form stored in a RenderEngine's
// registry, recovering the concrete element type via a reflect-guided
// downcast before delegating to the generic Renderer.
type erasedRenderer interface {
	render(seg *Segment, ctx *Context) ([]Segment, error)
}

type rendererAdapter[T Element] struct {
	inner Renderer[T]
}

func (a rendererAdapter[T]) render(seg *Segment, ctx *Context) ([]Segment, error) {
	v, ok := seg.Element.(T)
	if !ok {
		return nil, &RendererError{Kind: BadConversion, Message: "renderer registered for the wrong element type"}
	}
	return a.inner.Render(SegmentView[T]{Element: v, Timing: seg.Timing, Name: seg.Name}, ctx)
}

// RenderEngine is a registry of Renderers keyed by the concrete Element
// type they handle. A zero-value RenderEngine has no renderers.
type RenderEngine struct {
	renderers map[reflect.Type]erasedRenderer
}

// NewRenderEngine builds an empty engine.
func NewRenderEngine() *RenderEngine {
	return &RenderEngine{renderers: make(map[reflect.Type]erasedRenderer)}
}

// AddRenderer registers r to handle element type T, returning the engine
// for chaining. A second registration for the same T replaces the first,
// mirroring the "last one wins" behavior of a plain map assignment.
func AddRenderer[T Element](e *RenderEngine, r Renderer[T]) *RenderEngine {
	if e.renderers == nil {
		e.renderers = make(map[reflect.Type]erasedRenderer)
	}
	e.renderers[typeOf[T]()] = rendererAdapter[T]{inner: r}
	return e
}

// WithRenderer returns a new engine combining e's renderers with r
// registered for T, leaving e untouched. Mirrors the original
// implementation's `engine + renderer` composition.
func WithRenderer[T Element](e *RenderEngine, r Renderer[T]) *RenderEngine {
	out := e.clone()
	return AddRenderer(out, r)
}

// Merge returns a new engine combining e's and other's renderers. Where
// both register the same element type, other's renderer wins, mirroring
// `engine + engine`.
func (e *RenderEngine) Merge(other *RenderEngine) *RenderEngine {
	out := e.clone()
	for t, r := range other.renderers {
		out.renderers[t] = r
	}
	return out
}

func (e *RenderEngine) clone() *RenderEngine {
	out := NewRenderEngine()
	for t, r := range e.renderers {
		out.renderers[t] = r
	}
	return out
}

// CanRender reports whether some renderer is registered for any link in
// e's wrapping chain.
func (e *RenderEngine) CanRender(el Element) bool {
	for _, t := range wrappingChainTypes(el) {
		if _, ok := e.renderers[t]; ok {
			return true
		}
	}
	return false
}

// Render invokes every renderer registered for a link in seg.Element's
// wrapping chain, outermost first, concatenating their produced
// children and stopping at the first error. ok is false when no
// renderer at all is registered for seg.Element or anything it wraps
// (meaning the segment is terminal, not a rendering failure).
func (e *RenderEngine) Render(seg *Segment, ctx *Context) (children []Segment, err error, ok bool) {
	var generated []Segment
	found := false

	for cur := seg.Element; cur != nil; cur = cur.WrappedElement() {
		r, exists := e.renderers[reflect.TypeOf(cur)]
		if !exists {
			continue
		}
		found = true

		c, rErr := r.render(&Segment{Element: cur, Timing: seg.Timing, Name: seg.Name}, ctx)
		if rErr != nil {
			return nil, rErr, true
		}
		generated = append(generated, c...)
	}

	if !found {
		return nil, nil, false
	}
	return generated, nil, true
}
