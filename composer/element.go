// Package composer implements a deterministic, tree-based composition
// render engine: a fixed-point driver repeatedly expands a tree of
// Segments by dispatching each unrendered Segment's Element to a
// registered Renderer, until no renderer produces any new child, at which
// point the composition has converged.
package composer

import "reflect"

// Element is the payload a Segment carries. Most elements are terminal
// (they render nothing further); a renderer is only required for element
// types that have one registered on the RenderEngine in use.
//
// WrappedElement lets one element present itself as a stand-in for
// another for the purposes of querying: a query for type A will also
// match an element of type B that wraps an A, without B needing to
// satisfy A's interface directly. Most elements wrap nothing and should
// embed Unwrapped to satisfy this trivially.
type Element interface {
	WrappedElement() Element
}

// Unwrapped is embedded by Element implementations that never wrap
// another element.
type Unwrapped struct{}

// WrappedElement always returns nil for Unwrapped.
func (Unwrapped) WrappedElement() Element { return nil }

// ElementAs walks e's wrapping chain (e, e.WrappedElement(),
// e.WrappedElement().WrappedElement(), ...) looking for the first link
// that is itself a T, returning it and true. Returns the zero value and
// false if no link in the chain is a T.
func ElementAs[T Element](e Element) (T, bool) {
	cur := e
	for cur != nil {
		if v, ok := cur.(T); ok {
			return v, true
		}
		cur = cur.WrappedElement()
	}
	var zero T
	return zero, false
}

// wrappingChainTypes returns the concrete reflect.Type of every link in
// e's wrapping chain, used to populate the type-presence cache.
func wrappingChainTypes(e Element) []reflect.Type {
	var out []reflect.Type
	cur := e
	for cur != nil {
		out = append(out, reflect.TypeOf(cur))
		cur = cur.WrappedElement()
	}
	return out
}

// elementTypeOf reports the stable identity used for registry and context
// lookups: the concrete dynamic type behind the Element interface value.
func elementTypeOf(e Element) reflect.Type {
	return reflect.TypeOf(e)
}

// typeOf returns the reflect.Type of a type parameter, usable from
// generic functions that never have a value of T in hand.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
