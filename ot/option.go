package ot

import "fmt"

// Option holds a value which may be absent. cmap lookups return an
// Option[GlyphIndex], with None for codes the subtable does not map.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None is the absent value.
func None[T any]() Option[T] {
	return Option[T]{}
}

func (o Option[T]) IsSome() bool { return o.ok }
func (o Option[T]) IsNone() bool { return !o.ok }

// Unwrap returns the value in the "comma ok" style.
func (o Option[T]) Unwrap() (T, bool) {
	return o.value, o.ok
}

// MustUnwrap returns the value. It panics for None and is meant for call
// sites which have checked IsSome.
func (o Option[T]) MustUnwrap() T {
	if !o.ok {
		panic("ot: MustUnwrap called on None")
	}
	return o.value
}

// Or returns the value, or def for None.
func (o Option[T]) Or(def T) T {
	if !o.ok {
		return def
	}
	return o.value
}

func (o Option[T]) String() string {
	if o.ok {
		return fmt.Sprintf("Some(%v)", o.value)
	}
	return "None"
}
