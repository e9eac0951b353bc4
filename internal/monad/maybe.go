// Package monad implements the small library of monadic types spec.md
// §4.6 calls for: Maybe, Either, Identity, Writer, Reader, State, IO,
// Continuation, List, and Parser. IO and Continuation are first-order
// deep embeddings (a value describing the computation, run by a separate
// interpreter). Reader, State and Parser are plain Go functions, and
// Maybe, Either, Identity, Writer and List are plain data, so those
// computations cannot be inspected or reordered before they run.
//
// The tagged-struct-with-optional-payload shape used by IO and
// Continuation below is the same idiom as the teacher's undo.Op (one
// struct, a closed set of constructors, fields that matter depend on
// which constructor built the value) — generalized here from "insert or
// delete" to a full effect algebra, and from a concrete document op to a
// generic value-producing computation via Go 1.21 type parameters.
package monad

// Maybe is the short-circuit-on-absence monad (spec.md §4.6): either a
// present value (Just) or an absent one (Nothing).
type Maybe[A any] struct {
	present bool
	value   A
}

// Just wraps a present value.
func Just[A any](a A) Maybe[A] { return Maybe[A]{present: true, value: a} }

// Nothing constructs the absent value.
func Nothing[A any]() Maybe[A] { return Maybe[A]{} }

// IsJust reports whether m holds a value.
func (m Maybe[A]) IsJust() bool { return m.present }

// FromJust extracts the held value, or the zero value if m is Nothing.
func (m Maybe[A]) FromJust() A { return m.value }

// MaybeBind is `return a >>= f` for Maybe: short-circuits on Nothing.
func MaybeBind[A, B any](m Maybe[A], f func(A) Maybe[B]) Maybe[B] {
	if !m.present {
		return Nothing[B]()
	}
	return f(m.value)
}

// MaybeMap lifts a pure function over Maybe.
func MaybeMap[A, B any](m Maybe[A], f func(A) B) Maybe[B] {
	return MaybeBind(m, func(a A) Maybe[B] { return Just(f(a)) })
}
