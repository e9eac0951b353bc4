package monad

// Reader is a computation that depends on a shared, read-only
// environment R (spec.md §4.6). Represented as a function rather than a
// deep embedding, since it has no effects to inspect — unlike IO/
// Continuation, there is nothing here worth reifying as data.
type Reader[R, A any] func(R) A

// Ask returns the environment itself.
func Ask[R any]() Reader[R, R] {
	return func(r R) R { return r }
}

// Local runs m against an environment modified by f, without affecting
// the caller's environment (spec.md §4.6).
func Local[R, A any](f func(R) R, m Reader[R, A]) Reader[R, A] {
	return func(r R) A { return m(f(r)) }
}

// RunReader evaluates m against an environment (spec.md §4.6's
// run_reader(env)).
func RunReader[R, A any](m Reader[R, A], r R) A { return m(r) }

func ReaderBind[R, A, B any](m Reader[R, A], f func(A) Reader[R, B]) Reader[R, B] {
	return func(r R) B { return f(m(r))(r) }
}

func ReaderMap[R, A, B any](m Reader[R, A], f func(A) B) Reader[R, B] {
	return func(r R) B { return f(m(r)) }
}

func ReaderPure[R, A any](a A) Reader[R, A] {
	return func(R) A { return a }
}
