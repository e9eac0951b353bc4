package monad

// Monoid is the constraint Writer's log type must satisfy: an identity
// element and an associative combine, per spec.md §4.6's "W is a
// monoid (mempty/mappend)".
type Monoid[W any] interface {
	Mempty() W
	Mappend(W) W
}

// Writer pairs a value with an accumulated log (spec.md §4.6). The log
// type W must implement Monoid[W] so Bind can combine two computations'
// logs associatively.
type Writer[W Monoid[W], A any] struct {
	value  A
	output W
}

// NewWriter constructs a Writer with an explicit log.
func NewWriter[W Monoid[W], A any](a A, w W) Writer[W, A] {
	return Writer[W, A]{value: a, output: w}
}

// Tell appends a log entry with no value of interest (spec.md §4.6).
func Tell[W Monoid[W]](w W) Writer[W, struct{}] {
	return Writer[W, struct{}]{output: w}
}

// Run returns the value and accumulated log.
func (w Writer[W, A]) Run() (A, W) { return w.value, w.output }

// WriterBind sequences two Writer computations, mappending their logs.
func WriterBind[W Monoid[W], A, B any](m Writer[W, A], f func(A) Writer[W, B]) Writer[W, B] {
	next := f(m.value)
	return Writer[W, B]{value: next.value, output: m.output.Mappend(next.output)}
}

// Listen exposes the accumulated log alongside the value (spec.md §4.6).
func Listen[W Monoid[W], A any](m Writer[W, A]) Writer[W, struct {
	Value A
	Log   W
}] {
	return Writer[W, struct {
		Value A
		Log   W
	}]{
		value:  struct {
			Value A
			Log   W
		}{Value: m.value, Log: m.output},
		output: m.output,
	}
}

// Censor rewrites the accumulated log in place (spec.md §4.6).
func Censor[W Monoid[W], A any](m Writer[W, A], f func(W) W) Writer[W, A] {
	return Writer[W, A]{value: m.value, output: f(m.output)}
}

// Pass applies a log-rewriting function returned alongside the value
// (spec.md §4.6): the inner computation produces (a, W->W) and that
// function is applied to the log accumulated so far.
func Pass[W Monoid[W], A any](m Writer[W, struct {
	Value A
	Rewrite func(W) W
}]) Writer[W, A] {
	v, w := m.Run()
	return Writer[W, A]{value: v.Value, output: v.Rewrite(w)}
}
