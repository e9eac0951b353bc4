package value

import (
	"sync"

	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
)

// PromiseState tags which of the four states (spec §3) a Promise is in.
type PromiseState int

const (
	PromiseDelayed PromiseState = iota
	PromiseForced
	PromiseTailRecursive
	PromiseExpression
)

// Promise is a lazy cell (spec §3/§4.4). Forcing is iterative and
// memoizing; the mutation happens in package eval (force trampolines
// through chained promises), guarded here by a mutex since a Promise can
// be shared across goroutines.
type Promise struct {
	mu    *sync.Mutex
	state *PromiseState

	thunk *Value // PromiseDelayed / PromiseTailRecursive: a zero-arg Procedure/Primitive
	value *Value // PromiseForced
	expr  *ast.Expr
	env   *Environment
}

func (*Promise) Kind() Kind { return KindPromise }

func NewDelayedPromise(thunk Value) *Promise {
	st := PromiseDelayed
	return &Promise{mu: &sync.Mutex{}, state: &st, thunk: &thunk}
}

func NewTailRecursivePromise(thunk Value) *Promise {
	st := PromiseTailRecursive
	return &Promise{mu: &sync.Mutex{}, state: &st, thunk: &thunk}
}

func NewExpressionPromise(expr ast.Expr, env Environment) *Promise {
	st := PromiseExpression
	return &Promise{mu: &sync.Mutex{}, state: &st, expr: &expr, env: &env}
}

func NewForcedPromise(v Value) *Promise {
	st := PromiseForced
	return &Promise{mu: &sync.Mutex{}, state: &st, value: &v}
}

// Snapshot returns the promise's current state and payload under lock,
// for the force trampoline in package eval to inspect.
func (p *Promise) Snapshot() (state PromiseState, thunk Value, expr *ast.Expr, env Environment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	state = *p.state
	if p.thunk != nil {
		thunk = *p.thunk
	}
	expr = p.expr
	if p.env != nil {
		env = *p.env
	}
	return
}

// Resolve memoizes v as the forced result, unless another goroutine raced
// and already forced it — in which case the earlier winner's value is
// returned instead, so force is idempotent under concurrent callers too.
func (p *Promise) Resolve(v Value) Value {
	p.mu.Lock()
	defer p.mu.Unlock()
	if *p.state == PromiseForced {
		return *p.value
	}
	*p.state = PromiseForced
	p.value = &v
	p.thunk = nil
	p.expr = nil
	p.env = nil
	return v
}

// MakePromise wraps an already-computed value as a forced promise, for the
// make-promise procedure (R7RS 4.2.8): if v is already a promise it is
// returned unchanged.
func MakePromise(v Value) Value {
	if _, ok := v.(*Promise); ok {
		return v
	}
	return NewForcedPromise(v)
}
