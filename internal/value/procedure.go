package value

import "github.com/akasaka-miraina/lambdust-sub003/internal/ast"

// Procedure is a closure: formals, body, and the environment captured at
// creation time. The captured Environment shares identity with the
// defining scope — this is what makes letrec and mutual recursion work
// (spec §3).
type Procedure struct {
	Formals []ast.Formal
	Rest    string
	Body    []ast.Expr
	Env     Environment
	Name    string
}

func (*Procedure) Kind() Kind { return KindProcedure }

// CaseLambda is an ordered list of arity clauses sharing one captured
// environment (spec §3).
type CaseLambda struct {
	Clauses []Procedure
	Env     Environment
	Name    string
}

func (*CaseLambda) Kind() Kind { return KindCaseLambda }

// Arity describes how many arguments a Primitive or Procedure accepts.
// Max == -1 means unbounded (variadic).
type Arity struct {
	Min, Max int
}

func (a Arity) Accepts(n int) bool {
	return n >= a.Min && (a.Max < 0 || n <= a.Max)
}

// EvaluatorHandle is the capability an evaluator-aware Primitive receives:
// enough to re-enter evaluation (for apply, map, for-each, call/cc, and
// exception handler dispatch) without package value depending on package
// eval. The concrete implementation lives in package eval.
type EvaluatorHandle interface {
	// Apply invokes proc with args, fully reducing to a value (used by
	// primitives like map/for-each/apply that must call back into Scheme
	// code without pushing a visible frame of their own).
	Apply(proc Value, args []Value) (Value, error)
	// CurrentEnv returns the dynamic environment the evaluator-aware
	// primitive was invoked in (needed by eval/environment introspection
	// primitives).
	CurrentEnv() Environment
}

// PrimitiveFn is a pure primitive implementation: a function of already-
// evaluated arguments with no need to re-enter the evaluator.
type PrimitiveFn func(args []Value) (Value, error)

// EvaluatorAwarePrimitiveFn is a primitive that may call back into the
// evaluator (apply, map, for-each, dynamic-wind, call/cc helpers, and
// exception handler installation all need this).
type EvaluatorAwarePrimitiveFn func(ev EvaluatorHandle, args []Value) (Value, error)

// Primitive is a built-in procedure (spec §3/§4.4).
type Primitive struct {
	Name  string
	Arity Arity

	// Exactly one of Fn/AwareFn is set.
	Fn      PrimitiveFn
	AwareFn EvaluatorAwarePrimitiveFn

	// Effects declares which monadic effects (spec §4.6) this primitive
	// may perform, for introspection/optimization; it is descriptive only
	// and is not enforced by the evaluator.
	Effects []Effect
}

func (*Primitive) Kind() Kind { return KindPrimitive }

func (p *Primitive) IsEvaluatorAware() bool { return p.AwareFn != nil }

// Effect names one of the effect categories the monad layer gives
// denotation to (spec §4.6).
type Effect int

const (
	EffectPure Effect = iota
	EffectIO
	EffectState
	EffectReader
	EffectWriter
	EffectContinuation
)
