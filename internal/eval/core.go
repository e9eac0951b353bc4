// Core ambient primitives: the handful of procedures the desugaring in
// this package depends on directly (eqv? for case, apply/dynamic-wind/
// with-exception-handler as the evaluator-aware control primitives spec
// §4.4/§7/§9 describe), installed ahead of package stdlib so that
// internal/eval is self-contained and testable without it.
package eval

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// InstallCore registers every primitive this package's own desugaring and
// special forms rely on into global. Package stdlib installs everything
// else (SRFI-1 lists, numeric towers, strings, vectors, ...) on top of
// this, so an Evaluator built over just InstallCore's bindings can still
// run every form eval itself lowers to (case, guard, parameterize,
// call-with-values).
func InstallCore(global value.Environment) {
	prims := []*value.Primitive{
		eqPrimitive, eqvPrimitive, equalPrimitive,
		applyPrimitive,
		forcePrimitive, makePromisePrimitive,
		valuesPrimitive, callWithValuesPrimitive,
		raisePrimitive, raiseContinuablePrimitive, errorPrimitive,
		withExceptionHandlerPrimitive,
		dynamicWindPrimitive,
		makeParameterPrimitive,
	}
	for _, p := range prims {
		global.Define(value.NewSymbol(p.Name).ID, p)
	}
}

var eqPrimitive = &value.Primitive{
	Name:  "eq?",
	Arity: value.Arity{Min: 2, Max: 2},
	Fn: func(args []value.Value) (value.Value, error) {
		return value.Bool(value.Eq(args[0], args[1])), nil
	},
}

var eqvPrimitive = &value.Primitive{
	Name:  "eqv?",
	Arity: value.Arity{Min: 2, Max: 2},
	Fn: func(args []value.Value) (value.Value, error) {
		return value.Bool(value.Eqv(args[0], args[1])), nil
	},
}

var equalPrimitive = &value.Primitive{
	Name:  "equal?",
	Arity: value.Arity{Min: 2, Max: 2},
	Fn: func(args []value.Value) (value.Value, error) {
		return value.Bool(value.Equal(args[0], args[1])), nil
	},
}

// applyPrimitive implements R7RS 6.10's apply: the last argument must be
// a proper list, spread as the tail of the argument list passed to proc.
var applyPrimitive = &value.Primitive{
	Name:  "apply",
	Arity: value.Arity{Min: 1, Max: -1},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		proc := args[0]
		rest := args[1:]
		if len(rest) == 0 {
			return ev.Apply(proc, nil)
		}
		spread, ok := value.ListToSlice(rest[len(rest)-1])
		if !ok {
			return nil, lerr.NewRuntimeError("apply: last argument must be a proper list")
		}
		callArgs := append(append([]value.Value{}, rest[:len(rest)-1]...), spread...)
		return ev.Apply(proc, callArgs)
	},
}

// dynamicWindPrimitive implements R7RS 6.10's dynamic-wind as a primitive
// rather than a machine.WindFrame pushed onto the Machine's context
// (DESIGN.md): before and after bracket a nested Apply of thunk directly,
// so an ordinary return, a raised exception, or a continuation jump
// unwinding through this Go call all run after exactly once, via Go's own
// call-stack unwinding rather than Machine-level bookkeeping. The
// limitation this accepts: rewinding into this dynamic extent from
// outside it via a multi-shot continuation invoked later does not re-run
// before (spec §9 open question 4).
var dynamicWindPrimitive = &value.Primitive{
	Name:  "dynamic-wind",
	Arity: value.Arity{Min: 3, Max: 3},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		before, during, after := args[0], args[1], args[2]
		if _, err := ev.Apply(before, nil); err != nil {
			return nil, err
		}
		result, err := ev.Apply(during, nil)
		if _, aerr := ev.Apply(after, nil); aerr != nil && err == nil {
			return nil, aerr
		}
		return result, err
	},
}

// makeParameterPrimitive implements R7RS 7.1.4's make-parameter: the
// optional converter is applied once up front to the initial value (and
// again by parameterize, in package eval, on every rebind).
var makeParameterPrimitive = &value.Primitive{
	Name:  "make-parameter",
	Arity: value.Arity{Min: 1, Max: 2},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		initial := args[0]
		var converter value.Value
		if len(args) == 2 {
			converter = args[1]
			converted, err := ev.Apply(converter, []value.Value{initial})
			if err != nil {
				return nil, err
			}
			initial = converted
		}
		return value.NewParameter(initial, converter), nil
	},
}
