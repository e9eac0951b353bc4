package eval

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// formDelay builds an expression promise directly from the unevaluated
// body (R7RS 4.2.5): forcing it later evaluates body in the environment
// captured here.
func formDelay(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(operands) != 1 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("delay: expected exactly one expression")
	}
	return value.NewExpressionPromise(operands[0], env), ast.Expr{}, nil, false, nil
}

// formDelayForce (R7RS 4.2.5's delay-force / SRFI 45's lazy) wraps body
// as a zero-argument thunk rather than an expression promise, so force's
// trampoline (below) can tell it apart: a tail-recursive promise that
// itself resolves to another promise must be iterated rather than
// nested, to support constant-space loops built from delay-force chains.
func formDelayForce(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(operands) != 1 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("delay-force: expected exactly one expression")
	}
	thunk := &value.Procedure{Body: []ast.Expr{operands[0]}, Env: env}
	return value.NewTailRecursivePromise(thunk), ast.Expr{}, nil, false, nil
}

// forcePromise implements R7RS 4.2.5's force: iterative so a chain of
// delay-force promises resolves in constant Go stack space, and
// memoizing so every observer after the first sees the already-computed
// value.
func forcePromise(ev *Evaluator, v value.Value) (value.Value, error) {
	for {
		p, ok := v.(*value.Promise)
		if !ok {
			return v, nil
		}
		state, thunk, expr, env := p.Snapshot()
		switch state {
		case value.PromiseForced:
			return p.Resolve(nil), nil // Resolve on an already-forced promise just returns the memoized value, ignoring the argument.
		case value.PromiseExpression:
			result, err := ev.Eval(*expr, env)
			if err != nil {
				return nil, err
			}
			v = p.Resolve(result)
			if _, stillPromise := v.(*value.Promise); stillPromise {
				continue
			}
			return v, nil
		case value.PromiseDelayed, value.PromiseTailRecursive:
			result, err := ev.Apply(thunk, nil)
			if err != nil {
				return nil, err
			}
			resolved := p.Resolve(result)
			if state == value.PromiseTailRecursive {
				if _, stillPromise := resolved.(*value.Promise); stillPromise {
					v = resolved
					continue
				}
			}
			return resolved, nil
		default:
			return nil, lerr.NewRuntimeError("force: promise in unknown state")
		}
	}
}

var forcePrimitive = &value.Primitive{
	Name:  "force",
	Arity: value.Arity{Min: 1, Max: 1},
	AwareFn: func(handle value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		ev, ok := handle.(*Evaluator)
		if !ok {
			return nil, lerr.NewRuntimeError("force: requires the core evaluator")
		}
		return forcePromise(ev, args[0])
	},
}

var makePromisePrimitive = &value.Primitive{
	Name:  "make-promise",
	Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		return value.MakePromise(args[0]), nil
	},
}
