package eval

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/machine"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// toException normalizes any error escaping step/resume into the
// lerr.Exception spec §4.7's condition system dispatches on: a raise or
// raise-continuable already produced one directly, anything else (a Go
// error from a primitive, or an internal lerr.RuntimeError/TypeError) is
// wrapped as a fresh non-continuable exception.
func toException(err error) *lerr.Exception {
	if exc, ok := err.(*lerr.Exception); ok {
		return exc
	}
	return lerr.FromError(err)
}

// dispatchException implements spec §7's handler search: walk the
// context downward from the top, discarding every frame that is not a
// HandlerFrame, until one is found (guard or with-exception-handler) or
// the context is exhausted (unhandled — propagate to the caller of Eval).
//
// machine.ErrJump and machine.ErrOneShotReinvoked are continuation-jump
// control signals, not conditions; run's phaseEval branch already filters
// ErrJump out before calling this, but ErrOneShotReinvoked is a genuine
// reportable error that must not be treated as an exception object.
func (ev *Evaluator) dispatchException(err error) (value.Value, error, bool) {
	if err == machine.ErrJump || err == machine.ErrOneShotReinvoked {
		return nil, err, false
	}
	exc := toException(err)

	for {
		top, ok := ev.m.Top()
		if !ok {
			return nil, err, false
		}
		hf, isHandler := top.(machine.HandlerFrame)
		if !isHandler {
			ev.m.Pop()
			continue
		}
		ev.m.Pop()

		if hf.Handler != nil {
			result, herr := ev.Apply(hf.Handler, []value.Value{exc.Object})
			if herr != nil {
				return nil, herr, false
			}
			if !exc.Continuable {
				return nil, lerr.NewRuntimeError("exception handler returned from a non-continuable raise"), false
			}
			return result, nil, true
		}

		return ev.dispatchGuard(hf, exc)
	}
}

// dispatchGuard implements guard's clause search (R7RS 6.11): the
// condition is bound to GuardVar and tested against Clauses exactly like
// cond, except that no clause matching re-raises the condition (via
// raise-continuable, since guard's re-raise happens "in the dynamic
// environment of the original call to raise") instead of falling through
// to an unspecified value.
//
// The clauses run via ev.run at the depth reached after popping down to
// (and through) the matched HandlerFrame, not via ev.Eval: Eval always
// uses floor=0 and would keep stepping until the entire context empties,
// which is wrong here since this dispatch may itself be nested inside
// another Apply with its own floor above 0.
func (ev *Evaluator) dispatchGuard(hf machine.HandlerFrame, exc *lerr.Exception) (value.Value, error, bool) {
	guardEnv := hf.Env.Extend()
	guardEnv.Define(value.NewSymbol(hf.GuardVar).ID, exc.Object)

	reraise := ast.Expr{
		Kind: ast.KindApplication,
		Application: &ast.ApplicationExpr{
			Operator: ident("raise-continuable"),
			Operands: []ast.Expr{ident(hf.GuardVar)},
		},
	}
	clauses := append(append([]ast.CondClause{}, hf.Clauses...), ast.CondClause{IsElse: true, Body: []ast.Expr{reraise}})

	floor := ev.m.Depth()
	result, rerr := ev.run(desugarCond(clauses), guardEnv, floor)
	if rerr != nil {
		return nil, rerr, false
	}
	return result, nil, true
}

// formGuard implements R7RS 6.11's guard: pushes a HandlerFrame recording
// the clauses and guard variable, then evaluates body in tail position.
// Normal completion pops the HandlerFrame via resume's plain pass-through
// case; an exception raised anywhere in body's dynamic extent is caught
// by dispatchException's frame scan above.
func formGuard(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(operands) < 1 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("guard: expected a (var clause...) spec and a body")
	}
	spec, ok := exprListItems(operands[0])
	if !ok || len(spec) < 1 || spec[0].Kind != ast.KindIdentifier {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("guard: malformed (var clause...) spec")
	}
	guardVar := spec[0].Name
	clauses, err := parseCondClauses(spec[1:])
	if err != nil {
		return nil, ast.Expr{}, nil, false, err
	}

	ev.m.Push(machine.HandlerFrame{
		Base:     machine.Base{Env: env, Span: span},
		Handler:  nil,
		GuardVar: guardVar,
		Clauses:  clauses,
	})
	return nil, bodyToBegin(operands[1:]), env, true, nil
}

// parseCondClauses reads guard's clause list, which the reader hands us
// as literal list-shaped expressions rather than pre-parsed CondClauses
// (spec §6), identically in shape to cond's own clauses.
func parseCondClauses(exprs []ast.Expr) ([]ast.CondClause, error) {
	clauses := make([]ast.CondClause, 0, len(exprs))
	for _, e := range exprs {
		items, ok := exprListItems(e)
		if !ok || len(items) == 0 {
			return nil, lerr.NewRuntimeError("guard: malformed clause")
		}
		if items[0].Kind == ast.KindIdentifier && items[0].Name == "else" {
			clauses = append(clauses, ast.CondClause{IsElse: true, Body: items[1:]})
			continue
		}
		if len(items) == 3 && items[1].Kind == ast.KindIdentifier && items[1].Name == "=>" {
			clauses = append(clauses, ast.CondClause{Test: items[0], Arrow: true, Body: items[2:]})
			continue
		}
		clauses = append(clauses, ast.CondClause{Test: items[0], Body: items[1:]})
	}
	return clauses, nil
}

// raisePrimitive implements R7RS 6.11's raise: non-continuable, so a
// handler that returns (rather than escaping via a captured continuation)
// is itself an error.
var raisePrimitive = &value.Primitive{
	Name:  "raise",
	Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		return nil, lerr.NewException(args[0])
	},
}

// raiseContinuablePrimitive implements raise-continuable: the handler's
// return value becomes raise-continuable's own return value.
var raiseContinuablePrimitive = &value.Primitive{
	Name:  "raise-continuable",
	Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		return nil, lerr.NewContinuableException(args[0])
	},
}

// errorPrimitive implements R7RS 6.11's error: builds a general
// ErrorObject from a message and irritants and raises it non-continuably.
var errorPrimitive = &value.Primitive{
	Name:  "error",
	Arity: value.Arity{Min: 1, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		message := ""
		if s, ok := args[0].(value.Str); ok {
			message = s.String()
		}
		return nil, lerr.NewException(value.NewErrorObject(message, args[1:]))
	},
}

// withExceptionHandlerPrimitive implements R7RS 6.11's
// with-exception-handler: installs handler for the dynamic extent of
// calling thunk with no arguments.
//
// depthBefore guards the cleanup pop: if a raise inside thunk already
// matched this HandlerFrame, dispatchException has already popped it (and
// possibly run the handler and continued past it), so the frame is no
// longer there to pop again — popping unconditionally would corrupt
// whatever frame a different, unrelated call left on top.
var withExceptionHandlerPrimitive = &value.Primitive{
	Name:  "with-exception-handler",
	Arity: value.Arity{Min: 2, Max: 2},
	AwareFn: func(handle value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		ev, ok := handle.(*Evaluator)
		if !ok {
			return nil, lerr.NewRuntimeError("with-exception-handler: requires the core evaluator")
		}
		handler, thunk := args[0], args[1]

		depthBefore := ev.m.Depth()
		ev.m.Push(machine.HandlerFrame{Handler: handler})

		result, err := ev.Apply(thunk, nil)
		if ev.m.Depth() > depthBefore {
			ev.m.Pop()
		}
		return result, err
	},
}
