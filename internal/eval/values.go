package eval

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// makeValues and asValues delegate to package value's shared multiple-
// values wire format (value.MakeValues/value.AsValues), so package
// stdlib's SRFI-1 procedures (e.g. partition) can produce the same
// values Opaque this package's call-with-values/let-values consume.
func makeValues(vs []value.Value) value.Value { return value.MakeValues(vs) }

func asValues(v value.Value) []value.Value { return value.AsValues(v) }

var valuesPrimitive = &value.Primitive{
	Name:  "values",
	Arity: value.Arity{Min: 0, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		return makeValues(args), nil
	},
}

var callWithValuesPrimitive = &value.Primitive{
	Name:  "call-with-values",
	Arity: value.Arity{Min: 2, Max: 2},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		produced, err := ev.Apply(args[0], nil)
		if err != nil {
			return nil, err
		}
		return ev.Apply(args[1], asValues(produced))
	},
}

// formDefineValues implements R7RS 7.1.6's define-values: evaluates the
// producer once (a non-tail nested Eval, since define-values has no body
// of its own to continue into) and binds each formal in env.
func formDefineValues(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(operands) != 2 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("define-values: expected a formals list and a producer expression")
	}
	names, rest, err := parseValuesFormals(operands[0])
	if err != nil {
		return nil, ast.Expr{}, nil, false, err
	}
	produced, err := ev.Eval(operands[1], env)
	if err != nil {
		return nil, ast.Expr{}, nil, false, err
	}
	if err := bindValuesFormals(env, names, rest, asValues(produced)); err != nil {
		return nil, ast.Expr{}, nil, false, err
	}
	return value.TheUnspecified, ast.Expr{}, nil, false, nil
}

func formLetValues(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	return stepValuesBindings(ev, operands, env, false)
}

func formLetStarValues(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	return stepValuesBindings(ev, operands, env, true)
}

// stepValuesBindings implements let-values/let*-values (R7RS 4.2.2):
// each clause's producer is evaluated (in the outer env for let-values,
// in the so-far-extended env for let*-values) via a nested Eval, since
// destructuring multiple values into distinct names has no equivalent
// single ast.Expr to delegate to the ordinary let machinery.
func stepValuesBindings(ev *Evaluator, operands []ast.Expr, env value.Environment, star bool) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(operands) == 0 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("let-values: expected a binding list")
	}
	clauseItems, ok := exprListItems(operands[0])
	if !ok {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("let-values: malformed binding list")
	}

	child := env.Extend()
	for _, clause := range clauseItems {
		parts, ok := exprListItems(clause)
		if !ok || len(parts) != 2 {
			return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("let-values: malformed binding clause")
		}
		evalEnv := env
		if star {
			evalEnv = child
		}
		produced, err := ev.Eval(parts[1], evalEnv)
		if err != nil {
			return nil, ast.Expr{}, nil, false, err
		}
		names, rest, err := parseValuesFormals(parts[0])
		if err != nil {
			return nil, ast.Expr{}, nil, false, err
		}
		if err := bindValuesFormals(child, names, rest, asValues(produced)); err != nil {
			return nil, ast.Expr{}, nil, false, err
		}
	}

	return nil, bodyToBegin(operands[1:]), child, true, nil
}

// parseValuesFormals reads a define-values/let-values formals spec: a
// proper list of names, a single identifier (binds all values as a
// list), or a dotted list (fixed names plus a rest name).
func parseValuesFormals(e ast.Expr) (names []string, rest string, err error) {
	if e.Kind == ast.KindIdentifier {
		return nil, e.Name, nil
	}
	for {
		switch e.Kind {
		case ast.KindLiteral:
			if _, isNil := e.Literal.(value.Nil); isNil {
				return names, "", nil
			}
			return nil, "", lerr.NewRuntimeError("let-values: malformed formals")
		case ast.KindIdentifier:
			return names, e.Name, nil
		case ast.KindPairExpr:
			if e.PairExpr.Car.Kind != ast.KindIdentifier {
				return nil, "", lerr.NewRuntimeError("let-values: formal must be an identifier")
			}
			names = append(names, e.PairExpr.Car.Name)
			e = e.PairExpr.Cdr
		case ast.KindApplication:
			if e.Application.Operator.Kind != ast.KindIdentifier {
				return nil, "", lerr.NewRuntimeError("let-values: formal must be an identifier")
			}
			names = append(names, e.Application.Operator.Name)
			for _, o := range e.Application.Operands {
				if o.Kind != ast.KindIdentifier {
					return nil, "", lerr.NewRuntimeError("let-values: formal must be an identifier")
				}
				names = append(names, o.Name)
			}
			return names, "", nil
		default:
			return nil, "", lerr.NewRuntimeError("let-values: malformed formals")
		}
	}
}

func bindValuesFormals(env value.Environment, names []string, rest string, vals []value.Value) error {
	if rest == "" && len(vals) != len(names) {
		return lerr.Runtimef("let-values: expected %d values, got %d", len(names), len(vals))
	}
	if rest != "" && len(vals) < len(names) {
		return lerr.Runtimef("let-values: expected at least %d values, got %d", len(names), len(vals))
	}
	for i, n := range names {
		env.Define(value.NewSymbol(n).ID, vals[i])
	}
	if rest != "" {
		env.Define(value.NewSymbol(rest).ID, value.SliceToList(vals[len(names):]))
	}
	return nil
}
