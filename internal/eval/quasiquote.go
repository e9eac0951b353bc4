// Quasiquote (R7RS 4.2.8) walks the literal template the external parser
// built for a `quasiquote`/`unquote`/`unquote-splicing` form (spec §1: the
// reader is out of scope, so this package only consumes its output) and
// reconstructs it as data, substituting in the evaluated value of every
// unquote at the matching nesting depth.
//
// The template is carried structurally as ast.Expr (KindPairExpr chains
// mirroring the list/pair structure, KindLiteral leaves for self-quoting
// data, and KindUnquote/KindUnquoteSplicing/KindQuasiquote nodes at the
// points those forms occur) rather than as pre-resolved value.Value data,
// since unquoted sub-expressions must stay unevaluated until quasiquote
// walks down to them.
package eval

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// evalQuasiquote is step's entry point for KindQuasiquote: datum is the
// node's Quoted field, an ast.Expr template, and depth starts at 1.
func (ev *Evaluator) evalQuasiquote(datum any, env value.Environment, depth int) (value.Value, error) {
	expr, err := asTemplateExpr(datum)
	if err != nil {
		return nil, err
	}
	return ev.qqExpr(expr, env, depth)
}

func asTemplateExpr(datum any) (ast.Expr, error) {
	switch d := datum.(type) {
	case ast.Expr:
		return d, nil
	case value.Value:
		return ast.Expr{Kind: ast.KindLiteral, Literal: d}, nil
	default:
		return ast.Expr{}, lerr.NewRuntimeError("quasiquote: malformed template")
	}
}

func (ev *Evaluator) qqExpr(expr ast.Expr, env value.Environment, depth int) (value.Value, error) {
	switch expr.Kind {
	case ast.KindUnquote:
		inner, err := asTemplateExpr(expr.Quoted)
		if err != nil {
			return nil, err
		}
		if depth == 1 {
			return ev.Eval(inner, env)
		}
		rebuilt, err := ev.qqExpr(inner, env, depth-1)
		if err != nil {
			return nil, err
		}
		return value.SliceToList([]value.Value{value.NewSymbol("unquote"), rebuilt}), nil

	case ast.KindUnquoteSplicing:
		// A bare unquote-splicing outside of a pair's car position (e.g.
		// as the whole template, or in cdr position) behaves like
		// unquote: R7RS only specifies splicing behavior when it occurs
		// as a list element, handled directly in qqPair below.
		inner, err := asTemplateExpr(expr.Quoted)
		if err != nil {
			return nil, err
		}
		if depth == 1 {
			return ev.Eval(inner, env)
		}
		rebuilt, err := ev.qqExpr(inner, env, depth-1)
		if err != nil {
			return nil, err
		}
		return value.SliceToList([]value.Value{value.NewSymbol("unquote-splicing"), rebuilt}), nil

	case ast.KindQuasiquote:
		inner, err := asTemplateExpr(expr.Quoted)
		if err != nil {
			return nil, err
		}
		rebuilt, err := ev.qqExpr(inner, env, depth+1)
		if err != nil {
			return nil, err
		}
		return value.SliceToList([]value.Value{value.NewSymbol("quasiquote"), rebuilt}), nil

	case ast.KindPairExpr:
		return ev.qqPair(expr.PairExpr, env, depth)

	case ast.KindLiteral:
		return datumValue(expr.Literal)

	default:
		// A non-literal sub-expression reached a position the grammar
		// doesn't actually allow (quasiquote templates are data, not
		// code) other than the three forms above; treat it as literal
		// data rather than failing the whole template.
		return datumValue(expr.Literal)
	}
}

func (ev *Evaluator) qqPair(p *ast.PairExpr, env value.Environment, depth int) (value.Value, error) {
	if p.Car.Kind == ast.KindUnquoteSplicing && depth == 1 {
		inner, err := asTemplateExpr(p.Car.Quoted)
		if err != nil {
			return nil, err
		}
		spliced, err := ev.Eval(inner, env)
		if err != nil {
			return nil, err
		}
		items, ok := value.ListToSlice(spliced)
		if !ok {
			return nil, lerr.NewRuntimeError("unquote-splicing: expected a list")
		}
		rest, err := ev.qqExpr(p.Cdr, env, depth)
		if err != nil {
			return nil, err
		}
		return appendList(items, rest), nil
	}

	car, err := ev.qqExpr(p.Car, env, depth)
	if err != nil {
		return nil, err
	}
	cdr, err := ev.qqExpr(p.Cdr, env, depth)
	if err != nil {
		return nil, err
	}
	return value.Cons(car, cdr), nil
}

// appendList conses items in front of tail, which may itself be an
// improper tail (e.g. `(a . ,b)` after splicing), so it is not simply
// SliceToList(items) followed by a set-cdr!.
func appendList(items []value.Value, tail value.Value) value.Value {
	result := tail
	for i := len(items) - 1; i >= 0; i-- {
		result = value.Cons(items[i], result)
	}
	return result
}
