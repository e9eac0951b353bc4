// FromDatum lifts a value.Value datum (as produced by Read/ReadAll, or
// by quote/quasiquote at macro-expansion time) into the ast.Expr shape
// the evaluator steps. It cannot live in package ast itself: package
// value already imports ast (Procedure.Body/Formals), so ast importing
// value back to do this conversion would be a cycle. package reader
// already depends on both, so the conversion lives here instead.
//
// Only the handful of forms step's switch and derived.go's specialForms
// table actually need a dedicated ast.Kind for are recognized
// structurally (quote, quasiquote, if, set!, define, begin, lambda, the
// let family, cond, case, and, or, define-syntax). Everything else —
// ordinary procedure calls as well as derived forms like when, unless,
// do, guard, parameterize, case-lambda, define-record-type — lowers to
// a plain KindApplication; stepApplication dispatches those by the
// operator identifier's name against the specialForms table, so this
// converter does not need to know about them at all.
package reader

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// FromDatum converts one top-level (or nested) datum into an ast.Expr.
func FromDatum(d value.Value) (ast.Expr, error) {
	switch v := d.(type) {
	case value.Symbol:
		return ast.Expr{Kind: ast.KindIdentifier, Name: v.Name()}, nil

	case value.Pair:
		items, ok := value.ListToSlice(v)
		if !ok {
			return improperListExpr(v)
		}
		if len(items) == 0 {
			return ast.Expr{}, lerr.NewRuntimeError("eval: empty application ()")
		}
		if head, ok := items[0].(value.Symbol); ok {
			if e, handled, err := specialExpr(head.Name(), items[1:]); handled {
				return e, err
			}
		}
		return applicationExpr(items)

	case value.Nil:
		return ast.Expr{}, lerr.NewRuntimeError("eval: empty application ()")

	default:
		return ast.Expr{Kind: ast.KindLiteral, Literal: d}, nil
	}
}

func fromDatumList(items []value.Value) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(items))
	for i, it := range items {
		e, err := FromDatum(it)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func applicationExpr(items []value.Value) (ast.Expr, error) {
	exprs, err := fromDatumList(items)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{Kind: ast.KindApplication, Application: &ast.ApplicationExpr{
		Operator: exprs[0],
		Operands: exprs[1:],
	}}, nil
}

// improperListExpr handles a dotted pair reaching code position, e.g.
// `(a . b)` written directly rather than via quote — rare, but
// ast.KindPairExpr exists for exactly this per ast.go's doc comment.
func improperListExpr(p value.Pair) (ast.Expr, error) {
	car, err := FromDatum(p.Car)
	if err != nil {
		return ast.Expr{}, err
	}
	cdr, err := FromDatum(p.Cdr)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{Kind: ast.KindPairExpr, PairExpr: &ast.PairExpr{Car: car, Cdr: cdr}}, nil
}

// specialExpr recognizes the forms that need a dedicated ast.Kind.
// handled is false for every other head, including derived forms
// dispatched later by name (when, unless, do, guard, ...).
func specialExpr(head string, rest []value.Value) (ast.Expr, bool, error) {
	switch head {
	case "quote":
		if len(rest) != 1 {
			return ast.Expr{}, true, lerr.NewRuntimeError("quote: expected exactly one datum")
		}
		return ast.Expr{Kind: ast.KindQuote, Quoted: rest[0]}, true, nil

	case "quasiquote":
		if len(rest) != 1 {
			return ast.Expr{}, true, lerr.NewRuntimeError("quasiquote: expected exactly one datum")
		}
		tmpl, err := templateExpr(rest[0])
		return ast.Expr{Kind: ast.KindQuasiquote, Quoted: tmpl}, true, err

	case "unquote":
		if len(rest) != 1 {
			return ast.Expr{}, true, lerr.NewRuntimeError("unquote: expected exactly one datum")
		}
		e, err := FromDatum(rest[0])
		return e, true, err

	case "unquote-splicing":
		if len(rest) != 1 {
			return ast.Expr{}, true, lerr.NewRuntimeError("unquote-splicing: expected exactly one datum")
		}
		e, err := FromDatum(rest[0])
		return e, true, err

	case "if":
		e, err := ifExpr(rest)
		return e, true, err

	case "set!":
		e, err := setExpr(rest)
		return e, true, err

	case "define":
		e, err := defineExpr(rest)
		return e, true, err

	case "begin":
		body, err := fromDatumList(rest)
		if err != nil {
			return ast.Expr{}, true, err
		}
		return ast.Expr{Kind: ast.KindBegin, Begin: body}, true, nil

	case "lambda":
		e, err := lambdaExpr(rest)
		return e, true, err

	case "let":
		e, err := letExpr(rest)
		return e, true, err

	case "let*":
		e, err := letStarOrRecExpr(ast.KindLetStar, rest)
		return e, true, err

	case "letrec":
		e, err := letStarOrRecExpr(ast.KindLetrec, rest)
		return e, true, err

	case "letrec*":
		e, err := letStarOrRecExpr(ast.KindLetrec, rest)
		return e, true, err

	case "cond":
		e, err := condExpr(rest)
		return e, true, err

	case "case":
		e, err := caseExpr(rest)
		return e, true, err

	case "and":
		body, err := fromDatumList(rest)
		if err != nil {
			return ast.Expr{}, true, err
		}
		return ast.Expr{Kind: ast.KindAnd, AndOr: body}, true, nil

	case "or":
		body, err := fromDatumList(rest)
		if err != nil {
			return ast.Expr{}, true, err
		}
		return ast.Expr{Kind: ast.KindOr, AndOr: body}, true, nil

	case "define-syntax":
		e, err := defineSyntaxExpr(rest)
		return e, true, err

	default:
		return ast.Expr{}, false, nil
	}
}

func ifExpr(rest []value.Value) (ast.Expr, error) {
	if len(rest) < 2 || len(rest) > 3 {
		return ast.Expr{}, lerr.NewRuntimeError("if: expected (if test then [else])")
	}
	test, err := FromDatum(rest[0])
	if err != nil {
		return ast.Expr{}, err
	}
	then, err := FromDatum(rest[1])
	if err != nil {
		return ast.Expr{}, err
	}
	ifx := &ast.IfExpr{Test: test, Then: then}
	if len(rest) == 3 {
		elseExpr, err := FromDatum(rest[2])
		if err != nil {
			return ast.Expr{}, err
		}
		ifx.Else = &elseExpr
	}
	return ast.Expr{Kind: ast.KindIf, If: ifx}, nil
}

func setExpr(rest []value.Value) (ast.Expr, error) {
	if len(rest) != 2 {
		return ast.Expr{}, lerr.NewRuntimeError("set!: expected (set! name value)")
	}
	name, ok := rest[0].(value.Symbol)
	if !ok {
		return ast.Expr{}, lerr.NewRuntimeError("set!: expected an identifier")
	}
	val, err := FromDatum(rest[1])
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{Kind: ast.KindSet, Set: &ast.SetExpr{Name: name.Name(), Value: val}}, nil
}

// defineExpr handles both `(define name value)` and the curried-lambda
// sugar `(define (name . formals) body...)`, desugaring the latter to
// the former with a KindLambda value (R7RS 5.3.2), recording name in
// the lambda's Metadata so step's KindLambda case can name the closure.
func defineExpr(rest []value.Value) (ast.Expr, error) {
	if len(rest) < 1 {
		return ast.Expr{}, lerr.NewRuntimeError("define: malformed form")
	}
	if sig, ok := rest[0].(value.Pair); ok {
		nameSym, ok := sig.Car.(value.Symbol)
		if !ok {
			return ast.Expr{}, lerr.NewRuntimeError("define: expected a procedure name")
		}
		l, err := lambdaSignature(sig.Cdr, rest[1:])
		if err != nil {
			return ast.Expr{}, err
		}
		l.Metadata = ast.Metadata{"name": nameSym.Name()}
		return ast.Expr{Kind: ast.KindDefine, Define: &ast.DefineExpr{
			Name:  nameSym.Name(),
			Value: ast.Expr{Kind: ast.KindLambda, Lambda: l},
		}}, nil
	}

	nameSym, ok := rest[0].(value.Symbol)
	if !ok {
		return ast.Expr{}, lerr.NewRuntimeError("define: expected an identifier or procedure signature")
	}
	var val ast.Expr
	if len(rest) >= 2 {
		var err error
		val, err = FromDatum(rest[1])
		if err != nil {
			return ast.Expr{}, err
		}
	} else {
		val = ast.Expr{Kind: ast.KindLiteral, Literal: value.TheUnspecified}
	}
	return ast.Expr{Kind: ast.KindDefine, Define: &ast.DefineExpr{Name: nameSym.Name(), Value: val}}, nil
}

func lambdaExpr(rest []value.Value) (ast.Expr, error) {
	if len(rest) < 1 {
		return ast.Expr{}, lerr.NewRuntimeError("lambda: malformed form")
	}
	l, err := lambdaSignature(rest[0], rest[1:])
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{Kind: ast.KindLambda, Lambda: l}, nil
}

// lambdaSignature parses a formals datum (a proper list, an improper
// list `(a b . rest)`, or a bare symbol for an all-rest lambda) plus a
// body into a LambdaExpr.
func lambdaSignature(formals value.Value, body []value.Value) (*ast.LambdaExpr, error) {
	var fixed []ast.Formal
	rest := ""

	cur := formals
loop:
	for {
		switch t := cur.(type) {
		case value.Nil:
			break loop
		case value.Symbol:
			rest = t.Name()
			break loop
		case value.Pair:
			sym, ok := t.Car.(value.Symbol)
			if !ok {
				return nil, lerr.NewRuntimeError("lambda: malformed formals list")
			}
			fixed = append(fixed, ast.Formal{Name: sym.Name()})
			cur = t.Cdr
		default:
			return nil, lerr.NewRuntimeError("lambda: malformed formals list")
		}
	}

	bodyExprs, err := fromDatumList(body)
	if err != nil {
		return nil, err
	}
	return &ast.LambdaExpr{Fixed: fixed, Rest: rest, Body: bodyExprs}, nil
}

// letExpr handles both ordinary let and named let `(let loop ((v
// init)...) body...)`, desugaring the latter to a letrec binding loop
// to a lambda and immediately calling it, the same expansion
// desugarDo uses for do loops.
func letExpr(rest []value.Value) (ast.Expr, error) {
	if len(rest) >= 1 {
		if nameSym, ok := rest[0].(value.Symbol); ok {
			if len(rest) < 2 {
				return ast.Expr{}, lerr.NewRuntimeError("let: malformed named let")
			}
			bindings, err := bindingList(rest[1])
			if err != nil {
				return ast.Expr{}, err
			}
			bodyExprs, err := fromDatumList(rest[2:])
			if err != nil {
				return ast.Expr{}, err
			}
			formals := make([]ast.Formal, len(bindings))
			inits := make([]ast.Expr, len(bindings))
			for i, b := range bindings {
				formals[i] = ast.Formal{Name: b.Name}
				inits[i] = b.Value
			}
			loopName := nameSym.Name()
			loopProc := ast.Expr{Kind: ast.KindLambda, Lambda: &ast.LambdaExpr{
				Fixed: formals, Body: bodyExprs, Metadata: ast.Metadata{"name": loopName},
			}}
			call := ast.Expr{Kind: ast.KindApplication, Application: &ast.ApplicationExpr{
				Operator: ast.Expr{Kind: ast.KindIdentifier, Name: loopName},
				Operands: inits,
			}}
			return ast.Expr{Kind: ast.KindLetrec, Binding: &ast.BindingExpr{
				Bindings: []ast.Binding{{Name: loopName, Value: loopProc}},
				Body:     []ast.Expr{call},
				Star:     true,
			}}, nil
		}
	}
	return letStarOrRecExpr(ast.KindLet, rest)
}

func letStarOrRecExpr(kind ast.Kind, rest []value.Value) (ast.Expr, error) {
	if len(rest) < 1 {
		return ast.Expr{}, lerr.NewRuntimeError("let: malformed form")
	}
	bindings, err := bindingList(rest[0])
	if err != nil {
		return ast.Expr{}, err
	}
	bodyExprs, err := fromDatumList(rest[1:])
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{Kind: kind, Binding: &ast.BindingExpr{Bindings: bindings, Body: bodyExprs}}, nil
}

func bindingList(datum value.Value) ([]ast.Binding, error) {
	items, ok := value.ListToSlice(datum)
	if !ok {
		return nil, lerr.NewRuntimeError("let: malformed binding list")
	}
	out := make([]ast.Binding, len(items))
	for i, it := range items {
		parts, ok := value.ListToSlice(it)
		if !ok || len(parts) != 2 {
			return nil, lerr.NewRuntimeError("let: malformed binding clause")
		}
		sym, ok := parts[0].(value.Symbol)
		if !ok {
			return nil, lerr.NewRuntimeError("let: binding name must be an identifier")
		}
		val, err := FromDatum(parts[1])
		if err != nil {
			return nil, err
		}
		out[i] = ast.Binding{Name: sym.Name(), Value: val}
	}
	return out, nil
}

func condExpr(rest []value.Value) (ast.Expr, error) {
	clauses := make([]ast.CondClause, len(rest))
	for i, r := range rest {
		items, ok := value.ListToSlice(r)
		if !ok || len(items) == 0 {
			return ast.Expr{}, lerr.NewRuntimeError("cond: malformed clause")
		}
		if sym, ok := items[0].(value.Symbol); ok && sym.Name() == "else" {
			body, err := fromDatumList(items[1:])
			if err != nil {
				return ast.Expr{}, err
			}
			clauses[i] = ast.CondClause{IsElse: true, Body: body}
			continue
		}
		test, err := FromDatum(items[0])
		if err != nil {
			return ast.Expr{}, err
		}
		if len(items) >= 2 {
			if sym, ok := items[1].(value.Symbol); ok && sym.Name() == "=>" {
				if len(items) != 3 {
					return ast.Expr{}, lerr.NewRuntimeError("cond: malformed => clause")
				}
				proc, err := FromDatum(items[2])
				if err != nil {
					return ast.Expr{}, err
				}
				clauses[i] = ast.CondClause{Test: test, Arrow: true, Body: []ast.Expr{proc}}
				continue
			}
		}
		body, err := fromDatumList(items[1:])
		if err != nil {
			return ast.Expr{}, err
		}
		clauses[i] = ast.CondClause{Test: test, Body: body}
	}
	return ast.Expr{Kind: ast.KindCond, Cond: clauses}, nil
}

func caseExpr(rest []value.Value) (ast.Expr, error) {
	if len(rest) < 1 {
		return ast.Expr{}, lerr.NewRuntimeError("case: malformed form")
	}
	key, err := FromDatum(rest[0])
	if err != nil {
		return ast.Expr{}, err
	}
	clauses := make([]ast.CaseClause, len(rest)-1)
	for i, r := range rest[1:] {
		items, ok := value.ListToSlice(r)
		if !ok || len(items) == 0 {
			return ast.Expr{}, lerr.NewRuntimeError("case: malformed clause")
		}
		if sym, ok := items[0].(value.Symbol); ok && sym.Name() == "else" {
			body, err := fromDatumList(items[1:])
			if err != nil {
				return ast.Expr{}, err
			}
			clauses[i] = ast.CaseClause{IsElse: true, Body: body}
			continue
		}
		datums, ok := value.ListToSlice(items[0])
		if !ok {
			return ast.Expr{}, lerr.NewRuntimeError("case: malformed datum list")
		}
		anyDatums := make([]any, len(datums))
		for j, d := range datums {
			anyDatums[j] = d
		}
		body, err := fromDatumList(items[1:])
		if err != nil {
			return ast.Expr{}, err
		}
		clauses[i] = ast.CaseClause{Datums: anyDatums, Body: body}
	}
	return ast.Expr{Kind: ast.KindCase, Case: &ast.CaseExpr{Key: key, Clauses: clauses}}, nil
}

func defineSyntaxExpr(rest []value.Value) (ast.Expr, error) {
	if len(rest) != 2 {
		return ast.Expr{}, lerr.NewRuntimeError("define-syntax: expected (define-syntax name transformer)")
	}
	nameSym, ok := rest[0].(value.Symbol)
	if !ok {
		return ast.Expr{}, lerr.NewRuntimeError("define-syntax: expected an identifier")
	}
	spec, err := FromDatum(rest[1])
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{Kind: ast.KindSyntaxDefinition, SyntaxDef: &ast.SyntaxDefinitionExpr{
		Name: nameSym.Name(), TransformerSpec: spec,
	}}, nil
}

// templateExpr converts a quasiquote template into the structural
// ast.Expr shape qqExpr/qqPair walk: KindPairExpr chains mirroring the
// datum's pair structure, KindUnquote/KindUnquoteSplicing/KindQuasiquote
// nodes where the corresponding (unquote x)/(unquote-splicing
// x)/(quasiquote x) shape occurs, KindLiteral leaves otherwise — unlike
// FromDatum, a template is data, not code, so an arbitrary symbol or
// list here is never an application.
func templateExpr(d value.Value) (ast.Expr, error) {
	p, ok := d.(value.Pair)
	if !ok {
		return ast.Expr{Kind: ast.KindLiteral, Literal: d}, nil
	}
	if sym, ok := p.Car.(value.Symbol); ok {
		if tail, ok1 := p.Cdr.(value.Pair); ok1 {
			if _, isNil := tail.Cdr.(value.Nil); isNil {
				switch sym.Name() {
				case "unquote":
					inner, err := FromDatum(tail.Car)
					return ast.Expr{Kind: ast.KindUnquote, Quoted: inner}, err
				case "unquote-splicing":
					inner, err := FromDatum(tail.Car)
					return ast.Expr{Kind: ast.KindUnquoteSplicing, Quoted: inner}, err
				case "quasiquote":
					inner, err := templateExpr(tail.Car)
					return ast.Expr{Kind: ast.KindQuasiquote, Quoted: inner}, err
				}
			}
		}
	}
	car, err := templateExpr(p.Car)
	if err != nil {
		return ast.Expr{}, err
	}
	cdr, err := templateExpr(p.Cdr)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{Kind: ast.KindPairExpr, PairExpr: &ast.PairExpr{Car: car, Cdr: cdr}}, nil
}
