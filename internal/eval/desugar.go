package eval

import (
	"fmt"
	"sync/atomic"

	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// tempCounter backs freshTempName, the same invisible-separator trick
// package macro's template.go uses for hygienic renaming: a name built
// with it can never collide with anything a reader could have produced
// from source text.
var tempCounter uint64

func freshTempName(tag string) string {
	n := atomic.AddUint64(&tempCounter, 1)
	return fmt.Sprintf("%s⁣%d", tag, n)
}

func ident(name string) ast.Expr { return ast.Expr{Kind: ast.KindIdentifier, Name: name} }

func ptrExpr(e ast.Expr) *ast.Expr { return &e }

func bodyToBegin(body []ast.Expr) ast.Expr {
	if len(body) == 1 {
		return body[0]
	}
	return ast.Expr{Kind: ast.KindBegin, Begin: body}
}

func application(op ast.Expr, operands ...ast.Expr) ast.Expr {
	return ast.Expr{Kind: ast.KindApplication, Application: &ast.ApplicationExpr{Operator: op, Operands: operands}}
}

func letExpr(bindings []ast.Binding, body ...ast.Expr) ast.Expr {
	return ast.Expr{Kind: ast.KindLet, Binding: &ast.BindingExpr{Bindings: bindings, Body: body}}
}

func unspecifiedExpr() ast.Expr {
	return ast.Expr{Kind: ast.KindLiteral, Literal: value.TheUnspecified}
}

// desugarCond rewrites a cond's clause list into a nested if tree,
// evaluated at the point a KindCond node is stepped so the evaluator
// never needs a dedicated cond Frame: each clause's test is bound once
// (avoiding double evaluation for the `=>` and test-only forms) via a
// fresh let, per R7RS 4.2.1.
func desugarCond(clauses []ast.CondClause) ast.Expr {
	if len(clauses) == 0 {
		return unspecifiedExpr()
	}
	c := clauses[0]
	rest := func() ast.Expr { return desugarCond(clauses[1:]) }

	if c.IsElse {
		return bodyToBegin(c.Body)
	}

	tmp := freshTempName("cond")
	if c.Arrow {
		return letExpr([]ast.Binding{{Name: tmp, Value: c.Test}},
			ast.Expr{Kind: ast.KindIf, If: &ast.IfExpr{
				Test: ident(tmp),
				Then: application(c.Body[0], ident(tmp)),
				Else: ptrExpr(rest()),
			}})
	}
	if len(c.Body) == 0 {
		return letExpr([]ast.Binding{{Name: tmp, Value: c.Test}},
			ast.Expr{Kind: ast.KindIf, If: &ast.IfExpr{Test: ident(tmp), Then: ident(tmp), Else: ptrExpr(rest())}})
	}
	return ast.Expr{Kind: ast.KindIf, If: &ast.IfExpr{Test: c.Test, Then: bodyToBegin(c.Body), Else: ptrExpr(rest())}}
}

// desugarCase rewrites case into a let binding the key once plus a cond
// comparing it against each clause's datums with eqv?, per R7RS 4.2.1.
func desugarCase(c *ast.CaseExpr) ast.Expr {
	tmp := freshTempName("case")
	clauses := make([]ast.CondClause, 0, len(c.Clauses))
	for _, cc := range c.Clauses {
		if cc.IsElse {
			clauses = append(clauses, ast.CondClause{IsElse: true, Body: cc.Body})
			continue
		}
		tests := make([]ast.Expr, len(cc.Datums))
		for i, d := range cc.Datums {
			dv, ok := d.(value.Value)
			if !ok {
				dv = value.TheUnspecified
			}
			tests[i] = application(ident("eqv?"), ident(tmp), ast.Expr{Kind: ast.KindLiteral, Literal: dv})
		}
		test := tests[0]
		if len(tests) > 1 {
			test = ast.Expr{Kind: ast.KindOr, AndOr: tests}
		}
		clauses = append(clauses, ast.CondClause{Test: test, Body: cc.Body})
	}
	return letExpr([]ast.Binding{{Name: tmp, Value: c.Key}},
		ast.Expr{Kind: ast.KindCond, Cond: clauses})
}

// desugarWhenUnless rewrites (when test body...) to (if test (begin
// body...)) and (unless test body...) to (if test #<unspecified> (begin
// body...)), per R7RS 4.2.1.
func desugarWhenUnless(isWhen bool, test ast.Expr, body []ast.Expr) ast.Expr {
	thenBranch := bodyToBegin(body)
	if isWhen {
		return ast.Expr{Kind: ast.KindIf, If: &ast.IfExpr{Test: test, Then: thenBranch, Else: ptrExpr(unspecifiedExpr())}}
	}
	return ast.Expr{Kind: ast.KindIf, If: &ast.IfExpr{Test: test, Then: unspecifiedExpr(), Else: ptrExpr(thenBranch)}}
}

// doSpec is one `(var init step)` (or `(var init)`, step defaults to var)
// clause of a do loop.
type doSpec struct {
	Var  string
	Init ast.Expr
	Step ast.Expr
}

// desugarDo rewrites R7RS 4.2.4's do loop into the canonical named-let
// expansion:
//
//	(letrec ((loop (lambda (var ...)
//	                 (if test (begin resultExpr...)
//	                     (begin command... (loop step ...))))))
//	  (loop init ...))
func desugarDo(specs []doSpec, test ast.Expr, resultExprs, commands []ast.Expr) ast.Expr {
	loopName := freshTempName("do-loop")
	formals := make([]ast.Formal, len(specs))
	inits := make([]ast.Expr, len(specs))
	steps := make([]ast.Expr, len(specs))
	for i, s := range specs {
		formals[i] = ast.Formal{Name: s.Var}
		inits[i] = s.Init
		steps[i] = s.Step
	}

	var resultExpr ast.Expr
	if len(resultExprs) == 0 {
		resultExpr = unspecifiedExpr()
	} else {
		resultExpr = bodyToBegin(resultExprs)
	}

	recur := application(ident(loopName), steps...)
	loopBody := append(append([]ast.Expr{}, commands...), recur)

	lambdaBody := ast.Expr{Kind: ast.KindIf, If: &ast.IfExpr{
		Test: test,
		Then: resultExpr,
		Else: ptrExpr(bodyToBegin(loopBody)),
	}}

	loopProc := ast.Expr{Kind: ast.KindLambda, Lambda: &ast.LambdaExpr{Fixed: formals, Body: []ast.Expr{lambdaBody}}}

	return ast.Expr{
		Kind: ast.KindLetrec,
		Binding: &ast.BindingExpr{
			Bindings: []ast.Binding{{Name: loopName, Value: loopProc}},
			Body:     []ast.Expr{application(ident(loopName), inits...)},
			Star:     true,
		},
	}
}
