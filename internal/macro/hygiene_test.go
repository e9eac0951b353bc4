package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

func ident(name string) ast.Expr { return ast.Expr{Kind: ast.KindIdentifier, Name: name} }

func lit(v value.Value) ast.Expr { return ast.Expr{Kind: ast.KindLiteral, Literal: v} }

func pair(car, cdr ast.Expr) ast.Expr {
	return ast.Expr{Kind: ast.KindPairExpr, PairExpr: &ast.PairExpr{Car: car, Cdr: cdr}}
}

func list(items ...ast.Expr) ast.Expr {
	out := nilExpr()
	for i := len(items) - 1; i >= 0; i-- {
		out = pair(items[i], out)
	}
	return out
}

// TestSwapHygieneRenamesIntroducedBinding models (define-syntax swap! (syntax-rules () ((_ a b)
// (let ((tmp a)) (set! a b) (set! b tmp))))) invoked as (swap! tmp x),
// where the use site's own variable is named "tmp" — a naive
// non-hygienic expansion would have the template's `tmp` binding capture
// the use site's `tmp` reference. Checking that the template's
// introduced `tmp` identifier comes out renamed (distinct from the
// use-site "tmp" identifier) is this package's hygiene guarantee.
func TestSwapHygieneRenamesIntroducedBinding(t *testing.T) {
	pattern := list(ident("_"), ident("a"), ident("b"))
	template := list(ident("let"),
		list(list(ident("tmp"), ident("a"))),
		list(ident("set!"), ident("a"), ident("b")),
		list(ident("set!"), ident("b"), ident("tmp")),
	)

	tr := NewTransformer("swap!", nil, "...", []Rule{{Pattern: pattern, Template: template}}, nil)

	form := list(ident("swap!"), ident("tmp"), ident("x"))
	expanded, err := tr.Expand(form, nil)
	require.NoError(t, err)

	items, ok := listToSlice(expanded)
	require.True(t, ok)
	require.Len(t, items, 4) // let, (tmp-binding), set!, set!

	bindingClause, ok := listToSlice(items[1])
	require.True(t, ok)
	require.Len(t, bindingClause, 1)
	firstBinding, ok := listToSlice(bindingClause[0])
	require.True(t, ok)

	introducedTmpName := firstBinding[0].Name
	assert.NotEqual(t, "tmp", introducedTmpName, "template-introduced tmp must be renamed")

	// The pattern variable `a`, bound to the use-site identifier "tmp",
	// must come through unrenamed: it refers to the use site's binding.
	assert.Equal(t, "tmp", firstBinding[1].Name)
}

func TestEllipsisExpandsPerRepetition(t *testing.T) {
	// (my-list a ...) -> (list a ...)
	pattern := pair(ident("_"), pair(ident("a"), pair(ident("..."), nilExpr())))
	template := pair(ident("list"), pair(ident("a"), pair(ident("..."), nilExpr())))
	tr := NewTransformer("my-list", nil, "...", []Rule{{Pattern: pattern, Template: template}}, nil)

	form := list(ident("my-list"), lit(value.Integer{}), lit(value.Integer{}), lit(value.Integer{}))
	expanded, err := tr.Expand(form, nil)
	require.NoError(t, err)

	items, ok := listToSlice(expanded)
	require.True(t, ok)
	assert.Len(t, items, 4) // list + 3 repetitions
	assert.Equal(t, "list", items[0].Name)
}
