package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
)

func fromSource(t *testing.T, src string) ast.Expr {
	t.Helper()
	datums, err := ReadAll(src)
	require.NoError(t, err)
	require.Len(t, datums, 1)
	expr, err := FromDatum(datums[0])
	require.NoError(t, err)
	return expr
}

func TestFromDatumIf(t *testing.T) {
	expr := fromSource(t, `(if #t 1 2)`)
	require.Equal(t, ast.KindIf, expr.Kind)
	assert.NotNil(t, expr.If.Else)
}

func TestFromDatumDefineDesugarsCurriedLambda(t *testing.T) {
	expr := fromSource(t, `(define (f x y) x)`)
	require.Equal(t, ast.KindDefine, expr.Kind)
	assert.Equal(t, "f", expr.Define.Name)
	require.Equal(t, ast.KindLambda, expr.Define.Value.Kind)
	assert.Equal(t, []ast.Formal{{Name: "x"}, {Name: "y"}}, expr.Define.Value.Lambda.Fixed)
}

func TestFromDatumLambdaRestFormal(t *testing.T) {
	expr := fromSource(t, `(lambda (a . rest) a)`)
	require.Equal(t, ast.KindLambda, expr.Kind)
	assert.Equal(t, "rest", expr.Lambda.Rest)
	assert.Len(t, expr.Lambda.Fixed, 1)
}

func TestFromDatumLambdaBareSymbolFormals(t *testing.T) {
	expr := fromSource(t, `(lambda args args)`)
	require.Equal(t, ast.KindLambda, expr.Kind)
	assert.Equal(t, "args", expr.Lambda.Rest)
	assert.Len(t, expr.Lambda.Fixed, 0)
}

func TestFromDatumLetPlain(t *testing.T) {
	expr := fromSource(t, `(let ((x 1) (y 2)) (+ x y))`)
	require.Equal(t, ast.KindLet, expr.Kind)
	require.Len(t, expr.Binding.Bindings, 2)
	assert.Equal(t, "x", expr.Binding.Bindings[0].Name)
}

func TestFromDatumNamedLetDesugarsToLetrecApplication(t *testing.T) {
	expr := fromSource(t, `(let loop ((x 0)) (loop x))`)
	// named let desugars to (letrec ((loop (lambda (x) ...))) (loop 0))
	require.Equal(t, ast.KindLetrec, expr.Kind)
	require.Len(t, expr.Binding.Bindings, 1)
	assert.Equal(t, "loop", expr.Binding.Bindings[0].Name)
	require.Equal(t, ast.KindLambda, expr.Binding.Bindings[0].Value.Kind)
	require.Len(t, expr.Binding.Body, 1)
	assert.Equal(t, ast.KindApplication, expr.Binding.Body[0].Kind)
}

func TestFromDatumCondWithElseAndArrow(t *testing.T) {
	expr := fromSource(t, `(cond (#f 1) (#t => list) (else 3))`)
	require.Equal(t, ast.KindCond, expr.Kind)
	require.Len(t, expr.Cond, 3)
	assert.True(t, expr.Cond[1].Arrow)
	assert.True(t, expr.Cond[2].IsElse)
}

func TestFromDatumCaseKeepsRawDatums(t *testing.T) {
	expr := fromSource(t, `(case x ((1 2) 'a) (else 'b))`)
	require.Equal(t, ast.KindCase, expr.Kind)
	require.Len(t, expr.Case.Clauses, 2)
	assert.Len(t, expr.Case.Clauses[0].Datums, 2)
	assert.True(t, expr.Case.Clauses[1].IsElse)
}

func TestFromDatumQuoteIsUnconverted(t *testing.T) {
	expr := fromSource(t, `'(a b c)`)
	require.Equal(t, ast.KindQuote, expr.Kind)
	assert.NotNil(t, expr.Quoted)
}

func TestFromDatumQuasiquoteUnquote(t *testing.T) {
	expr := fromSource(t, "`(a ,(+ 1 2) ,@b)")
	require.Equal(t, ast.KindQuasiquote, expr.Kind)
	tmpl, ok := expr.Quoted.(ast.Expr)
	require.True(t, ok)
	require.Equal(t, ast.KindPairExpr, tmpl.Kind)

	second := tmpl.PairExpr.Cdr
	require.Equal(t, ast.KindPairExpr, second.Kind)
	unq := second.PairExpr.Car
	require.Equal(t, ast.KindUnquote, unq.Kind)
	inner, ok := unq.Quoted.(ast.Expr)
	require.True(t, ok)
	assert.Equal(t, ast.KindApplication, inner.Kind)
}

func TestFromDatumAndOr(t *testing.T) {
	expr := fromSource(t, `(and 1 2 3)`)
	require.Equal(t, ast.KindAnd, expr.Kind)
	assert.Len(t, expr.AndOr, 3)

	expr = fromSource(t, `(or)`)
	require.Equal(t, ast.KindOr, expr.Kind)
	assert.Len(t, expr.AndOr, 0)
}

func TestFromDatumDefineSyntax(t *testing.T) {
	expr := fromSource(t, `(define-syntax my-if (syntax-rules () ((_ a b c) (cond (a b) (else c)))))`)
	require.Equal(t, ast.KindSyntaxDefinition, expr.Kind)
	assert.Equal(t, "my-if", expr.SyntaxDef.Name)
}

func TestFromDatumGenericApplicationFallsThrough(t *testing.T) {
	expr := fromSource(t, `(when #t (display "x"))`)
	require.Equal(t, ast.KindApplication, expr.Kind)
	assert.Equal(t, "when", expr.Application.Operator.Name)
}
