package macro

import (
	"fmt"

	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// instantiate renders template against bindings, renaming every
// template-introduced identifier (one not bound by the pattern and not
// a core keyword) with mark so it cannot capture, or be captured by, an
// identifier from the macro's use site — the hygiene condition of
// spec.md §4.5.
func instantiate(template ast.Expr, bindings map[string]bound, ellipsis string, mark uint64) ast.Expr {
	return instRec(template, bindings, ellipsis, mark)
}

func instRec(t ast.Expr, bindings map[string]bound, ellipsis string, mark uint64) ast.Expr {
	switch t.Kind {
	case ast.KindIdentifier:
		if b, ok := bindings[t.Name]; ok {
			return b.expr
		}
		if _, core := coreKeywords[t.Name]; core {
			return t
		}
		return ast.Expr{Kind: ast.KindIdentifier, Span: t.Span, Name: renamedName(t.Name, mark)}

	case ast.KindLiteral:
		return t

	case ast.KindPairExpr:
		return instPair(t, bindings, ellipsis, mark)

	default:
		return t
	}
}

func renamedName(name string, mark uint64) string {
	return fmt.Sprintf("%s⁣%d", name, mark) // U+2063 INVISIBLE SEPARATOR: never typeable by a user, so a renamed identifier can never collide with source text.
}

// instPair walks a template pair chain, expanding `<t> <ellipsis> ...`
// into one copy of <t> per repetition recorded for its pattern variables
// (spec.md §4.5's ellipsis, including SRFI-149 multiple consecutive
// ellipses: `<t> <ellipsis> <ellipsis>` flattens one extra level), and
// treating a literal `(... <t>)` as the SRFI-149 escape that suppresses
// ellipsis processing inside <t> entirely.
func instPair(t ast.Expr, bindings map[string]bound, ellipsis string, mark uint64) ast.Expr {
	car, cdr, ok := asPair(t)
	if !ok {
		return t
	}

	if isIdentifier(car, ellipsis) {
		if innerCar, innerCdr, ok := asPair(cdr); ok && isNil(innerCdr) {
			return instNoEllipsis(innerCar, bindings, mark)
		}
	}

	if next, rest, ok := asPair(cdr); ok && isIdentifier(next, ellipsis) {
		extraEllipses := 0
		for {
			if n2, r2, ok2 := asPair(rest); ok2 && isIdentifier(n2, ellipsis) {
				extraEllipses++
				rest = r2
				continue
			}
			break
		}
		expanded := expandEllipsis(car, bindings, ellipsis, mark, extraEllipses)
		tail := instRec(rest, bindings, ellipsis, mark)
		return consAll(expanded, tail)
	}

	return ast.Expr{
		Kind: ast.KindPairExpr,
		Span: t.Span,
		PairExpr: &ast.PairExpr{
			Car: instRec(car, bindings, ellipsis, mark),
			Cdr: instRec(cdr, bindings, ellipsis, mark),
		},
	}
}

// instNoEllipsis renders t with ellipsis processing disabled, the
// SRFI-149 `(... template)` escape for embedding a literal ellipsis.
func instNoEllipsis(t ast.Expr, bindings map[string]bound, mark uint64) ast.Expr {
	return instRec(t, bindings, "\x00no-ellipsis\x00", mark)
}

// expandEllipsis produces one instantiation of elem per repetition
// recorded in bindings for elem's pattern variables. extraEllipses
// flattens one additional nesting level per consecutive `...` beyond the
// first (SRFI-149).
func expandEllipsis(elem ast.Expr, bindings map[string]bound, ellipsis string, mark uint64, extraEllipses int) []ast.Expr {
	names := patternVariables(elem, ellipsis)
	count := -1
	for _, name := range names {
		if b, ok := bindings[name]; ok && b.depth > 0 {
			if count == -1 || len(b.items) < count {
				count = len(b.items)
			}
		}
	}
	if count == -1 {
		count = 0
	}

	out := make([]ast.Expr, 0, count)
	for i := 0; i < count; i++ {
		sub := make(map[string]bound, len(bindings))
		for k, v := range bindings {
			sub[k] = v
		}
		for _, name := range names {
			if b, ok := bindings[name]; ok && b.depth > 0 && i < len(b.items) {
				sub[name] = b.items[i]
			}
		}
		result := instRec(elem, sub, ellipsis, mark)
		if extraEllipses > 0 {
			if items, ok := listToSlice(result); ok {
				out = append(out, items...)
				continue
			}
		}
		out = append(out, result)
	}
	return out
}

func listToSlice(e ast.Expr) ([]ast.Expr, bool) {
	var out []ast.Expr
	for {
		if isNil(e) {
			return out, true
		}
		car, cdr, ok := asPair(e)
		if !ok {
			return nil, false
		}
		out = append(out, car)
		e = cdr
	}
}

// consAll builds a pair chain of items followed by tail.
func consAll(items []ast.Expr, tail ast.Expr) ast.Expr {
	result := tail
	for i := len(items) - 1; i >= 0; i-- {
		result = ast.Expr{
			Kind:     ast.KindPairExpr,
			PairExpr: &ast.PairExpr{Car: items[i], Cdr: result},
		}
	}
	return result
}

// nilExpr is the canonical empty-list template/pattern terminator.
func nilExpr() ast.Expr {
	return ast.Expr{Kind: ast.KindLiteral, Literal: value.TheNil}
}
