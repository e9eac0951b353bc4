package macro

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/symbol"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// coreKeywords never get hygiene-renamed on template instantiation: they
// name the special forms internal/eval dispatches on by literal spelling,
// not by lexical binding, so renaming them would make the expansion
// uninterpretable. A fully binding-aware hygiene algorithm would instead
// resolve every template identifier against its definition environment
// and only skip renaming for identifiers that actually resolve to a
// syntactic keyword there; this fixed set is the pragmatic approximation
// spec.md's built-in derived forms (§4.5) already enumerate by name.
var coreKeywords = map[string]struct{}{
	"if": {}, "lambda": {}, "define": {}, "set!": {}, "quote": {},
	"quasiquote": {}, "unquote": {}, "unquote-splicing": {}, "begin": {},
	"let": {}, "let*": {}, "letrec": {}, "letrec*": {}, "cond": {}, "case": {},
	"and": {}, "or": {}, "when": {}, "unless": {}, "do": {}, "else": {},
	"=>": {}, "define-syntax": {}, "let-syntax": {}, "letrec-syntax": {},
	"syntax-rules": {}, "define-record-type": {}, "case-lambda": {},
	"cond-expand": {}, "define-values": {}, "let-values": {}, "let*-values": {},
	"call-with-values": {}, "guard": {}, "parameterize": {}, "dynamic-wind": {},
}

// bound is what a pattern variable matches: either a single form (depth
// 0) or, under one or more ellipses, a slice of further bound values
// (depth > 0; a depth-2 ellipsis variable's items are themselves slices
// wrapped in bound, one nesting level per ellipsis).
type bound struct {
	expr  ast.Expr
	items []bound
	depth int
}

// match attempts to unify pattern against form, returning the pattern
// variable bindings on success. topLevel strips the macro keyword itself
// (the first element of both pattern and form is the macro's own name
// and matches unconditionally, per R7RS).
func match(pattern, form ast.Expr, literals map[symbol.ID]struct{}, ellipsis string, topLevel bool) (map[string]bound, bool) {
	bindings := map[string]bound{}
	if topLevel {
		pCar, pCdr, ok := asPair(pattern)
		if !ok {
			return nil, false
		}
		fCar, fCdr, ok := asPair(form)
		if !ok {
			return nil, false
		}
		_ = pCar
		_ = fCar
		return matchList(pCdr, fCdr, literals, ellipsis, bindings)
	}
	if !matchOne(pattern, form, literals, ellipsis, bindings) {
		return nil, false
	}
	return bindings, true
}

func asPair(e ast.Expr) (car, cdr ast.Expr, ok bool) {
	if e.Kind != ast.KindPairExpr || e.PairExpr == nil {
		return ast.Expr{}, ast.Expr{}, false
	}
	return e.PairExpr.Car, e.PairExpr.Cdr, true
}

func isNil(e ast.Expr) bool {
	if e.Kind != ast.KindLiteral {
		return false
	}
	_, ok := e.Literal.(value.Nil)
	return ok
}

func isIdentifier(e ast.Expr, name string) bool {
	return e.Kind == ast.KindIdentifier && e.Name == name
}

// matchList handles a pattern/form pair chain, recognizing `<p> <ellipsis>
// <rest>` as matching zero or more repetitions of <p> followed by
// whatever <rest> requires (spec.md §4.5's ellipsis). The SRFI-149
// `(... template)` escape applies to templates only and is handled by
// instPair in template.go, not by the matcher.
func matchList(pattern, form ast.Expr, literals map[symbol.ID]struct{}, ellipsis string, bindings map[string]bound) (map[string]bound, bool) {
	for {
		if isNil(pattern) {
			if isNil(form) {
				return bindings, true
			}
			return nil, false
		}
		pCar, pCdr, pIsPair := asPair(pattern)
		if !pIsPair {
			// Dotted tail pattern variable: matches the remainder as-is.
			if !matchOne(pattern, form, literals, ellipsis, bindings) {
				return nil, false
			}
			return bindings, true
		}

		if nextCar, nextCdr, ok := asPair(pCdr); ok && isIdentifier(nextCar, ellipsis) {
			// pCar <ellipsis> ... : greedily match pCar against a prefix of
			// form, leaving enough to satisfy the rest of the pattern.
			minTailLen := properLen(nextCdr)
			var reps []map[string]bound
			cur := form
			for properLen(cur) > minTailLen {
				car, cdr, ok := asPair(cur)
				if !ok {
					break
				}
				sub := map[string]bound{}
				if !matchOne(pCar, car, literals, ellipsis, sub) {
					break
				}
				reps = append(reps, sub)
				cur = cdr
			}
			mergeEllipsisBindings(bindings, pCar, ellipsis, reps)
			pattern, form = nextCdr, cur
			continue
		}

		fCar, fCdr, fIsPair := asPair(form)
		if !fIsPair {
			return nil, false
		}
		if !matchOne(pCar, fCar, literals, ellipsis, bindings) {
			return nil, false
		}
		pattern, form = pCdr, fCdr
	}
}

// mergeEllipsisBindings fans repeated-match results out into one
// depth+1 bound per variable name appearing in patternElem, looking each
// repetition's value up by name (not position) so map iteration order
// can never misalign a value with the wrong variable.
func mergeEllipsisBindings(bindings map[string]bound, patternElem ast.Expr, ellipsis string, reps []map[string]bound) {
	names := patternVariables(patternElem, ellipsis)
	for _, name := range names {
		items := make([]bound, 0, len(reps))
		for _, rep := range reps {
			if v, ok := rep[name]; ok {
				items = append(items, v)
			}
		}
		depth := 1
		if len(items) > 0 {
			depth = items[0].depth + 1
		}
		bindings[name] = bound{items: items, depth: depth}
	}
}

// patternVariables collects identifier names bound by a pattern
// fragment, in a deterministic left-to-right order, excluding the
// ellipsis token and the wildcard `_`.
func patternVariables(p ast.Expr, ellipsis string) []string {
	var names []string
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		switch e.Kind {
		case ast.KindIdentifier:
			if e.Name != ellipsis && e.Name != "_" {
				names = append(names, e.Name)
			}
		case ast.KindPairExpr:
			if e.PairExpr != nil {
				walk(e.PairExpr.Car)
				walk(e.PairExpr.Cdr)
			}
		}
	}
	walk(p)
	return names
}

func properLen(e ast.Expr) int {
	n := 0
	for {
		car, cdr, ok := asPair(e)
		if !ok {
			return n
		}
		_ = car
		n++
		e = cdr
	}
}

func matchOne(pattern, form ast.Expr, literals map[symbol.ID]struct{}, ellipsis string, bindings map[string]bound) bool {
	switch pattern.Kind {
	case ast.KindIdentifier:
		if pattern.Name == "_" {
			return true
		}
		if _, isLiteral := literals[value.NewSymbol(pattern.Name).ID]; isLiteral {
			return form.Kind == ast.KindIdentifier && form.Name == pattern.Name
		}
		bindings[pattern.Name] = bound{expr: form}
		return true
	case ast.KindPairExpr:
		sub, ok := matchList(pattern, form, literals, ellipsis, map[string]bound{})
		if !ok {
			return false
		}
		for k, v := range sub {
			bindings[k] = v
		}
		return true
	case ast.KindLiteral:
		if form.Kind != ast.KindLiteral {
			return false
		}
		lv, lok := pattern.Literal.(value.Value)
		fv, fok := form.Literal.(value.Value)
		if lok && fok {
			return value.Equal(lv, fv)
		}
		return pattern.Literal == form.Literal
	default:
		return false
	}
}
