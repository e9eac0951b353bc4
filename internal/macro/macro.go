// Package macro implements the pattern/template macro engine of spec.md
// §4.5: hygienic syntax-rules with ellipsis (including SRFI-149's
// multiple-consecutive-ellipsis and extra-ellipsis escape) and literals.
//
// The pattern matcher (pattern.go) is plain recursion over ast.Expr pair
// chains; an ellipsis matches greedily, leaving just enough of the form
// for the rest of the pattern, and a failed match is not retried with a
// shorter repetition. Expand performs a single expansion step and keeps
// no count of re-expansions: nothing in this package or in the evaluator
// stops a template that keeps expanding into another macro use.
package macro

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/symbol"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// DefaultMaxExpansionDepth is a re-expansion depth that no code reads:
// Expand and the evaluator do not count re-expansions, so runaway
// expansion is not cut off at this depth or any other.
const DefaultMaxExpansionDepth = 512

// Rule is one syntax-rules clause: a pattern and the template it expands
// to. The ellipsis identifier in effect (default `...`, overridable per
// SRFI-46) is held by the Transformer, not by each Rule.
type Rule struct {
	Pattern  ast.Expr
	Template ast.Expr
}

// Transformer is the concrete value.Syntax implementation for a
// syntax-rules macro.
type Transformer struct {
	name       string
	literals   map[symbol.ID]struct{}
	ellipsis   string
	rules      []Rule
	defEnv     value.Environment
	markSource *markCounter
}

var _ value.Syntax = (*Transformer)(nil)

// NewTransformer builds a syntax-rules transformer. literals is the set
// of identifiers that must match literally rather than bind; ellipsis
// overrides the default `...` token (SRFI-46's custom-ellipsis-identifier
// form of syntax-rules).
func NewTransformer(name string, literals []string, ellipsis string, rules []Rule, defEnv value.Environment) *Transformer {
	if ellipsis == "" {
		ellipsis = "..."
	}
	litSet := make(map[symbol.ID]struct{}, len(literals))
	for _, l := range literals {
		litSet[value.NewSymbol(l).ID] = struct{}{}
	}
	return &Transformer{
		name:       name,
		literals:   litSet,
		ellipsis:   ellipsis,
		rules:      rules,
		defEnv:     defEnv,
		markSource: globalMarks,
	}
}

func (t *Transformer) Kind() value.Kind { return value.KindSyntax }

func (t *Transformer) Name() string { return t.name }

// Expand tries each rule's pattern against form in order, instantiating
// the first match's template with hygienic renaming applied to every
// template identifier not bound by the pattern (spec.md §4.5).
func (t *Transformer) Expand(form ast.Expr, useEnv value.Environment) (ast.Expr, error) {
	for _, rule := range t.rules {
		bindings, ok := match(rule.Pattern, form, t.literals, t.ellipsis, true)
		if !ok {
			continue
		}
		mark := t.markSource.next()
		return instantiate(rule.Template, bindings, t.ellipsis, mark), nil
	}
	return ast.Expr{}, lerr.NewMacroError("no matching syntax-rules clause for "+t.name, lerr.Span{}, nil)
}
