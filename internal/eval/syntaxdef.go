// define-syntax/let-syntax/letrec-syntax (R7RS 4.3) wire a parsed
// syntax-rules transformer-spec into package macro's Transformer and bind
// it as a value.Syntax, the same way any other definition binds a value —
// Syntax bindings are ordinary Environment entries, looked up the same
// way stepApplication looks up any other operator (spec §4.5).
package eval

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/macro"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// stepSyntaxDefinition implements top-level/internal define-syntax: bind
// Name to the transformer built from TransformerSpec in env.
func (ev *Evaluator) stepSyntaxDefinition(redex ast.Expr, env value.Environment) (value.Value, ast.Expr, value.Environment, bool, error) {
	sd := redex.SyntaxDef
	transformer, err := buildTransformer(sd.Name, sd.TransformerSpec, env)
	if err != nil {
		return nil, ast.Expr{}, nil, false, err
	}
	env.Define(value.NewSymbol(sd.Name).ID, transformer)
	return value.TheUnspecified, ast.Expr{}, nil, false, nil
}

// buildTransformer parses a `(syntax-rules [ellipsis] (literal...)
// (pattern template)...)` spec, the only transformer-spec form spec.md
// §4.5 requires, into a *macro.Transformer bound to defEnv.
func buildTransformer(name string, spec ast.Expr, defEnv value.Environment) (value.Syntax, error) {
	items, ok := exprListItems(spec)
	if !ok || len(items) < 2 {
		return nil, lerr.Runtimef("%s: malformed transformer spec", name)
	}
	if items[0].Kind != ast.KindIdentifier || items[0].Name != "syntax-rules" {
		return nil, lerr.Runtimef("%s: only syntax-rules transformers are supported", name)
	}
	rest := items[1:]

	ellipsis := ""
	if rest[0].Kind == ast.KindIdentifier {
		ellipsis = rest[0].Name
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return nil, lerr.Runtimef("%s: syntax-rules missing literals list", name)
	}
	litExprs, ok := exprListItems(rest[0])
	if !ok {
		return nil, lerr.Runtimef("%s: malformed syntax-rules literals list", name)
	}
	literals := make([]string, 0, len(litExprs))
	for _, l := range litExprs {
		if l.Kind != ast.KindIdentifier {
			return nil, lerr.Runtimef("%s: syntax-rules literal must be an identifier", name)
		}
		literals = append(literals, l.Name)
	}

	clauseExprs := rest[1:]
	rules := make([]macro.Rule, 0, len(clauseExprs))
	for _, ce := range clauseExprs {
		parts, ok := exprListItems(ce)
		if !ok || len(parts) != 2 {
			return nil, lerr.Runtimef("%s: malformed syntax-rules clause", name)
		}
		rules = append(rules, macro.Rule{Pattern: parts[0], Template: parts[1]})
	}

	return macro.NewTransformer(name, literals, ellipsis, rules, defEnv), nil
}

// formLetSyntax and formLetrecSyntax implement R7RS 4.3.2: bind each
// transformer in a fresh child environment and run the body there. They
// differ only in which environment each transformer's pattern variables
// resolve free identifiers against: let-syntax's specs see the outer
// env, letrec-syntax's see the new child (so syntax definitions can refer
// to each other, and to themselves, recursively).
func formLetSyntax(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	return stepLetSyntax(operands, env, false)
}

func formLetrecSyntax(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	return stepLetSyntax(operands, env, true)
}

func stepLetSyntax(operands []ast.Expr, env value.Environment, recursive bool) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(operands) == 0 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("let-syntax: expected a binding list")
	}
	clauseItems, ok := exprListItems(operands[0])
	if !ok {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("let-syntax: malformed binding list")
	}

	child := env.Extend()
	defEnv := env
	if recursive {
		defEnv = child
	}
	for _, clause := range clauseItems {
		parts, ok := exprListItems(clause)
		if !ok || len(parts) != 2 || parts[0].Kind != ast.KindIdentifier {
			return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("let-syntax: malformed binding clause")
		}
		transformer, err := buildTransformer(parts[0].Name, parts[1], defEnv)
		if err != nil {
			return nil, ast.Expr{}, nil, false, err
		}
		child.Define(value.NewSymbol(parts[0].Name).ID, transformer)
	}

	return nil, bodyToBegin(operands[1:]), child, true, nil
}

func init() {
	specialForms["let-syntax"] = formLetSyntax
	specialForms["letrec-syntax"] = formLetrecSyntax
}
