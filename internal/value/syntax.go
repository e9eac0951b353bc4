package value

import "github.com/akasaka-miraina/lambdust-sub003/internal/ast"

// Syntax is the Value-level view of a macro transformer (spec §3/§4.5).
// The concrete pattern/template engine lives in package macro, which
// implements this interface.
type Syntax interface {
	Value

	// Expand matches form (the full macro-use expression, head identifier
	// included) against the transformer's rules and instantiates the
	// winning template, returning the expansion as an already-hygiene-
	// renamed Expr ready for re-expansion/evaluation in useEnv.
	Expand(form ast.Expr, useEnv Environment) (ast.Expr, error)

	// Name returns the transformer's definition-time name, for error
	// messages ("unbound syntax", macro-expansion-chain reporting).
	Name() string
}
