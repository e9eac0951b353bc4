// Package ast defines the external AST interface lambdust's core consumes:
// spec §6's Spanned<Expr>. The lexer/parser that produces these values from
// source text is explicitly out of scope (spec §1) — it is an external
// collaborator. This package only fixes the shape of its output so the
// evaluator and macro expander have something concrete to work over.
//
// Literal datums are carried as `any` rather than a reference to
// package value, so that package value (which embeds ast.Expr inside
// Procedure bodies) does not form an import cycle with this package; the
// evaluator is responsible for the any->value.Value assertion.
package ast

// Span carries source offsets, when known. A zero Span means "no source
// location" (e.g. code built by Quote/list->expr rather than parsed from
// text).
type Span struct {
	Start, End int
}

// Kind enumerates the Expr variants, per spec §6.
type Kind int

const (
	KindLiteral Kind = iota
	KindIdentifier
	KindKeyword
	KindLambda
	KindApplication
	KindIf
	KindSet
	KindDefine
	KindBegin
	KindQuote
	KindQuasiquote
	KindUnquote
	KindUnquoteSplicing
	KindPairExpr
	KindLet
	KindLetStar
	KindLetrec
	KindCond
	KindCase
	KindAnd
	KindOr
	KindTypeAnnotation
	KindSyntaxDefinition
)

// Expr is a single AST node, tagged with its source Span.
type Expr struct {
	Kind Kind
	Span Span

	// Populated depending on Kind; unused fields for a given Kind are zero.
	Literal  any    // KindLiteral: the parsed datum (a value.Value in practice).
	Name     string // KindIdentifier, KindKeyword: the raw name.

	Lambda      *LambdaExpr
	Application *ApplicationExpr
	If          *IfExpr
	Set         *SetExpr
	Define      *DefineExpr
	Begin       []Expr
	Quoted      any // KindQuote/Quasiquote/Unquote/UnquoteSplicing payload datum.
	PairExpr    *PairExpr
	Binding     *BindingExpr // KindLet, KindLetStar, KindLetrec
	Cond        []CondClause
	Case        *CaseExpr
	AndOr       []Expr // KindAnd, KindOr
	SyntaxDef   *SyntaxDefinitionExpr
}

// Metadata is carried alongside Lambda/Define nodes per spec §6; it is
// deliberately untyped (a property bag) since the core has no fixed set of
// metadata keys — tooling built on top of the core (the bytecode compiler,
// for instance) can stash optimization hints here.
type Metadata map[string]any

// Formal is one parameter in a lambda's formals list.
type Formal struct {
	Name     string
	Keyword  bool // #:name-style keyword argument
	Optional bool
	Default  *Expr // for optional/keyword formals with a default expression
}

// LambdaExpr is `(lambda formals body...)`.
type LambdaExpr struct {
	Fixed    []Formal
	Rest     string // "" if no rest formal
	Body     []Expr
	Metadata Metadata
}

// ApplicationExpr is `(operator operand...)`.
type ApplicationExpr struct {
	Operator Expr
	Operands []Expr
}

// IfExpr is `(if test then else?)`.
type IfExpr struct {
	Test Expr
	Then Expr
	Else *Expr
}

// SetExpr is `(set! name value)`.
type SetExpr struct {
	Name  string
	Value Expr
}

// DefineExpr is `(define name value)` or the curried-lambda sugar
// `(define (name . formals) body...)`, which the converter desugars to the
// former with a KindLambda value.
type DefineExpr struct {
	Name     string
	Value    Expr
	Metadata Metadata
}

// PairExpr is a literal dotted pair appearing in code position (rare
// outside of quote/quasiquote, included for completeness per spec §6).
type PairExpr struct {
	Car, Cdr Expr
}

// Binding is one `(name value)` clause in a let family form.
type Binding struct {
	Name  string
	Value Expr
}

// BindingExpr covers let/let*/letrec/letrec* (distinguished by Expr.Kind).
type BindingExpr struct {
	Bindings []Binding
	Body     []Expr
	Star     bool // letrec* vs letrec (only meaningful for KindLetrec)
}

// CondClause is one `(test expr...)` clause of cond, or the `else` clause.
type CondClause struct {
	Test       Expr
	IsElse     bool
	Arrow      bool // (test => proc) form
	Body       []Expr
}

// CaseExpr is `(case key clause...)`.
type CaseExpr struct {
	Key     Expr
	Clauses []CaseClause
}

// CaseClause is one `((datum...) expr...)` clause of case, or `else`.
type CaseClause struct {
	Datums []any
	IsElse bool
	Body   []Expr
}

// SyntaxDefinitionExpr is `(define-syntax name transformer-spec)`.
type SyntaxDefinitionExpr struct {
	Name            string
	TransformerSpec Expr
}
