package eval

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/machine"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// beginApply applies proc to args. For a Primitive it runs to completion
// immediately (done=true). For a Procedure/CaseLambda clause it binds
// the formals into a fresh frame and returns the body's redex to
// continue evaluating — in tail position relative to whatever pushed
// this application (the ProcedureCallFrame is pushed or replaced by the
// caller, finishApplication in specialforms.go, not here, so a genuine
// tail call never grows the context).
func (ev *Evaluator) beginApply(proc value.Value, args []value.Value) (redex ast.Expr, bodyEnv value.Environment, done bool, result value.Value, err error) {
	switch p := proc.(type) {
	case *value.Primitive:
		if !p.Arity.Accepts(len(args)) {
			return ast.Expr{}, nil, true, nil, lerr.Typef(lerr.Span{}, "%s: expected arity %v, got %d args", p.Name, p.Arity, len(args))
		}
		if p.IsEvaluatorAware() {
			v, perr := p.AwareFn(ev, args)
			return ast.Expr{}, nil, true, v, perr
		}
		v, perr := p.Fn(args)
		return ast.Expr{}, nil, true, v, perr

	case *value.Procedure:
		clauseEnv, berr := bindFormals(p, args)
		if berr != nil {
			return ast.Expr{}, nil, true, nil, berr
		}
		body := rewriteInternalDefines(p.Body)
		return bodyRedex(body), clauseEnv, false, nil, nil

	case *value.CaseLambda:
		for _, clause := range p.Clauses {
			arity := procedureArity(&clause)
			if arity.Accepts(len(args)) {
				clauseEnv, berr := bindFormals(&clause, args)
				if berr != nil {
					return ast.Expr{}, nil, true, nil, berr
				}
				body := rewriteInternalDefines(clause.Body)
				return bodyRedex(body), clauseEnv, false, nil, nil
			}
		}
		return ast.Expr{}, nil, true, nil, lerr.NewRuntimeError("case-lambda: no matching clause for " + itoa(len(args)) + " args")

	case *machine.Continuation:
		if len(args) != 1 {
			return ast.Expr{}, nil, true, nil, lerr.NewRuntimeError("continuation invoked with other than one value")
		}
		jerr := p.Invoke(args[0])
		return ast.Expr{}, nil, true, nil, jerr

	case *value.Parameter:
		if len(args) != 0 {
			return ast.Expr{}, nil, true, nil, lerr.NewRuntimeError("parameter object invoked with arguments; use parameterize to rebind")
		}
		return ast.Expr{}, nil, true, p.Current(), nil

	default:
		return ast.Expr{}, nil, true, nil, lerr.Typef(lerr.Span{}, "not applicable: %v", proc)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func procedureArity(p *value.Procedure) value.Arity {
	min := 0
	for _, f := range p.Formals {
		if !f.Optional {
			min++
		}
	}
	max := len(p.Formals)
	if p.Rest != "" {
		max = -1
	}
	return value.Arity{Min: min, Max: max}
}

// bindFormals extends p's closure environment with args bound to p's
// formals, matching R7RS's fixed/rest-argument lambda list (spec.md §3's
// Procedure; optional/keyword formals are a lambdust extension carried
// in ast.Formal, bound to the argument when one is supplied and otherwise
// to #<unspecified> — a formal's Default expression is not evaluated).
func bindFormals(p *value.Procedure, args []value.Value) (value.Environment, error) {
	arity := procedureArity(p)
	if !arity.Accepts(len(args)) {
		name := p.Name
		if name == "" {
			name = "#[lambda]"
		}
		return nil, lerr.Typef(lerr.Span{}, "%s: expected %v args, got %d", name, arity, len(args))
	}

	child := p.Env.Extend()
	i := 0
	for _, f := range p.Formals {
		var v value.Value
		if i < len(args) {
			v = args[i]
			i++
		} else if f.Default != nil {
			v = value.TheUnspecified // the Default expression is not evaluated; the formal is bound unspecified.
		} else {
			v = value.TheUnspecified
		}
		child.Define(value.NewSymbol(f.Name).ID, v)
	}
	if p.Rest != "" {
		var rest []value.Value
		if i < len(args) {
			rest = args[i:]
		}
		child.Define(value.NewSymbol(p.Rest).ID, value.SliceToList(rest))
	}
	return child, nil
}

// bodyRedex wraps a multi-expression body as a single redex: a Begin
// node if there's more than one expression, otherwise the expression
// itself, so the common single-expression-body case doesn't pay for a
// SequenceFrame it doesn't need.
func bodyRedex(body []ast.Expr) ast.Expr {
	if len(body) == 1 {
		return body[0]
	}
	return ast.Expr{Kind: ast.KindBegin, Begin: body}
}

// rewriteInternalDefines implements DESIGN.md's decision on spec.md §9's
// third open question: (define ...) forms at the start of a body are
// rewritten to letrec* at the point the body is about to run, so mutual
// recursion between internal definitions works and every other
// expression in the body sees them all already bound (possibly to
// #<unspecified> until their own definition runs, per letrec*).
//
// Because Procedure.Body is fixed at closure-creation time and bodies
// are reused across every call, the rewrite is idempotent: a body with
// no leading defines is returned unchanged without allocating.
func rewriteInternalDefines(body []ast.Expr) []ast.Expr {
	splitAt := 0
	for splitAt < len(body) && body[splitAt].Kind == ast.KindDefine {
		splitAt++
	}
	if splitAt == 0 {
		return body
	}
	bindings := make([]ast.Binding, splitAt)
	for i, d := range body[:splitAt] {
		bindings[i] = ast.Binding{Name: d.Define.Name, Value: d.Define.Value}
	}
	letrecBody := body[splitAt:]
	if len(letrecBody) == 0 {
		letrecBody = []ast.Expr{{Kind: ast.KindLiteral, Literal: value.TheUnspecified}}
	}
	return []ast.Expr{{
		Kind:    ast.KindLetrec,
		Binding: &ast.BindingExpr{Bindings: bindings, Body: letrecBody, Star: true},
	}}
}
