package eval

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/machine"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// step performs one forward CEK transition: either it fully reduces
// redex to a value (pushed=false), or it pushes a Frame recording what
// remains and returns the next sub-expression to evaluate (pushed=true).
func (ev *Evaluator) step(redex ast.Expr, en value.Environment) (v value.Value, nextExpr ast.Expr, nextEnv value.Environment, pushed bool, err error) {
	switch redex.Kind {
	case ast.KindLiteral:
		v, err = datumValue(redex.Literal)
		return v, ast.Expr{}, nil, false, err

	case ast.KindIdentifier:
		id := value.NewSymbol(redex.Name).ID
		val, ok := en.Lookup(id)
		if !ok {
			return nil, ast.Expr{}, nil, false, lerr.Runtimef("unbound variable: %s", redex.Name)
		}
		return val, ast.Expr{}, nil, false, nil

	case ast.KindQuote:
		v, err = datumValue(redex.Quoted)
		return v, ast.Expr{}, nil, false, err

	case ast.KindQuasiquote:
		v, err = ev.evalQuasiquote(redex.Quoted, en, 1)
		return v, ast.Expr{}, nil, false, err

	case ast.KindLambda:
		l := redex.Lambda
		name := ""
		if l.Metadata != nil {
			if n, ok := l.Metadata["name"].(string); ok {
				name = n
			}
		}
		return &value.Procedure{Formals: l.Fixed, Rest: l.Rest, Body: l.Body, Env: en, Name: name}, ast.Expr{}, nil, false, nil

	case ast.KindIf:
		ev.m.Push(machine.IfFrame{Base: machine.Base{Env: en, Span: redex.Span}, Then: redex.If.Then, Else: redex.If.Else})
		return nil, redex.If.Test, en, true, nil

	case ast.KindSet:
		ev.m.Push(machine.SetFrame{Base: machine.Base{Env: en, Span: redex.Span}, Name: value.NewSymbol(redex.Set.Name).ID, IsDefine: false})
		return nil, redex.Set.Value, en, true, nil

	case ast.KindDefine:
		ev.m.Push(machine.SetFrame{Base: machine.Base{Env: en, Span: redex.Span}, Name: value.NewSymbol(redex.Define.Name).ID, IsDefine: true})
		return nil, redex.Define.Value, en, true, nil

	case ast.KindBegin:
		return ev.stepSequence(redex.Begin, en, redex.Span)

	case ast.KindLet, ast.KindLetStar, ast.KindLetrec:
		return ev.stepBinding(redex, en)

	case ast.KindCond:
		return nil, desugarCond(redex.Cond), en, true, nil

	case ast.KindCase:
		return nil, desugarCase(redex.Case), en, true, nil

	case ast.KindAnd:
		return ev.stepAndOr(redex.AndOr, en, true)

	case ast.KindOr:
		return ev.stepAndOr(redex.AndOr, en, false)

	case ast.KindApplication:
		return ev.stepApplication(redex, en)

	case ast.KindSyntaxDefinition:
		return ev.stepSyntaxDefinition(redex, en)

	default:
		return nil, ast.Expr{}, nil, false, lerr.Runtimef("eval: unsupported expression kind %v", redex.Kind)
	}
}

func (ev *Evaluator) stepSequence(body []ast.Expr, en value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(body) == 0 {
		return value.TheUnspecified, ast.Expr{}, nil, false, nil
	}
	if len(body) > 1 {
		ev.m.Push(machine.SequenceFrame{Base: machine.Base{Env: en, Span: span}, Remaining: body[1:]})
	}
	return nil, body[0], en, true, nil
}

func (ev *Evaluator) stepAndOr(exprs []ast.Expr, en value.Environment, isAnd bool) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(exprs) == 0 {
		return value.Bool(isAnd), ast.Expr{}, nil, false, nil
	}
	if len(exprs) == 1 {
		return nil, exprs[0], en, true, nil
	}
	kind := ast.KindOr
	if isAnd {
		kind = ast.KindAnd
	}
	rest := ast.Expr{Kind: kind, AndOr: exprs[1:]}
	if isAnd {
		falseExpr := ast.Expr{Kind: ast.KindLiteral, Literal: value.Bool(false)}
		return nil, ast.Expr{Kind: ast.KindIf, If: &ast.IfExpr{Test: exprs[0], Then: rest, Else: ptrExpr(falseExpr)}}, en, true, nil
	}
	tmp := freshTempName("or")
	return nil, letExpr([]ast.Binding{{Name: tmp, Value: exprs[0]}},
		ast.Expr{Kind: ast.KindIf, If: &ast.IfExpr{Test: ident(tmp), Then: ident(tmp), Else: ptrExpr(rest)}}), en, true, nil
}

func (ev *Evaluator) stepApplication(redex ast.Expr, en value.Environment) (value.Value, ast.Expr, value.Environment, bool, error) {
	appl := redex.Application
	if appl.Operator.Kind == ast.KindIdentifier {
		name := appl.Operator.Name
		if fn, ok := specialForms[name]; ok {
			return fn(ev, appl.Operands, en, redex.Span)
		}
		if v, ok := en.Lookup(value.NewSymbol(name).ID); ok {
			if syn, isSyntax := v.(value.Syntax); isSyntax {
				expanded, err := syn.Expand(redex, en)
				return nil, expanded, en, true, err
			}
		}
	}
	ev.m.Push(machine.ApplicationOperatorFrame{Base: machine.Base{Env: en, Span: redex.Span}, Operands: appl.Operands})
	return nil, appl.Operator, en, true, nil
}

// resume delivers v into frame, the backward half of the CEK step.
func (ev *Evaluator) resume(frame machine.Frame, v value.Value) (nextExpr ast.Expr, nextEnv value.Environment, done bool, result value.Value, err error) {
	ev.m.Pop()

	switch f := frame.(type) {
	case machine.IfFrame:
		if value.IsTruthy(v) {
			return f.Then, f.Env, false, nil, nil
		}
		if f.Else != nil {
			return *f.Else, f.Env, false, nil, nil
		}
		return ast.Expr{}, nil, true, value.TheUnspecified, nil

	case machine.SetFrame:
		if f.IsDefine {
			f.Env.Define(f.Name, v)
		} else if !f.Env.Set(f.Name, v) {
			return ast.Expr{}, nil, true, nil, lerr.Runtimef("unbound variable: %s", f.Name)
		}
		return ast.Expr{}, nil, true, value.TheUnspecified, nil

	case machine.SequenceFrame:
		return ev.resumeSequence(f)

	case machine.ApplicationOperatorFrame:
		return ev.resumeApplicationOperator(f, v)

	case machine.ApplicationOperandFrame:
		return ev.resumeApplicationOperand(f, v)

	case machine.LetFrame:
		return ev.resumeLet(f, v)

	case machine.ProcedureCallFrame:
		return ast.Expr{}, nil, true, v, nil

	case machine.CallCCFrame:
		cont := ev.m.NewContinuation(f.Env)
		if ev.roots != nil {
			ev.roots.RegisterContinuation(cont)
		}
		redex, env, done, result, aerr := ev.beginApply(v, []value.Value{cont})
		return redex, env, done, result, aerr

	case machine.HandlerFrame:
		return ast.Expr{}, nil, true, v, nil

	default:
		return ast.Expr{}, nil, true, nil, lerr.Runtimef("eval: unknown frame kind")
	}
}

func (ev *Evaluator) resumeSequence(f machine.SequenceFrame) (ast.Expr, value.Environment, bool, value.Value, error) {
	if len(f.Remaining) > 1 {
		ev.m.Push(machine.SequenceFrame{Base: f.Base, Remaining: f.Remaining[1:]})
	}
	return f.Remaining[0], f.Env, false, nil, nil
}

func (ev *Evaluator) resumeApplicationOperator(f machine.ApplicationOperatorFrame, proc value.Value) (ast.Expr, value.Environment, bool, value.Value, error) {
	if len(f.Operands) == 0 {
		return ev.finishApplication(f.Env, f.Span, proc, nil)
	}
	ev.m.Push(machine.ApplicationOperandFrame{Base: f.Base, Proc: proc, Pending: f.Operands[1:]})
	return f.Operands[0], f.Env, false, nil, nil
}

func (ev *Evaluator) resumeApplicationOperand(f machine.ApplicationOperandFrame, argVal value.Value) (ast.Expr, value.Environment, bool, value.Value, error) {
	done := append(append([]value.Value{}, f.Done...), argVal)
	if len(f.Pending) > 0 {
		ev.m.Push(machine.ApplicationOperandFrame{Base: f.Base, Proc: f.Proc, Done: done, Pending: f.Pending[1:]})
		return f.Pending[0], f.Env, false, nil, nil
	}
	return ev.finishApplication(f.Env, f.Span, f.Proc, done)
}

// finishApplication applies proc to args, pushing (or replacing, for a
// genuine tail call) a ProcedureCallFrame so a continued tail-recursive
// loop never grows the context: if the frame now on top is itself a
// ProcedureCallFrame, this call occurred in tail position and reuses its
// slot; otherwise it is a fresh, non-tail call and gets its own frame.
func (ev *Evaluator) finishApplication(en value.Environment, span ast.Span, proc value.Value, args []value.Value) (ast.Expr, value.Environment, bool, value.Value, error) {
	redex, bodyEnv, done, result, err := ev.beginApply(proc, args)
	if err != nil || done {
		return ast.Expr{}, nil, true, result, err
	}
	name := procName(proc)
	newFrame := machine.ProcedureCallFrame{Base: machine.Base{Env: bodyEnv, Span: span}, Name: name}
	if top, ok := ev.m.Top(); ok {
		if _, isCall := top.(machine.ProcedureCallFrame); isCall {
			ev.m.ReplaceTop(newFrame)
			return redex, bodyEnv, false, nil, nil
		}
	}
	ev.m.Push(newFrame)
	return redex, bodyEnv, false, nil, nil
}

func procName(proc value.Value) string {
	switch p := proc.(type) {
	case *value.Procedure:
		return p.Name
	case *value.CaseLambda:
		return p.Name
	case *value.Primitive:
		return p.Name
	default:
		return ""
	}
}
