package eval

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/machine"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// stepBinding handles KindLet/KindLetStar/KindLetrec, each of which
// shares one Frame variant (machine.LetFrame) distinguished by LetKind:
// let evaluates every init in the outer environment and binds them all at
// once; let*/letrec* evaluate each init into a single progressively
// populated child environment, letrec* additionally pre-binding every
// name to #<unspecified> up front so mutually recursive definitions can
// see each other (R7RS 4.2.2).
func (ev *Evaluator) stepBinding(redex ast.Expr, en value.Environment) (value.Value, ast.Expr, value.Environment, bool, error) {
	b := redex.Binding
	kind := machine.LetPlain
	switch redex.Kind {
	case ast.KindLetStar:
		kind = machine.LetStar
	case ast.KindLetrec:
		kind = machine.LetrecStar
	}

	names := make([]string, len(b.Bindings))
	for i, bind := range b.Bindings {
		names[i] = bind.Name
	}

	if len(b.Bindings) == 0 {
		child := en.Extend()
		return ev.stepSequence(b.Body, child, redex.Span)
	}

	var bindEnv value.Environment
	switch kind {
	case machine.LetStar, machine.LetrecStar:
		bindEnv = en.Extend()
		if kind == machine.LetrecStar {
			for _, n := range names {
				bindEnv.Define(value.NewSymbol(n).ID, value.TheUnspecified)
			}
		}
	}

	evalEnv := en
	if bindEnv != nil {
		evalEnv = bindEnv
	}

	inits := make([]ast.Expr, len(b.Bindings))
	for i, bind := range b.Bindings {
		inits[i] = bind.Value
	}

	ev.m.Push(machine.LetFrame{
		Base:      machine.Base{Env: en, Span: redex.Span},
		Names:     names,
		Remaining: inits[1:],
		Body:      b.Body,
		BindEnv:   bindEnv,
		LetKind:   kind,
	})
	return nil, inits[0], evalEnv, true, nil
}

func (ev *Evaluator) resumeLet(f machine.LetFrame, v value.Value) (ast.Expr, value.Environment, bool, value.Value, error) {
	idx := len(f.Names) - len(f.Remaining) - 1
	name := f.Names[idx]

	if f.LetKind != machine.LetPlain {
		f.BindEnv.Define(value.NewSymbol(name).ID, v)
	}
	done := append(append([]value.Value{}, f.Done...), v)

	if len(f.Remaining) > 0 {
		nextEnv := f.Env
		if f.BindEnv != nil {
			nextEnv = f.BindEnv
		}
		ev.m.Push(machine.LetFrame{
			Base:      f.Base,
			Names:     f.Names,
			Remaining: f.Remaining[1:],
			Done:      done,
			Body:      f.Body,
			BindEnv:   f.BindEnv,
			LetKind:   f.LetKind,
		})
		return f.Remaining[0], nextEnv, false, nil, nil
	}

	bodyEnv := f.BindEnv
	if f.LetKind == machine.LetPlain {
		bodyEnv = f.Env.Extend()
		for i, n := range f.Names {
			bodyEnv.Define(value.NewSymbol(n).ID, done[i])
		}
	}
	return ev.resumeBody(f.Body, bodyEnv)
}

// resumeBody runs body in env as the continuation of a frame that has
// already been popped, pushing a SequenceFrame for any expressions beyond
// the first, matching resume's return shape rather than step's.
func (ev *Evaluator) resumeBody(body []ast.Expr, env value.Environment) (ast.Expr, value.Environment, bool, value.Value, error) {
	if len(body) == 0 {
		return ast.Expr{}, nil, true, value.TheUnspecified, nil
	}
	if len(body) > 1 {
		ev.m.Push(machine.SequenceFrame{Base: machine.Base{Env: env}, Remaining: body[1:]})
	}
	return body[0], env, false, nil, nil
}
