// Package eval drives package machine's evaluation context over
// spec.md §4.4: a tree-walking evaluator that steps one Frame at a time
// instead of recursing natively through Go's call stack, so that tail
// calls never grow the context (spec.md §4.3/§9).
//
// The dispatch is grounded in the teacher's input/vm Runtime.ProcessEvent:
// the teacher steps a set of NFA threads against one instruction at a
// time from a switch over the current opcode; Evaluator.run steps one
// logical thread against one ast.Expr "instruction" at a time from a
// switch over ast.Expr.Kind, pushing a machine.Frame whenever it needs to
// remember what to do with a sub-result (the teacher's thread forking)
// and popping (or, for a genuine tail position, simply not pushing) when
// a value is ready to flow back in (the teacher's thread completing).
package eval

import (
	"fmt"

	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/gcroots"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/machine"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// Evaluator is the top-level evaluation engine: one per top-level
// evaluation (REPL read-eval-print step, or program run), holding the
// single Machine that every nested Apply call (from primitives like map,
// for-each, and call/cc's receiver) shares, so a continuation captured
// anywhere during this evaluation remains valid everywhere else in it.
type Evaluator struct {
	m      *machine.Machine
	global value.Environment
	curEnv value.Environment // the dynamic environment of the innermost active Apply, for CurrentEnv()
	roots  *gcroots.Session  // nil unless a collector attached one (AttachGCRoots)
}

var _ value.EvaluatorHandle = (*Evaluator)(nil)

// New creates an Evaluator rooted at global.
func New(global value.Environment) *Evaluator {
	return &Evaluator{m: machine.New(), global: global, curEnv: global}
}

// Global returns the top-level environment.
func (ev *Evaluator) Global() value.Environment { return ev.global }

// AttachGCRoots opens a gcroots.Session over this Evaluator's Machine and
// global environment so every continuation captured afterward is
// registered with it (spec §4.8). Package trace and cmd/lambdust call
// this when a debugger or collector needs liveness visibility; an
// Evaluator with no Session attached skips the bookkeeping entirely.
func (ev *Evaluator) AttachGCRoots() *gcroots.Session {
	ev.roots = gcroots.Open(ev.m, ev.global)
	return ev.roots
}

// GCRoots returns the attached session, or nil if none was attached.
func (ev *Evaluator) GCRoots() *gcroots.Session { return ev.roots }

// escapeSignal signals that a continuation jump unwound past the Apply
// call currently returning this error; every caller (in practice, every
// primitive's AwareFn) must propagate it immediately rather than
// continuing its own work, exactly like an ordinary Go error return —
// the only special handling required is inside Eval/Apply themselves,
// which recognize it and stop treating the call as having "returned a
// value" in the normal sense.
type escapeSignal struct{}

func (escapeSignal) Error() string { return "eval: continuation invoked past enclosing call" }

// Eval evaluates expr in env to completion, the public entry point used
// by the REPL and by program loading.
func (ev *Evaluator) Eval(expr ast.Expr, env value.Environment) (value.Value, error) {
	prevEnv := ev.curEnv
	ev.curEnv = env
	defer func() { ev.curEnv = prevEnv }()

	v, err := ev.run(expr, env, 0)
	if _, escaped := err.(escapeSignal); escaped {
		return nil, lerr.NewRuntimeError("continuation invoked with no enclosing call/cc to return to")
	}
	return v, err
}

// Apply implements value.EvaluatorHandle, invoked by evaluator-aware
// primitives (apply, map, for-each, call/cc's receiver, exception
// handlers) that must call back into Scheme code.
func (ev *Evaluator) Apply(proc value.Value, args []value.Value) (value.Value, error) {
	prevEnv := ev.curEnv
	defer func() { ev.curEnv = prevEnv }()

	floor := ev.m.Depth()
	v, err := ev.invokeAtFloor(proc, args, floor)
	if _, escaped := err.(escapeSignal); escaped {
		return nil, escapeSignal{}
	}
	return v, err
}

// CurrentEnv implements value.EvaluatorHandle.
func (ev *Evaluator) CurrentEnv() value.Environment { return ev.curEnv }

// phase tracks which half of the CEK step the driving loop is in:
// evaluating a redex down, or delivering a value back up through frames.
type phase int

const (
	phaseEval phase = iota
	phaseReturn
)

// run is the trampoline: it steps (redex, env) forward and values
// backward until the frame stack returns to floor, at which point it
// returns whatever value is current. floor is 0 for a top-level Eval and
// the machine's depth-at-call-time for a nested Apply, so a nested call
// returns as soon as (and only as soon as) the work it pushed is done,
// never touching frames that belong to an enclosing call.
func (ev *Evaluator) run(redex ast.Expr, env value.Environment, floor int) (value.Value, error) {
	var curVal value.Value
	ph := phaseEval
	jumped := false

	for {
		if ph == phaseEval {
			v, nextExpr, nextEnv, pushed, err := ev.step(redex, env)
			if err != nil {
				if err == machine.ErrJump {
					ph = phaseReturn
					continue
				}
				handledVal, handledErr, handled := ev.dispatchException(err)
				if !handled {
					return nil, handledErr
				}
				curVal = handledVal
				ph = phaseReturn
				continue
			}
			if pushed {
				redex, env = nextExpr, nextEnv
				continue
			}
			curVal = v
			ph = phaseReturn
		}

		// phaseReturn: deliver curVal to whatever is on top of the
		// context, unless we've unwound back to our own floor.
		if frames, jumpVal, ok := ev.m.TakePending(); ok {
			ev.m.Restore(frames)
			curVal = jumpVal
			jumped = true
			ph = phaseReturn
			if ev.m.Depth() <= floor {
				if jumped && ev.m.Depth() < floor {
					return nil, escapeSignal{}
				}
				return curVal, nil
			}
			continue
		}

		if ev.m.Depth() <= floor {
			return curVal, nil
		}

		top, _ := ev.m.Top()
		nextExpr, nextEnv, done, result, err := ev.resume(top, curVal)
		if err != nil {
			handledVal, handledErr, handled := ev.dispatchException(err)
			if !handled {
				return nil, handledErr
			}
			curVal = handledVal
			ph = phaseReturn
			continue
		}
		if done {
			curVal = result
			ph = phaseReturn
			continue
		}
		redex, env = nextExpr, nextEnv
		ph = phaseEval
	}
}

// invokeAtFloor applies proc to args, pushing whatever frames the call
// needs and running the trampoline until it unwinds back to floor.
func (ev *Evaluator) invokeAtFloor(proc value.Value, args []value.Value, floor int) (value.Value, error) {
	redex, env, done, result, err := ev.beginApply(proc, args)
	if err != nil {
		return nil, err
	}
	if done {
		return result, nil
	}
	return ev.run(redex, env, floor)
}

// datumValue recovers the value.Value a KindLiteral/KindQuote node
// carries. ast.Expr stores it as `any` to avoid an import cycle (see
// package ast's doc comment); by construction (internal/reader/fromdatum.go
// and every literal this evaluator itself builds) it is always a
// value.Value in practice.
func datumValue(d any) (value.Value, error) {
	if d == nil {
		return value.TheUnspecified, nil
	}
	v, ok := d.(value.Value)
	if !ok {
		return nil, fmt.Errorf("eval: literal datum is not a value.Value: %T", d)
	}
	return v, nil
}
