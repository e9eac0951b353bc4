// Package machine implements the evaluation context of spec §4.3: an
// ordered stack of frames describing pending work, plus first-class
// continuations reified from a snapshot of that stack.
//
// The design is adapted from the teacher's input/vm package: aretext's
// Runtime schedules many concurrent regex threadStates over a Program of
// opRead/opJump/opFork instructions, growing the active-thread set with
// opFork and shrinking it as threads die. Machine specializes this to
// exactly one thread whose "instructions" are evaluator frames: tail calls
// replace the top frame in place (the analogue of mutating
// thread.programCounter without growing the thread set) and call/cc's
// capture is the analogue of opFork — except instead of forking forward
// into a sibling thread, it freezes the current thread's state so it can
// be resumed again later, possibly more than once.
package machine

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/symbol"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// FrameKind identifies which of spec §4.3's frame variants a Frame is.
type FrameKind int

const (
	FrameApplicationOperator FrameKind = iota
	FrameApplicationOperand
	FrameIf
	FrameSet
	FrameSequence
	FrameLet
	FrameProcedureCall
	FrameCallCC
	FrameHandler
	FrameWind
)

// Base is embedded in every concrete Frame, carrying the captured
// environment and source span every frame variant needs per spec §4.3.
type Base struct {
	Env  value.Environment
	Span ast.Span
}

// Frame is one pending-work entry in the evaluation context.
type Frame interface {
	FrameKind() FrameKind
	base() Base
}

func (b Base) base() Base { return b }

// ApplicationOperatorFrame: waiting to evaluate the operator; then shifts
// to ApplicationOperandFrame.
type ApplicationOperatorFrame struct {
	Base
	Operands []ast.Expr
}

func (ApplicationOperatorFrame) FrameKind() FrameKind { return FrameApplicationOperator }

// ApplicationOperandFrame: operator and some arguments already values;
// evaluate the next operand left to right.
type ApplicationOperandFrame struct {
	Base
	Proc    value.Value
	Done    []value.Value
	Pending []ast.Expr
}

func (ApplicationOperandFrame) FrameKind() FrameKind { return FrameApplicationOperand }

// IfFrame: condition pending.
type IfFrame struct {
	Base
	Then ast.Expr
	Else *ast.Expr
}

func (IfFrame) FrameKind() FrameKind { return FrameIf }

// SetFrame: assignment target named. IsDefine distinguishes (define n v)
// from (set! n v): both reduce v to a value and then bind it by name,
// differing only in whether the binding must already exist (set!) or is
// introduced fresh in the local frame (define).
type SetFrame struct {
	Base
	Name     symbol.ID
	IsDefine bool
}

func (SetFrame) FrameKind() FrameKind { return FrameSet }

// SequenceFrame: begin with more to run.
type SequenceFrame struct {
	Base
	Remaining []ast.Expr
}

func (SequenceFrame) FrameKind() FrameKind { return FrameSequence }

// LetBindingKind distinguishes let/let*/letrec*'s evaluation order.
type LetBindingKind int

const (
	LetPlain LetBindingKind = iota
	LetStar
	LetrecStar
)

// LetFrame: one binding form pending, for let/let*/letrec*.
type LetFrame struct {
	Base
	Names     []string
	Remaining []ast.Expr // binding-value expressions not yet started, parallel to Names[len(Done)+1:]
	Done      []value.Value
	Body      []ast.Expr
	BindEnv   value.Environment // the frame being populated: nil for let, a fresh child of Env for let*/letrec*
	LetKind   LetBindingKind
}

func (LetFrame) FrameKind() FrameKind { return FrameLet }

// ProcedureCallFrame: inside a called procedure's body.
type ProcedureCallFrame struct {
	Base
	Name          string
	RemainingBody []ast.Expr
}

func (ProcedureCallFrame) FrameKind() FrameKind { return FrameProcedureCall }

// CallCCFrame: the operator of call/cc has been applied; the captured
// context (everything below this frame) becomes the continuation value
// passed to the user's receiver procedure.
type CallCCFrame struct {
	Base
}

func (CallCCFrame) FrameKind() FrameKind { return FrameCallCC }

// HandlerFrame: a guard/with-exception-handler dynamic extent. Handler is
// either a Scheme procedure (with-exception-handler) or nil, with Clauses
// used instead (guard).
type HandlerFrame struct {
	Base
	Continuable bool
	Handler     value.Value
	GuardVar    string
	Clauses     []ast.CondClause
}

func (HandlerFrame) FrameKind() FrameKind { return FrameHandler }

// WindFrame: an active dynamic-wind extent (spec §4.4/§9 open question
// 4). The evaluator never pushes one: dynamic-wind is a primitive in
// package eval that brackets its thunks with nested Apply calls.
type WindFrame struct {
	Base
	Before, After value.Value
}

func (WindFrame) FrameKind() FrameKind { return FrameWind }

// IsTailProcedureCall reports whether f is a ProcedureCallFrame with no
// remaining body — the tail-position condition of spec §4.3.
func IsTailProcedureCall(f Frame) bool {
	pc, ok := f.(ProcedureCallFrame)
	return ok && len(pc.RemainingBody) == 0
}

// StackFrame is the stack-trace descriptor of spec §4.3, derived from a
// Frame for error reporting and debugger display (package trace).
type StackFrame struct {
	Kind     string
	Name     string
	Location *ast.Span
}

// Env returns the environment captured in f's Base, the per-frame root
// package gcroots enumerates for liveness (spec §4.8).
func Env(f Frame) value.Environment { return f.base().Env }

// Describe renders f as a StackFrame.
func Describe(f Frame) StackFrame {
	b := f.base()
	sf := StackFrame{Location: &b.Span}
	switch t := f.(type) {
	case ApplicationOperatorFrame:
		sf.Kind = "application-operator"
	case ApplicationOperandFrame:
		sf.Kind = "application-operand"
	case ProcedureCallFrame:
		sf.Kind = "procedure-call"
		sf.Name = t.Name
	case IfFrame:
		sf.Kind = "if"
	case SetFrame:
		sf.Kind = "set!"
		sf.Name = symbol.Name(t.Name)
	case SequenceFrame:
		sf.Kind = "sequence"
	case LetFrame:
		sf.Kind = "let"
	case CallCCFrame:
		sf.Kind = "call/cc"
	case HandlerFrame:
		sf.Kind = "handler"
	case WindFrame:
		sf.Kind = "dynamic-wind"
	}
	return sf
}
