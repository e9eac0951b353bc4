// Package lerr implements the error taxonomy of spec §4.7: ParseError,
// TypeError, RuntimeError, MacroError, and Exception, each carrying a
// preserved stack trace so it survives control jumps (continuation
// capture/invocation) intact.
//
// Stack capture uses github.com/pkg/errors, the same library the teacher
// reaches for at its own Go-error boundary (config/ruleset.go's
// errors.Wrapf) — applied here at the point a Go error becomes a
// Scheme-visible condition.
package lerr

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// Span mirrors ast.Span without importing package ast, to keep lerr
// dependency-light (it is imported from nearly everywhere).
type Span struct {
	Start, End int
}

// ParseError comes from the lexer/parser, an external collaborator (spec
// §1); it is represented here only so the core can report one if a host
// hands it one (e.g. via `read` on malformed input).
type ParseError struct {
	Message string
	Span    Span
	cause   error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %s", e.Message) }
func (e *ParseError) Unwrap() error { return e.cause }

func NewParseError(message string, span Span) error {
	return &ParseError{Message: message, Span: span, cause: errors.New(message)}
}

// TypeError is raised when an operation is applied to a value of the
// wrong shape (spec §4.1).
type TypeError struct {
	Message string
	Span    Span
	cause   error
}

func (e *TypeError) Error() string { return fmt.Sprintf("type error: %s", e.Message) }
func (e *TypeError) Unwrap() error { return e.cause }

func NewTypeError(message string, span Span) error {
	return &TypeError{Message: message, Span: span, cause: errors.New(message)}
}

func Typef(span Span, format string, args ...any) error {
	return NewTypeError(fmt.Sprintf(format, args...), span)
}

// RuntimeError is the generic runtime failure.
type RuntimeError struct {
	Message string
	Span    *Span
	cause   error
}

func (e *RuntimeError) Error() string { return fmt.Sprintf("runtime error: %s", e.Message) }
func (e *RuntimeError) Unwrap() error { return e.cause }

func NewRuntimeError(message string) error {
	return &RuntimeError{Message: message, cause: errors.New(message)}
}

func Runtimef(format string, args ...any) error {
	return NewRuntimeError(fmt.Sprintf(format, args...))
}

// MacroError comes from pattern/template failures (spec §4.5), and
// carries the expansion chain that led to the failure (for the
// recursion-depth-limit case, spec §9).
type MacroError struct {
	Message string
	Span    Span
	Chain   []string
	cause   error
}

func (e *MacroError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("macro error: %s", e.Message)
	}
	return fmt.Sprintf("macro error: %s (expanding: %v)", e.Message, e.Chain)
}
func (e *MacroError) Unwrap() error { return e.cause }

func NewMacroError(message string, span Span, chain []string) error {
	return &MacroError{Message: message, Span: span, Chain: chain, cause: errors.New(message)}
}

// Exception wraps a raised ErrorObject-or-arbitrary-Value (raise accepts
// any value, not just error objects) with continuable-ness and a
// preserved stack trace (spec §4.7).
type Exception struct {
	Object      value.Value
	Continuable bool
	stack       error // captured via errors.WithStack at raise time
}

func (e *Exception) Error() string {
	if eo, ok := e.Object.(*value.ErrorObject); ok {
		return eo.Message
	}
	return fmt.Sprintf("uncaught exception: %v", e.Object)
}

func (e *Exception) Unwrap() error { return e.stack }

// StackTrace exposes the pkg/errors stack frames captured at raise time,
// so a debugger (package trace) can render where the exception (or a
// continuation invoked from inside its handler) originated, even after
// control has since unwound through several more frames.
func (e *Exception) StackTrace() errors.StackTrace {
	type tracer interface{ StackTrace() errors.StackTrace }
	if t, ok := e.stack.(tracer); ok {
		return t.StackTrace()
	}
	return nil
}

// NewException raises obj as a non-continuable exception, capturing a
// fresh stack trace.
func NewException(obj value.Value) *Exception {
	return &Exception{Object: obj, Continuable: false, stack: errors.WithStack(errors.New("raise"))}
}

// NewContinuableException is the denotation of raise-continuable: a
// handler that returns a value resumes execution with that value instead
// of propagating further (spec §7).
func NewContinuableException(obj value.Value) *Exception {
	return &Exception{Object: obj, Continuable: true, stack: errors.WithStack(errors.New("raise-continuable"))}
}

// FromError wraps a non-Scheme Go error that escaped into evaluation
// (e.g. a port I/O failure) as a non-continuable exception carrying a
// general ErrorObject, preserving err as the underlying cause so
// %+v/errors.Cause still shows the original failure.
func FromError(err error) *Exception {
	wrapped := errors.WithStack(err)
	return &Exception{
		Object:      value.NewErrorObject(err.Error(), nil),
		Continuable: false,
		stack:       wrapped,
	}
}
