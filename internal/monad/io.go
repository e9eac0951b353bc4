package monad

import (
	"bufio"
	"fmt"
	"io"
)

// ioTag discriminates IO's closed set of constructors, the same
// flat-struct-plus-tag shape as the teacher's undo.Op (there, InsertOp
// vs. DeleteOp is distinguished by which text field is populated; here
// an explicit tag is clearer since IO has eight variants instead of two).
type ioTag int

const (
	ioPure ioTag = iota
	ioRead
	ioWrite
	ioPrint
	ioOpen
	ioClose
	ioBind
	ioError
)

// IO is a deep embedding of spec.md §4.6's IO(a): a description of an
// effectful computation, built by the constructors below and run by an
// IOContext that actually performs the effects.
type IO[A any] struct {
	tag ioTag

	pureValue A
	text      string        // ioWrite/ioPrint payload, ioOpen path
	err       error         // ioError payload
	handle    io.ReadWriter // ioClose target

	bindPrev any             // IO[X] for some X, for ioBind
	bindNext func(any) IO[A] // continuation from X to IO[A], for ioBind
}

// IOPure lifts a plain value into IO, doing nothing.
func IOPure[A any](a A) IO[A] { return IO[A]{tag: ioPure, pureValue: a} }

// IOError builds a failed IO computation.
func IOError[A any](err error) IO[A] { return IO[A]{tag: ioError, err: err} }

// IOPrint builds an IO action that writes s followed by a newline to the
// context's stdout.
func IOPrint(s string) IO[struct{}] { return IO[struct{}]{tag: ioPrint, text: s} }

// IOWrite builds an IO action that writes s (no trailing newline) to h.
func IOWrite(h io.ReadWriter, s string) IO[struct{}] {
	return IO[struct{}]{tag: ioWrite, handle: h, text: s}
}

// IORead builds an IO action that reads a line from h.
func IORead(h io.ReadWriter) IO[string] {
	return IO[string]{tag: ioRead, handle: h}
}

// IOClose builds an IO action that closes h, if it is an io.Closer.
func IOClose(h io.ReadWriter) IO[struct{}] {
	return IO[struct{}]{tag: ioClose, handle: h}
}

// IOBind sequences two IO computations, the Bind constructor of the
// deep embedding: m's result feeds f, but nothing runs until an
// IOContext interprets the tree.
func IOBind[A, B any](m IO[A], f func(A) IO[B]) IO[B] {
	return IO[B]{
		tag:      ioBind,
		bindPrev: m,
		bindNext: func(x any) IO[B] { return f(x.(A)) },
	}
}

func IOMap[A, B any](m IO[A], f func(A) B) IO[B] {
	return IOBind(m, func(a A) IO[B] { return IOPure(f(a)) })
}

// IOContext interprets an IO tree, mediating the real effects (spec.md
// §4.6: "interpreted by an IOContext that mediates real effects").
type IOContext struct {
	Stdout io.Writer
}

// RunIO interprets m, performing its effects against ctx and returning
// either the produced value or the first error encountered.
func RunIO[A any](ctx *IOContext, m IO[A]) (A, error) {
	var zero A
	switch m.tag {
	case ioPure:
		return m.pureValue, nil
	case ioError:
		return zero, m.err
	case ioPrint:
		if _, err := fmt.Fprintln(ctx.Stdout, m.text); err != nil {
			return zero, err
		}
		return zero, nil
	case ioWrite:
		if _, err := io.WriteString(m.handle, m.text); err != nil {
			return zero, err
		}
		return zero, nil
	case ioRead:
		line, err := bufio.NewReader(m.handle).ReadString('\n')
		if err != nil && err != io.EOF {
			return zero, err
		}
		return any(line).(A), nil
	case ioClose:
		if c, ok := m.handle.(io.Closer); ok {
			return zero, c.Close()
		}
		return zero, nil
	case ioBind:
		prevResult, err := runIOAny(ctx, m.bindPrev)
		if err != nil {
			return zero, err
		}
		next := m.bindNext(prevResult)
		return RunIO(ctx, next)
	default:
		return zero, fmt.Errorf("monad: unknown IO tag %d", m.tag)
	}
}

// runIOAny type-erases RunIO for use inside the bind interpreter, where
// the previous computation's result type is not statically known at the
// point IOBind was constructed.
func runIOAny(ctx *IOContext, m any) (any, error) {
	switch typed := m.(type) {
	case IO[struct{}]:
		return RunIO(ctx, typed)
	case IO[string]:
		return RunIO(ctx, typed)
	default:
		return nil, fmt.Errorf("monad: unsupported IO bind payload type %T", m)
	}
}
