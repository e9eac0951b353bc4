package monad

// ParserM[S, A] is the parsing monad (spec.md §4.6): a computation over
// an input stream of S that either fails or produces a value plus the
// remaining input. It mirrors the teacher's syntax/parser.Func (a
// function from (iter, state) to a Result that is either failure or a
// value plus how much input it consumed) generalized from rune-stream
// lexing to monadic sequencing over any token type. internal/macro's
// pattern matcher does not use it.
type ParserM[S, A any] func([]S) (A, []S, bool)

// ParserPure succeeds immediately without consuming input.
func ParserPure[S, A any](a A) ParserM[S, A] {
	return func(in []S) (A, []S, bool) { return a, in, true }
}

// ParserFail always fails.
func ParserFail[S, A any]() ParserM[S, A] {
	return func(in []S) (A, []S, bool) {
		var zero A
		return zero, in, false
	}
}

// ParserBind sequences two parsers, the Then of the teacher's
// combinator style generalized to carry a typed result through instead
// of only a consumed-rune count.
func ParserBind[S, A, B any](m ParserM[S, A], f func(A) ParserM[S, B]) ParserM[S, B] {
	return func(in []S) (B, []S, bool) {
		a, rest, ok := m(in)
		if !ok {
			var zero B
			return zero, in, false
		}
		return f(a)(rest)
	}
}

func ParserMap[S, A, B any](m ParserM[S, A], f func(A) B) ParserM[S, B] {
	return func(in []S) (B, []S, bool) {
		a, rest, ok := m(in)
		if !ok {
			var zero B
			return zero, in, false
		}
		return f(a), rest, true
	}
}

// ParserOr tries m, falling back to alt on failure without consuming
// input from the failed attempt — the teacher's Func.Or.
func ParserOr[S, A any](m, alt ParserM[S, A]) ParserM[S, A] {
	return func(in []S) (A, []S, bool) {
		if a, rest, ok := m(in); ok {
			return a, rest, true
		}
		return alt(in)
	}
}

// ParserMany applies m zero or more times, collecting results until it
// first fails.
func ParserMany[S, A any](m ParserM[S, A]) ParserM[S, []A] {
	return func(in []S) ([]A, []S, bool) {
		var out []A
		rest := in
		for {
			a, next, ok := m(rest)
			if !ok {
				return out, rest, true
			}
			out = append(out, a)
			rest = next
		}
	}
}
