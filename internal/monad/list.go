package monad

// ListM is the nondeterminism monad (spec.md §4.6): a computation that
// produces zero or more results. Package macro's ellipsis matcher does
// not use it; it matches greedily without backtracking.
type ListM[A any] []A

func ListPure[A any](a A) ListM[A] { return ListM[A]{a} }

func ListBind[A, B any](m ListM[A], f func(A) ListM[B]) ListM[B] {
	out := make(ListM[B], 0, len(m))
	for _, a := range m {
		out = append(out, f(a)...)
	}
	return out
}

func ListMap[A, B any](m ListM[A], f func(A) B) ListM[B] {
	out := make(ListM[B], len(m))
	for i, a := range m {
		out[i] = f(a)
	}
	return out
}

// ListGuard is the standard nondeterminism guard: discards the current
// branch (returns no results) unless cond holds.
func ListGuard(cond bool) ListM[struct{}] {
	if cond {
		return ListM[struct{}]{{}}
	}
	return ListM[struct{}]{}
}
