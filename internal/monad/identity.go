package monad

// Identity is the zero-cost wrapper monad: Bind is just function
// application. Its only purpose is to let the monad laws be stated and
// tested uniformly across the whole library (spec.md §8 property 6).
type Identity[A any] struct {
	value A
}

func NewIdentity[A any](a A) Identity[A] { return Identity[A]{value: a} }

func (i Identity[A]) Run() A { return i.value }

func IdentityBind[A, B any](m Identity[A], f func(A) Identity[B]) Identity[B] {
	return f(m.value)
}

func IdentityMap[A, B any](m Identity[A], f func(A) B) Identity[B] {
	return NewIdentity(f(m.value))
}
