package monad

// Either is the short-circuit-with-error-value monad: Left carries a
// failure (typically an error-denoting value), Right carries success.
type Either[E, A any] struct {
	isRight bool
	left    E
	right   A
}

func Left[E, A any](e E) Either[E, A] { return Either[E, A]{left: e} }

func Right[E, A any](a A) Either[E, A] { return Either[E, A]{isRight: true, right: a} }

func (e Either[E, A]) IsRight() bool { return e.isRight }

func (e Either[E, A]) FromLeft() E  { return e.left }
func (e Either[E, A]) FromRight() A { return e.right }

// EitherBind short-circuits on Left, matching Maybe's shape but carrying
// the failure reason through instead of discarding it.
func EitherBind[E, A, B any](m Either[E, A], f func(A) Either[E, B]) Either[E, B] {
	if !m.isRight {
		return Left[E, B](m.left)
	}
	return f(m.right)
}

func EitherMap[E, A, B any](m Either[E, A], f func(A) B) Either[E, B] {
	return EitherBind(m, func(a A) Either[E, B] { return Right[E, B](f(a)) })
}
